package codec

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veskos/raidbridge/pkg/core/ccresolver"
	"github.com/veskos/raidbridge/pkg/core/model"
)

func testEvent() model.RaidEvent {
	return model.RaidEvent{
		EventID:   "123456789012345678",
		Title:     "Molten Core",
		StartTime: time.Unix(1700000000, 0).UTC(),
		Signups: []model.RaidSignup{
			{DiscordID: "u-1", DiscordName: "Smash", Class: model.Warrior, Role: model.RoleTank, Status: model.StatusConfirmed},
			{DiscordID: "u-2", DiscordName: "Frosty", Class: model.Mage, Role: model.RoleRanged, Spec: "frost", Status: model.StatusTentative},
			{DiscordID: "u-3", DiscordName: "Flaky", Class: model.Rogue, Role: model.RoleMelee, Status: model.StatusBench},
		},
	}
}

func TestBuildImportPayload_FiltersToAttendingPlayers(t *testing.T) {
	payload := BuildImportPayload(testEvent(), nil, nil, nil, nil)

	assert.Equal(t, model.PayloadVersion, payload.Version)
	assert.Equal(t, "123456789012345678", payload.EventID)
	assert.Equal(t, "Molten Core", payload.EventName)
	assert.Equal(t, int64(1700000000), payload.EventTime)

	require.Len(t, payload.Players, 2, "bench signups are excluded")
	assert.Equal(t, "Smash", payload.Players[0].Name)
	assert.Equal(t, "Frosty", payload.Players[1].Name)
	assert.Equal(t, "frost", payload.Players[1].Spec)
}

func TestBuildImportPayload_ResolvedBeatsTemplates(t *testing.T) {
	ccTemplate := &model.CCTemplate{Name: "default"}
	groupTemplates := []model.GroupTemplate{{Name: "Melee"}}
	resolvedCC := []model.CCAssignment{{Marker: 6, Entries: []model.CCAssignmentEntry{{CCType: model.Polymorph, PlayerName: "Frosty"}}}}
	resolvedGroups := []model.GroupAssignment{{GroupNumber: 1, Label: "Group 1", Players: []string{"Smash"}}}

	payload := BuildImportPayload(testEvent(), ccTemplate, groupTemplates, resolvedCC, resolvedGroups)
	assert.Nil(t, payload.CCTemplate)
	assert.Nil(t, payload.GroupTemplates)
	assert.Equal(t, resolvedCC, payload.CCAssignments)
	assert.Equal(t, resolvedGroups, payload.GroupAssignments)

	payload = BuildImportPayload(testEvent(), ccTemplate, groupTemplates, nil, nil)
	assert.Equal(t, ccTemplate, payload.CCTemplate)
	assert.Equal(t, groupTemplates, payload.GroupTemplates)
	assert.Nil(t, payload.CCAssignments)
	assert.Nil(t, payload.GroupAssignments)
}

func TestBuildImportPayload_CharacterMappings(t *testing.T) {
	event := testEvent()
	payload := BuildImportPayload(event, nil, nil, nil, nil)
	assert.Nil(t, payload.CharacterMappings, "omitted when no character names are set")

	event.Signups[0].WowCharacter = "Smashface"
	payload = BuildImportPayload(event, nil, nil, nil, nil)
	assert.Equal(t, map[string]string{"u-1": "Smashface"}, payload.CharacterMappings)
	assert.Equal(t, "Smashface", payload.Players[0].Name)
}

func TestImportString_RoundTrip(t *testing.T) {
	payloads := []model.ImportPayload{
		{
			Version:   model.PayloadVersion,
			EventID:   "1",
			EventName: "Minimal",
			EventTime: 0,
			Players:   []model.PlayerInfo{},
		},
		BuildImportPayload(
			testEvent(),
			nil,
			nil,
			[]model.CCAssignment{
				{Marker: 6, Entries: []model.CCAssignmentEntry{
					{CCType: model.Polymorph, PlayerName: "Frosty"},
					{CCType: model.Sap, PlayerName: "Stabby"},
				}},
			},
			[]model.GroupAssignment{
				{GroupNumber: 1, Label: "Group 1", Players: []string{"Smash", "Frosty"}},
				{GroupNumber: 2, Label: "Group 2", Players: []string{}},
			},
		),
	}

	for _, payload := range payloads {
		encoded, err := GenerateImportString(payload)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(encoded, ImportPrefix))

		decoded, err := ParseImportString(encoded)
		require.NoError(t, err)
		assert.Equal(t, payload, *decoded)
	}
}

func TestImportString_TemplatePayloadCarriesPreferenceLists(t *testing.T) {
	payload := BuildImportPayload(testEvent(), nil, []model.GroupTemplate{
		{Name: "Melee", PreferredClasses: []model.WowClass{model.Warrior}, PreferredRoles: []model.RaidRole{}, PriorityBuffs: []string{}},
	}, nil, nil)

	encoded, err := GenerateImportString(payload)
	require.NoError(t, err)
	decoded, err := ParseImportString(encoded)
	require.NoError(t, err)
	assert.Equal(t, payload, *decoded)

	// The template preference lists are required wire fields, present
	// even when empty.
	raw, err := json.Marshal(payload.GroupTemplates[0])
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"priorityBuffs":[]`)
	assert.Contains(t, string(raw), `"preferredRoles":[]`)
	assert.Contains(t, string(raw), `"preferredClasses":["WARRIOR"]`)
}

func TestImportString_RoundTripEmptyOptionalSlices(t *testing.T) {
	// A CC-less roster resolves to empty non-nil assignment slices.
	// Those must come back as [] after decode, not nil: empty and
	// absent are distinct states on the wire.
	event := model.RaidEvent{
		EventID:   "9",
		Title:     "Warriors Only",
		StartTime: time.Unix(1700000000, 0).UTC(),
		Signups: []model.RaidSignup{
			{DiscordID: "u-1", DiscordName: "Smash", Class: model.Warrior, Role: model.RoleTank, Status: model.StatusConfirmed},
		},
	}
	payload := BuildImportPayload(
		event,
		nil,
		nil,
		ccresolver.AutoResolveCC(event.Signups),
		[]model.GroupAssignment{},
	)
	require.NotNil(t, payload.CCAssignments)
	assert.Empty(t, payload.CCAssignments)

	encoded, err := GenerateImportString(payload)
	require.NoError(t, err)
	decoded, err := ParseImportString(encoded)
	require.NoError(t, err)

	assert.Equal(t, payload, *decoded)
	assert.NotNil(t, decoded.CCAssignments)
	assert.NotNil(t, decoded.GroupAssignments)
	assert.Nil(t, decoded.CCTemplate)
	assert.Nil(t, decoded.GroupTemplates)
	assert.Nil(t, decoded.CharacterMappings)
}

func TestParseImportString_MissingPrefix(t *testing.T) {
	_, err := ParseImportString("not an import string")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ImportPrefix)
}

func TestParseImportString_BadBase64(t *testing.T) {
	_, err := ParseImportString(ImportPrefix + "!!!not-base64!!!")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base64")
}

func TestParseImportString_BadDeflateStream(t *testing.T) {
	garbage := base64.StdEncoding.EncodeToString([]byte("definitely not deflate"))
	_, err := ParseImportString(ImportPrefix + garbage)
	assert.Error(t, err)
}

func TestParseImportString_BadJSON(t *testing.T) {
	compressed, err := deflateRaw([]byte("{not json"))
	require.NoError(t, err)
	_, err = ParseImportString(ImportPrefix + base64.StdEncoding.EncodeToString(compressed))
	assert.Error(t, err)
}

func TestGenerateImportSummary(t *testing.T) {
	payload := BuildImportPayload(
		testEvent(),
		nil,
		nil,
		[]model.CCAssignment{
			{Marker: 6, Entries: []model.CCAssignmentEntry{
				{CCType: model.Polymorph, PlayerName: "Frosty"},
				{CCType: model.Sap, PlayerName: "Stabby"},
			}},
		},
		[]model.GroupAssignment{
			{GroupNumber: 1, Label: "Group 1", Players: []string{"Smash", "Frosty"}},
			{GroupNumber: 2, Label: "Group 2", Players: []string{}},
		},
	)

	summary := GenerateImportSummary(payload)

	assert.Contains(t, summary, "Event: Molten Core")
	assert.Contains(t, summary, "Players: 2")
	assert.Contains(t, summary, "Time: "+time.Unix(1700000000, 0).UTC().Format(time.RFC1123))
	assert.Contains(t, summary, "  WARRIOR: Smash")
	assert.Contains(t, summary, "  MAGE: Frosty")
	assert.Contains(t, summary, "  Square: Frosty (polymorph)")
	assert.Contains(t, summary, "  Square: Stabby (sap) [fallback]")
	assert.Contains(t, summary, "  Group 1 (Group 1): Smash, Frosty")
	assert.Contains(t, summary, "  Group 2 (Group 2): (empty)")

	// Class sections follow the fixed class order, warrior first.
	assert.Less(t, strings.Index(summary, "WARRIOR"), strings.Index(summary, "MAGE"))

	assert.Equal(t, summary, GenerateImportSummary(payload), "summary is deterministic")
}

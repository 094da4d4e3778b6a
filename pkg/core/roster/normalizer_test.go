package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veskos/raidbridge/pkg/core/model"
)

func TestNormalize_ExcludedClassNames(t *testing.T) {
	for _, className := range []string{"Absence", "Bench", "Tentative", "Late", "absence"} {
		_, ok := Normalize(RawSignup{
			Name:      "Dora",
			ClassName: className,
			RoleName:  "Ranged",
		})
		assert.False(t, ok, "class %q should be excluded", className)
	}
}

func TestNormalize_DirectClassMatch(t *testing.T) {
	signup, ok := Normalize(RawSignup{
		Name:      "Frosty",
		ClassName: "Mage",
		SpecName:  "Frost1",
		RoleName:  "Ranged",
		EntryTime: 1700000000,
		Position:  3,
		Status:    "primary",
		UserID:    "u-1",
	})
	require.True(t, ok)

	assert.Equal(t, model.Mage, signup.Class)
	assert.Equal(t, model.RoleRanged, signup.Role)
	assert.Equal(t, "frost", signup.Spec)
	assert.Equal(t, 3, signup.Position)
	assert.Equal(t, "u-1", signup.DiscordID)
	assert.Equal(t, "Frosty", signup.DiscordName)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), signup.SignupTime)
	assert.Equal(t, model.StatusConfirmed, signup.Status)
	assert.Empty(t, signup.WowCharacter)
}

func TestNormalize_ClassInferredFromSpec(t *testing.T) {
	tests := []struct {
		name      string
		className string
		specName  string
		want      model.WowClass
	}{
		{"protection defaults to warrior", "Tank", "Protection1", model.Warrior},
		{"holy defaults to paladin", "Healer", "Holy2", model.Paladin},
		{"restoration defaults to shaman", "Healer", "Restoration", model.Shaman},
		{"feral maps to druid", "Tank", "Feral1", model.Druid},
		{"shadow maps to priest", "DPS", "Shadow", model.Priest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signup, ok := Normalize(RawSignup{
				Name:      "Someone",
				ClassName: tt.className,
				SpecName:  tt.specName,
				RoleName:  "Melee",
			})
			require.True(t, ok)
			assert.Equal(t, tt.want, signup.Class)
		})
	}
}

func TestNormalize_UnresolvableClassRejected(t *testing.T) {
	_, ok := Normalize(RawSignup{
		Name:      "Mystery",
		ClassName: "Support",
		SpecName:  "Bard1",
		RoleName:  "Ranged",
	})
	assert.False(t, ok)
}

func TestNormalize_RoleMapping(t *testing.T) {
	tests := []struct {
		roleName string
		want     model.RaidRole
	}{
		{"Tanks", model.RoleTank},
		{"Melee", model.RoleMelee},
		{"Ranged", model.RoleRanged},
		{"Healers", model.RoleHealer},
		{"Damage", model.RoleDPS}, // unknown role groups default to dps
		{"", model.RoleDPS},
	}

	for _, tt := range tests {
		signup, ok := Normalize(RawSignup{
			Name:      "Rolo",
			ClassName: "Warrior",
			RoleName:  tt.roleName,
		})
		require.True(t, ok)
		assert.Equal(t, tt.want, signup.Role, "role %q", tt.roleName)
	}
}

func TestNormalize_StatusMapping(t *testing.T) {
	signup, ok := Normalize(RawSignup{
		Name:      "Maybe",
		ClassName: "Rogue",
		RoleName:  "Melee",
		Status:    "Tentative",
	})
	require.True(t, ok)
	assert.Equal(t, model.StatusTentative, signup.Status)
}

func TestNormalize_EmptySpecStaysEmpty(t *testing.T) {
	signup, ok := Normalize(RawSignup{
		Name:      "Plain",
		ClassName: "Warrior",
		RoleName:  "Tanks",
	})
	require.True(t, ok)
	assert.Empty(t, signup.Spec)
}

func TestCleanSpec(t *testing.T) {
	assert.Equal(t, "holy", CleanSpec("Holy1"))
	assert.Equal(t, "beastmastery", CleanSpec("Beastmastery"))
	assert.Equal(t, "feral", CleanSpec("Feral12"))
}

func TestNormalizeAll_FiltersAndPreservesOrder(t *testing.T) {
	raws := []RawSignup{
		{Name: "A", ClassName: "Mage", RoleName: "Ranged"},
		{Name: "B", ClassName: "Bench", RoleName: "Ranged"},
		{Name: "C", ClassName: "Warrior", RoleName: "Tanks"},
		{Name: "D", ClassName: "???", SpecName: "???", RoleName: "Melee"},
	}

	signups := NormalizeAll(raws)
	require.Len(t, signups, 2)
	assert.Equal(t, "A", signups[0].DiscordName)
	assert.Equal(t, "C", signups[1].DiscordName)
}

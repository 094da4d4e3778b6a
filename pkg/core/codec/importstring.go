// Package codec serializes derived raid state into the two compact
// wire formats: the addon import string and the share URL fragment.
// Both are raw-DEFLATE-compressed JSON; they differ only in payload
// shape and base64 alphabet.
package codec

import (
	"bytes"
	"compress/flate"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/veskos/raidbridge/pkg/core/model"
)

// ImportPrefix is the fixed marker the addon scans for.
const ImportPrefix = "!RHB!"

// BuildImportPayload projects an event and its resolved state into the
// exportable payload. Only confirmed and tentative signups become
// players. Resolved CC/group assignments take precedence over raw
// templates per field; the character-mapping table is attached only
// when at least one signup carries an in-game name override.
func BuildImportPayload(
	event model.RaidEvent,
	ccTemplate *model.CCTemplate,
	groupTemplates []model.GroupTemplate,
	resolvedCC []model.CCAssignment,
	resolvedGroups []model.GroupAssignment,
) model.ImportPayload {
	players := make([]model.PlayerInfo, 0, len(event.Signups))
	for _, signup := range event.Signups {
		if signup.Status != model.StatusConfirmed && signup.Status != model.StatusTentative {
			continue
		}
		players = append(players, model.PlayerInfo{
			Name:  signup.PlayerName(),
			Class: signup.Class,
			Role:  signup.Role,
			Spec:  signup.Spec,
		})
	}

	payload := model.ImportPayload{
		Version:   model.PayloadVersion,
		EventID:   event.EventID,
		EventName: event.Title,
		EventTime: event.StartTime.Unix(),
		Players:   players,
	}

	if resolvedCC != nil {
		payload.CCAssignments = resolvedCC
	} else if ccTemplate != nil {
		payload.CCTemplate = ccTemplate
	}

	if resolvedGroups != nil {
		payload.GroupAssignments = resolvedGroups
	} else if groupTemplates != nil {
		payload.GroupTemplates = groupTemplates
	}

	mappings := make(map[string]string)
	for _, signup := range event.Signups {
		if name := strings.TrimSpace(signup.WowCharacter); name != "" {
			mappings[signup.DiscordID] = name
		}
	}
	if len(mappings) > 0 {
		payload.CharacterMappings = mappings
	}

	return payload
}

func deflateRaw(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	writer, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return nil, fmt.Errorf("create deflate writer: %w", err)
	}
	if _, err := writer.Write(data); err != nil {
		return nil, fmt.Errorf("compress payload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("flush deflate stream: %w", err)
	}
	return buf.Bytes(), nil
}

func inflateRaw(data []byte) ([]byte, error) {
	reader := flate.NewReader(bytes.NewReader(data))
	defer reader.Close()
	out, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("decompress payload: %w", err)
	}
	return out, nil
}

// GenerateImportString encodes a payload as !RHB!<base64(deflate(json))>.
func GenerateImportString(payload model.ImportPayload) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	compressed, err := deflateRaw(raw)
	if err != nil {
		return "", err
	}
	return ImportPrefix + base64.StdEncoding.EncodeToString(compressed), nil
}

// ParseImportString is the inverse of GenerateImportString. Corruption
// at any stage (prefix, base64, deflate stream, JSON) returns a nil
// payload and an error describing the failing stage; it never panics.
func ParseImportString(importString string) (*model.ImportPayload, error) {
	if !strings.HasPrefix(importString, ImportPrefix) {
		return nil, fmt.Errorf("missing %s prefix", ImportPrefix)
	}

	compressed, err := base64.StdEncoding.DecodeString(importString[len(ImportPrefix):])
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	raw, err := inflateRaw(compressed)
	if err != nil {
		return nil, err
	}

	var payload model.ImportPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}
	return &payload, nil
}

// GenerateImportSummary renders a deterministic human-readable preview
// of a payload: event header, roster grouped by class, CC assignments,
// then group assignments.
func GenerateImportSummary(payload model.ImportPayload) string {
	var lines []string

	lines = append(lines,
		fmt.Sprintf("Event: %s", payload.EventName),
		fmt.Sprintf("Time: %s", time.Unix(payload.EventTime, 0).UTC().Format(time.RFC1123)),
		fmt.Sprintf("Players: %d", len(payload.Players)),
		"",
		"Roster:",
	)

	byClass := make(map[model.WowClass][]string)
	for _, player := range payload.Players {
		byClass[player.Class] = append(byClass[player.Class], player.Name)
	}
	for _, class := range model.AllClasses {
		if names, ok := byClass[class]; ok {
			lines = append(lines, fmt.Sprintf("  %s: %s", class, strings.Join(names, ", ")))
		}
	}

	if len(payload.CCAssignments) > 0 {
		lines = append(lines, "", "CC Assignments:")
		for _, assignment := range payload.CCAssignments {
			for i, entry := range assignment.Entries {
				label := ""
				if i > 0 {
					label = " [fallback]"
				}
				lines = append(lines, fmt.Sprintf("  %s: %s (%s)%s",
					assignment.Marker.Name(), entry.PlayerName, entry.CCType, label))
			}
		}
	}

	if len(payload.GroupAssignments) > 0 {
		lines = append(lines, "", "Group Assignments:")
		for _, group := range payload.GroupAssignments {
			players := "(empty)"
			if len(group.Players) > 0 {
				players = strings.Join(group.Players, ", ")
			}
			lines = append(lines, fmt.Sprintf("  Group %d (%s): %s", group.GroupNumber, group.Label, players))
		}
	}

	return strings.Join(lines, "\n")
}

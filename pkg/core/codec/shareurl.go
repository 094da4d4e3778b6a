package codec

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/veskos/raidbridge/pkg/core/model"
)

// shareMarker prefixes the URL fragment carrying a share payload.
const shareMarker = "#share="

// EncodeShareURL packs group layout and buff override keys into a
// shareable link: <baseURL>#share=<base64url(deflate(json))>. The
// base64 alphabet is URL-safe with padding stripped.
func EncodeShareURL(baseURL, eventID string, groups []model.GroupAssignment, overrides []string) (string, error) {
	payload := model.SharePayload{EventID: eventID}
	payload.Groups = make([]model.ShareGroup, 0, len(groups))
	for _, group := range groups {
		payload.Groups = append(payload.Groups, model.ShareGroup{
			Label:   group.Label,
			Players: append([]string(nil), group.Players...),
		})
	}
	if len(overrides) > 0 {
		payload.BuffOverrides = append([]string(nil), overrides...)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal share payload: %w", err)
	}
	compressed, err := deflateRaw(raw)
	if err != nil {
		return "", err
	}

	return baseURL + shareMarker + base64.RawURLEncoding.EncodeToString(compressed), nil
}

// DecodeShareHash decodes a "#share=..." URL fragment. Any corruption
// (missing marker, bad base64, bad stream, bad JSON) yields a nil
// payload and an error.
func DecodeShareHash(hash string) (*model.SharePayload, error) {
	if !strings.HasPrefix(hash, shareMarker) {
		return nil, fmt.Errorf("missing %s marker", shareMarker)
	}
	// Tolerate encoders that kept the base64 padding.
	encoded := strings.TrimRight(hash[len(shareMarker):], "=")
	if encoded == "" {
		return nil, fmt.Errorf("empty share fragment")
	}

	compressed, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode base64url: %w", err)
	}
	raw, err := inflateRaw(compressed)
	if err != nil {
		return nil, err
	}

	var payload model.SharePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("unmarshal share payload: %w", err)
	}
	return &payload, nil
}

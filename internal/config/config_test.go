package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "raidbridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "https://raid-helper.dev", cfg.APIBaseURL)
	assert.Equal(t, "raidbridge.db", cfg.StorePath)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 60, cfg.RateLimitWindowSeconds)
	assert.Equal(t, 30, cfg.RateLimitMax)
	assert.NoError(t, Validate(cfg))
}

func TestLoadFromPath(t *testing.T) {
	path := writeConfig(t, `
apiBaseURL: https://api.example.com
storePath: /tmp/bridge.db
rateLimitMax: 5
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.APIBaseURL)
	assert.Equal(t, "/tmp/bridge.db", cfg.StorePath)
	assert.Equal(t, 5, cfg.RateLimitMax)

	// Unset fields keep their defaults.
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 60, cfg.RateLimitWindowSeconds)
}

func TestLoadFromPath_MissingFile(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFromPath_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "apiBaseURL: [unclosed")
	_, err := LoadFromPath(path)
	assert.Error(t, err)
}

func TestLoadFromPath_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad url", "apiBaseURL: not-a-url"},
		{"empty store path", `storePath: ""`},
		{"zero rate limit", "rateLimitMax: -1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			_, err := LoadFromPath(path)
			assert.Error(t, err)
		})
	}
}

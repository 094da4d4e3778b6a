package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// APIBaseURL is the Raid-Helper API root.
	APIBaseURL string `yaml:"apiBaseURL" validate:"required,url"`
	// ShareBaseURL prefixes generated share links.
	ShareBaseURL string `yaml:"shareBaseURL,omitempty" validate:"omitempty,url"`
	// StorePath is the SQLite file holding mappings and templates.
	StorePath string `yaml:"storePath" validate:"required"`
	// ListenAddr is the proxy server bind address.
	ListenAddr string `yaml:"listenAddr,omitempty"`
	// RateLimitWindowSeconds and RateLimitMax bound proxy requests per
	// client within one window.
	RateLimitWindowSeconds int `yaml:"rateLimitWindowSeconds,omitempty" validate:"omitempty,min=1"`
	RateLimitMax           int `yaml:"rateLimitMax,omitempty" validate:"omitempty,min=1"`
}

const configFileName = "raidbridge.yaml"

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		APIBaseURL:             "https://raid-helper.dev",
		ShareBaseURL:           "https://raid-helper.dev/bridge",
		StorePath:              "raidbridge.db",
		ListenAddr:             ":8080",
		RateLimitWindowSeconds: 60,
		RateLimitMax:           30,
	}
}

// Load loads the configuration from raidbridge.yaml, searching the
// current directory first and the user's home directory second. A
// missing file yields the defaults, not an error.
func Load() (*Config, error) {
	path, err := findConfigFile()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}
	return LoadFromPath(path)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration struct
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// findConfigFile searches for raidbridge.yaml in the current directory
// and the home directory.
func findConfigFile() (string, error) {
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", os.ErrNotExist
}

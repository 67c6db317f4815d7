// ABOUTME: API key settings for the optional payment and remote-storage integrations
// ABOUTME: Reads/writes config.json with 0600 permissions, env vars as fallback

package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Settings holds the API keys for optional integrations. Unset keys disable
// the corresponding integration.
type Settings struct {
	NeverminedAPIKey string `json:"nevermined_api_key,omitempty"`
	ProxlockAPIKey   string `json:"proxlock_api_key,omitempty"`
}

// LoadSettings reads the settings file from dir, or returns empty settings
// if it doesn't exist.
func LoadSettings(dir string) (*Settings, error) {
	data, err := os.ReadFile(SettingsFile(dir))
	if os.IsNotExist(err) {
		return &Settings{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing settings: %w", err)
	}
	return &s, nil
}

// Save writes the settings to dir with restricted permissions.
func (s *Settings) Save(dir string) error {
	if err := EnsureDir(dir); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	if err := os.WriteFile(SettingsFile(dir), data, 0o600); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}

// NeverminedKey returns the Nevermined API key, falling back to the
// NEVERMINED_API_KEY environment variable.
func (s *Settings) NeverminedKey() string {
	if s.NeverminedAPIKey != "" {
		return s.NeverminedAPIKey
	}
	return os.Getenv("NEVERMINED_API_KEY")
}

// ProxlockKey returns the Proxlock API key, falling back to the
// PROXLOCK_API_KEY environment variable.
func (s *Settings) ProxlockKey() string {
	if s.ProxlockAPIKey != "" {
		return s.ProxlockAPIKey
	}
	return os.Getenv("PROXLOCK_API_KEY")
}

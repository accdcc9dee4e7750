// Package secrets joins the pure status-graph configuration to the
// deployment-specific values it must never embed: webhook URLs, the admin
// address, and spreadsheet identifiers. Values load from a YAML file and may
// be overridden by environment variables.
package secrets

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds every deployment secret the application needs.
type Config struct {
	AdminEmail      string            `yaml:"admin_email"`
	SpreadsheetID   string            `yaml:"spreadsheet_id"`
	CredentialsFile string            `yaml:"credentials_file"`
	Webhooks        map[string]string `yaml:"webhooks"`
}

// Env override keys. Each, when set, wins over the file value.
const (
	envAdminEmail    = "ADMIN_EMAIL"
	envSpreadsheetID = "SPREADSHEET_ID"
	envCredentials   = "GOOGLE_CREDENTIALS_FILE"
)

// Load reads the config file at path and applies env overrides. A missing
// file is not an error if the required values are all present in the
// environment.
func Load(path string) (*Config, error) {
	cfg := &Config{
		CredentialsFile: "credentials.json",
		Webhooks:        make(map[string]string),
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse secrets file %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// fall through to env
	default:
		return nil, fmt.Errorf("failed to read secrets file %s: %w", path, err)
	}

	if v := os.Getenv(envAdminEmail); v != "" {
		cfg.AdminEmail = v
	}
	if v := os.Getenv(envSpreadsheetID); v != "" {
		cfg.SpreadsheetID = v
	}
	if v := os.Getenv(envCredentials); v != "" {
		cfg.CredentialsFile = v
	}
	if cfg.Webhooks == nil {
		cfg.Webhooks = make(map[string]string)
	}

	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet_id is required (file %s or %s env)", path, envSpreadsheetID)
	}

	return cfg, nil
}

// WebhookURL resolves a logical channel name to its webhook URL.
func (c *Config) WebhookURL(channel string) (string, error) {
	url, ok := c.Webhooks[channel]
	if !ok || url == "" {
		return "", fmt.Errorf("no webhook configured for channel %q", channel)
	}
	return url, nil
}

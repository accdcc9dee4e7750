package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "secrets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeFile(t, `
admin_email: admin@usfsoar.com
spreadsheet_id: abc123
webhooks:
  purchasing: https://hooks.slack.com/services/AAA
  dev: https://hooks.slack.com/services/BBB
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "admin@usfsoar.com", cfg.AdminEmail)
	assert.Equal(t, "abc123", cfg.SpreadsheetID)
	assert.Equal(t, "credentials.json", cfg.CredentialsFile)

	url, err := cfg.WebhookURL("purchasing")
	require.NoError(t, err)
	assert.Equal(t, "https://hooks.slack.com/services/AAA", url)

	_, err = cfg.WebhookURL("unknown")
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "spreadsheet_id: from-file\n")
	t.Setenv("SPREADSHEET_ID", "from-env")
	t.Setenv("ADMIN_EMAIL", "root@usfsoar.com")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.SpreadsheetID)
	assert.Equal(t, "root@usfsoar.com", cfg.AdminEmail)
}

func TestMissingFileFallsBackToEnv(t *testing.T) {
	t.Setenv("SPREADSHEET_ID", "env-only")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "env-only", cfg.SpreadsheetID)
}

func TestMissingSpreadsheetIDFails(t *testing.T) {
	t.Setenv("SPREADSHEET_ID", "")
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestBadYAMLFails(t *testing.T) {
	path := writeFile(t, "admin_email: [unclosed\n")
	_, err := Load(path)
	assert.Error(t, err)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FullFile(t *testing.T) {
	t.Setenv("TEST_GEMINI_KEY", "secret-key")
	t.Setenv("TEST_DB_URL", "postgres://localhost/apps")

	path := writeConfig(t, `
server:
  addr: ":9090"
  allowed_origin: "https://app.example.com"
fetch:
  timeout_seconds: 5
  use_browser: true
llm:
  api_key: ${TEST_GEMINI_KEY}
  model: gemini-2.0-flash
tracker:
  enabled: true
  database_url: ${TEST_DB_URL}
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Fetch.Timeout())
	assert.True(t, cfg.Fetch.UseBrowser)
	assert.Equal(t, "secret-key", cfg.LLM.APIKey)
	assert.Equal(t, "postgres://localhost/apps", cfg.Tracker.DatabaseURL)
}

func TestLoad_DefaultsFillOmittedFields(t *testing.T) {
	path := writeConfig(t, `
llm:
  api_key: abc
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Fetch.Timeout())
	assert.Equal(t, 24, cfg.Auth.ExpirationHours)
}

func TestLoad_UnsetEnvVarExpandsEmpty(t *testing.T) {
	path := writeConfig(t, `
llm:
  api_key: ${DEFINITELY_NOT_SET_ANYWHERE_12345}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.LLM.APIKey)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errLike string
	}{
		{"bad yaml", "server: [not a map", "parse"},
		{"negative timeout", "fetch:\n  timeout_seconds: -1\n", "timeout_seconds"},
		{"drive without credentials", "drive:\n  enabled: true\n", "credentials_file"},
		{"tracker without url", "tracker:\n  enabled: true\n", "database_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errLike)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)

	_, err = Load("")
	require.Error(t, err)
}

func TestApplySettings(t *testing.T) {
	cfg := Default()

	updated, err := cfg.ApplySettings(Settings{
		DriveEnabled:        true,
		DriveOutputFolderID: "folder-123",
		UseBrowser:          true,
	})
	require.Error(t, err, "drive enabled without credentials must not validate")
	assert.Nil(t, updated)
	assert.False(t, cfg.Drive.Enabled, "receiver unchanged on error")

	cfg.Drive.CredentialsFile = "creds.json"
	updated, err = cfg.ApplySettings(Settings{
		DriveEnabled:        true,
		DriveOutputFolderID: "folder-123",
		UseBrowser:          true,
	})
	require.NoError(t, err)
	assert.True(t, updated.Drive.Enabled)
	assert.Equal(t, "folder-123", updated.Drive.OutputFolderID)
	assert.True(t, updated.Fetch.UseBrowser)
}

func TestSettingsRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Drive.CredentialsFile = "creds.json"

	s := cfg.Settings()
	s.DriveEnabled = true
	s.DriveOutputFolderID = "out"

	updated, err := cfg.ApplySettings(s)
	require.NoError(t, err)
	assert.Equal(t, s, updated.Settings())
}

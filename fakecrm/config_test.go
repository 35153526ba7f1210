package fakecrm

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/claimconnectors/crm-contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "fake-crm.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, servicedef.AllCapabilities, cfg.Capabilities)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9000"
  shutdown_timeout: 2s
service:
  description: partial backend
  capabilities:
    - get_lead
    - create_lead
recordings:
  base_url: https://calls.example.com
  expiry: 15m
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 2*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "partial backend", cfg.Description)
	assert.Equal(t, []string{"get_lead", "create_lead"}, cfg.Capabilities)
	assert.Equal(t, "https://calls.example.com", cfg.RecordingBaseURL)
	assert.Equal(t, 15*time.Minute, cfg.RecordingExpiry)
	assert.Equal(t, DefaultConfig().StorageBaseURL, cfg.StorageBaseURL)
}

func TestLoadEmptyCapabilityListDeclaresNothing(t *testing.T) {
	path := writeConfig(t, "service:\n  capabilities: []\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Capabilities)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("FAKE_CRM_PORT", "8123")
	t.Setenv("FAKE_CRM_CAPABILITIES", "get_lead, list_leads,")
	t.Setenv("FAKE_CRM_RECORDING_EXPIRY", "30m")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8123", cfg.Port)
	assert.Equal(t, []string{"get_lead", "list_leads"}, cfg.Capabilities)
	assert.Equal(t, 30*time.Minute, cfg.RecordingExpiry)
}

func TestLoadErrors(t *testing.T) {
	for _, p := range []struct {
		name    string
		content string
	}{
		{"malformed yaml", "service: [\n"},
		{"unknown capability", "service:\n  capabilities: [get_leads]\n"},
		{"bad duration", "recordings:\n  expiry: soon\n"},
		{"non-positive expiry", "recordings:\n  expiry: 0s\n"},
	} {
		t.Run(p.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, p.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

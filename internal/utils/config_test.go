package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benmeehan/fleetops/pkg/file"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://api.example.com
  routes:
    /api/tracking: https://tracking.example.com
services:
  driver_status:
    enabled: true
    stale_after: 10m
`)

	config, err := LoadConfig(path, file.NewFileService())
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", config.API.BaseURL)
	assert.Equal(t, "https://tracking.example.com", config.API.Routes["/api/tracking"])
	assert.Equal(t, 30*time.Second, config.API.Timeout)
	assert.True(t, config.Services.DriverStatus.Enabled)
	assert.Equal(t, 60*time.Second, config.Services.DriverStatus.Interval)
	assert.Equal(t, 10*time.Minute, config.Services.DriverStatus.StaleAfter)
	assert.Equal(t, 2, config.Services.DriverStatus.Workers)
	assert.Equal(t, "static", config.Services.Location.Provider)
	assert.Equal(t, "console", config.Log.Format)
	assert.Equal(t, "info", config.Log.Level)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv(EnvAPIURL, "https://staging.example.com")
	t.Setenv(EnvSessionPassphrase, "s3cret")
	path := writeConfig(t, `
api:
  base_url: https://api.example.com
session:
  file: /tmp/session.enc
  passphrase: from-file
`)

	config, err := LoadConfig(path, file.NewFileService())
	require.NoError(t, err)
	assert.Equal(t, "https://staging.example.com", config.API.BaseURL)
	assert.Equal(t, "s3cret", config.Session.Passphrase)
	assert.Equal(t, "/tmp/session.enc", config.Session.File)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"missing base url", "log:\n  format: json\n", "Config.API.BaseURL is required"},
		{"bad provider", "api:\n  base_url: https://a.example.com\nservices:\n  location:\n    provider: carrier-pigeon\n", "Config.Services.Location.Provider must be one of"},
		{"gps without port", "api:\n  base_url: https://a.example.com\nservices:\n  location:\n    provider: gps\n", "Config.Services.Location.GPSDevicePort is required"},
		{"route without slash", "api:\n  base_url: https://a.example.com\n  routes:\n    api/auth: https://auth.example.com\n", "is invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvAPIURL, "")
			_, err := LoadConfig(writeConfig(t, tt.content), file.NewFileService())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), file.NewFileService())
	assert.Error(t, err)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".config/fleetops/session.enc"), expandHome("~/.config/fleetops/session.enc"))
	assert.Equal(t, "/var/lib/fleetops/session.enc", expandHome("/var/lib/fleetops/session.enc"))
	assert.Equal(t, "", expandHome(""))
}

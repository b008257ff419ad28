package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podside/evexml"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, evexml.DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, DefaultTimeoutSeconds, cfg.API.TimeoutSeconds)
	assert.Empty(t, cfg.API.KeyID)
	assert.Empty(t, cfg.API.VCode)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestAPIConfigTimeout(t *testing.T) {
	tests := []struct {
		name    string
		seconds int
		want    time.Duration
	}{
		{name: "default when zero", seconds: 0, want: 30 * time.Second},
		{name: "default when negative", seconds: -5, want: 30 * time.Second},
		{name: "configured", seconds: 5, want: 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := APIConfig{TimeoutSeconds: tt.seconds}
			assert.Equal(t, tt.want, cfg.Timeout())
		})
	}
}

func TestConfigPaths(t *testing.T) {
	assert.Equal(t, filepath.Join("/home/pilot", ".evexml"), ConfigDir("/home/pilot"))
	assert.Equal(t, filepath.Join("/home/pilot", ".evexml", "config.yaml"), ConfigFilePath("/home/pilot"))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run 'evexml init' first")
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	base := t.TempDir()
	writeConfigFile(t, base, `api:
  base_url: http://localhost:8080
  key_id: "7654321"
  v_code: file-vcode
  timeout_seconds: 10

log:
  level: debug
`)

	cfg, err := Load(base)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	assert.Equal(t, "7654321", cfg.API.KeyID)
	assert.Equal(t, "file-vcode", cfg.API.VCode)
	assert.Equal(t, 10, cfg.API.TimeoutSeconds)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout())
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	base := t.TempDir()
	writeConfigFile(t, base, `api:
  key_id: "7654321"
`)

	cfg, err := Load(base)
	require.NoError(t, err)

	assert.Equal(t, evexml.DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, "7654321", cfg.API.KeyID)
	assert.Equal(t, DefaultTimeoutSeconds, cfg.API.TimeoutSeconds)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvFillsMissing(t *testing.T) {
	base := t.TempDir()
	writeConfigFile(t, base, "api: {}\n")

	t.Setenv("EVEXML_KEY_ID", "1112223")
	t.Setenv("EVEXML_VCODE", "env-vcode")
	t.Setenv("EVEXML_BASE_URL", "http://localhost:9999")
	t.Setenv("EVEXML_LOG_LEVEL", "info")

	cfg, err := Load(base)
	require.NoError(t, err)

	assert.Equal(t, "1112223", cfg.API.KeyID)
	assert.Equal(t, "env-vcode", cfg.API.VCode)
	assert.Equal(t, "http://localhost:9999", cfg.API.BaseURL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFileWinsOverEnv(t *testing.T) {
	base := t.TempDir()
	writeConfigFile(t, base, `api:
  key_id: "7654321"
  v_code: file-vcode
`)

	t.Setenv("EVEXML_KEY_ID", "1112223")
	t.Setenv("EVEXML_VCODE", "env-vcode")

	cfg, err := Load(base)
	require.NoError(t, err)

	assert.Equal(t, "7654321", cfg.API.KeyID)
	assert.Equal(t, "file-vcode", cfg.API.VCode)
}

func TestLoadMalformedFile(t *testing.T) {
	base := t.TempDir()
	writeConfigFile(t, base, "api: [not a map\n")

	_, err := Load(base)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}

func TestWriteDefault(t *testing.T) {
	base := t.TempDir()
	require.False(t, Exists(base))

	require.NoError(t, WriteDefault(base))
	assert.True(t, Exists(base))

	// The file holds the key pair, so it must not be group or world readable.
	info, err := os.Stat(ConfigFilePath(base))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	err = WriteDefault(base)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestWriteRoundTrip(t *testing.T) {
	clearEnv(t)
	base := t.TempDir()

	cfg := Default()
	cfg.API.KeyID = "7654321"
	cfg.API.VCode = "round-trip-vcode"
	cfg.Log.Level = "debug"
	require.NoError(t, Write(base, cfg))

	loaded, err := Load(base)
	require.NoError(t, err)
	assert.Equal(t, cfg.API.KeyID, loaded.API.KeyID)
	assert.Equal(t, cfg.API.VCode, loaded.API.VCode)
	assert.Equal(t, cfg.Log.Level, loaded.Log.Level)
}

// clearEnv blanks the override variables so ambient shell state cannot leak
// into file-driven cases.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"EVEXML_KEY_ID", "EVEXML_VCODE", "EVEXML_BASE_URL", "EVEXML_LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func writeConfigFile(t *testing.T, base, content string) {
	t.Helper()
	dir := ConfigDir(base)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte(content), 0600))
}

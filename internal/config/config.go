// Package config provides configuration loading for the evexml CLI.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/podside/evexml"
)

const (
	// DefaultConfigDir is the directory name for evexml configuration.
	DefaultConfigDir = ".evexml"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultTimeoutSeconds bounds one API round trip.
	DefaultTimeoutSeconds = 30
)

// Config holds static CLI configuration (read-only after load).
type Config struct {
	API APIConfig `yaml:"api,omitempty"`
	Log LogConfig `yaml:"log,omitempty"`
}

// APIConfig holds the API endpoint and key pair.
type APIConfig struct {
	BaseURL string `yaml:"base_url,omitempty"`
	KeyID   string `yaml:"key_id,omitempty"`
	// VCode is the key's verification code. Keep the config file private;
	// prefer the EVEXML_VCODE environment variable on shared machines.
	VCode          string `yaml:"v_code,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	// Level is a zap level name: debug, info, warn or error.
	Level string `yaml:"level,omitempty"`
}

// Timeout returns the configured per-call timeout.
func (a APIConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return DefaultTimeoutSeconds * time.Second
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        evexml.DefaultBaseURL,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Load loads configuration from the .evexml directory in the given path.
func Load(basePath string) (*Config, error) {
	configFile := filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)

	data, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		return nil, errors.Newf("config file not found: %s (run 'evexml init' first)", configFile)
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading config file")
	}

	// Start with defaults
	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parsing config file")
	}

	// Apply environment variable overrides
	cfg.applyEnvOverrides()

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides. File values win
// over the environment, matching how the defaults are layered.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("EVEXML_KEY_ID"); v != "" && c.API.KeyID == "" {
		c.API.KeyID = v
	}
	if v := os.Getenv("EVEXML_VCODE"); v != "" && c.API.VCode == "" {
		c.API.VCode = v
	}
	if v := os.Getenv("EVEXML_BASE_URL"); v != "" && c.API.BaseURL == evexml.DefaultBaseURL {
		c.API.BaseURL = v
	}
	if v := os.Getenv("EVEXML_LOG_LEVEL"); v != "" && c.Log.Level == "warn" {
		c.Log.Level = v
	}
}

// ConfigDir returns the path to the .evexml config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}

// Exists checks if an evexml config exists in the given path.
func Exists(basePath string) bool {
	configFile := filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
	_, err := os.Stat(configFile)
	return err == nil
}

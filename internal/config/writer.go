package config

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// DefaultConfigYAML is the default configuration content.
const DefaultConfigYAML = `# evexml configuration

api:
  base_url: https://api.eveonline.com
  timeout_seconds: 30
  # key_id: "1234567" (or set EVEXML_KEY_ID env var)
  # v_code: your-verification-code (or set EVEXML_VCODE env var)

log:
  level: warn
`

// WriteDefault creates the .evexml directory and writes a default config
// file.
func WriteDefault(basePath string) error {
	configDir := filepath.Join(basePath, DefaultConfigDir)
	configFile := filepath.Join(configDir, DefaultConfigFile)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return errors.Wrap(err, "creating config directory")
	}

	if _, err := os.Stat(configFile); err == nil {
		return errors.Newf("config file already exists: %s", configFile)
	}

	if err := os.WriteFile(configFile, []byte(DefaultConfigYAML), 0600); err != nil {
		return errors.Wrap(err, "writing config file")
	}

	return nil
}

// Write writes the given config to the config file.
func Write(basePath string, cfg *Config) error {
	configDir := filepath.Join(basePath, DefaultConfigDir)
	configFile := filepath.Join(configDir, DefaultConfigFile)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return errors.Wrap(err, "creating config directory")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}

	if err := os.WriteFile(configFile, data, 0600); err != nil {
		return errors.Wrap(err, "writing config file")
	}

	return nil
}

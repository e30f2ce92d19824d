package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

const (
	// ConfigDir is the default config directory name.
	ConfigDir = ".negotiator"
	// ConfigFile is the default config file name.
	ConfigFile = "config.json"
)

// ConfigPath returns the path to the config file. NEGOTIATOR_CONFIG
// overrides the default ~/.negotiator/config.json.
func ConfigPath() (string, error) {
	if explicit := strings.TrimSpace(os.Getenv("NEGOTIATOR_CONFIG")); explicit != "" {
		if strings.HasPrefix(explicit, "~") {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			return filepath.Join(home, explicit[1:]), nil
		}
		return explicit, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ConfigDir, ConfigFile), nil
}

// Load reads configuration in layers: defaults, then the JSON config
// file if present, then NEGOTIATOR_* environment variables.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Defaults plus env is a valid setup.
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	envconfig.Process("NEGOTIATOR", cfg)
	envconfig.Process("NEGOTIATOR_SESSION", &cfg.Session)
	envconfig.Process("NEGOTIATOR_MODEL", &cfg.Model)
	envconfig.Process("NEGOTIATOR_EMOTION", &cfg.Emotion)
	envconfig.Process("NEGOTIATOR_SPEECH", &cfg.Speech)
	envconfig.Process("NEGOTIATOR_STORAGE", &cfg.Storage)
	envconfig.Process("NEGOTIATOR_STREAM", &cfg.Stream)
}

// Save writes the config as indented JSON, creating the directory if
// needed.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

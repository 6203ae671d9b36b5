// Package config loads the application configuration from YAML and
// environment variables.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type LogCfg struct {
	Level string `koanf:"level"`
	JSON  bool   `koanf:"json"`
}

type Config struct {
	RegistryPath   string `koanf:"registry_path"`
	KeyringService string `koanf:"keyring_service"`
	MetricsPort    int    `koanf:"metrics_port"` // 0 disables the endpoint
	Log            LogCfg `koanf:"log"`
}

// Load merges YAML (if present) with env-vars
// (prefix `KAFDESK__`, delimiter `__`).
func Load(path string) (Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}
	_ = k.Load(env.Provider("KAFDESK__", "__", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "KAFDESK__"))
	}), nil)

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(c *Config) {
	if c.RegistryPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		c.RegistryPath = filepath.Join(home, ".kafdesk", "clusters.db")
	}
	if c.KeyringService == "" {
		c.KeyringService = "kafdesk"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

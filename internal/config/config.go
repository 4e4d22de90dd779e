package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the settings file looked up in the working directory.
const FileName = ".personas.yaml"

// Config holds the collector's own settings, not the persona record.
type Config struct {
	Output           string        `yaml:"output"`
	IOBlankUnlimited bool          `yaml:"io_blank_unlimited"`
	CheckHost        bool          `yaml:"check_host"`
	Logging          LoggingConfig `yaml:"logging"`
}

// LoggingConfig selects the log level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the settings used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Output: "config.json",
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// ConfigPath returns the default settings path in the working directory.
func ConfigPath() string {
	return filepath.Join(".", FileName)
}

// Load reads the settings from ConfigPath.
func Load() (*Config, error) {
	return LoadFromPath(ConfigPath())
}

// LoadFromPath reads settings from path on top of the defaults. A missing
// file yields the defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Output == "" {
		cfg.Output = DefaultConfig().Output
	}

	return cfg, nil
}

// Save writes the settings to path.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Package config provides configuration loading for Lantern.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvRoot overrides the storage root when set.
const EnvRoot = "LANTERN_ROOT"

// Config holds the settings the CLI starts from. Everything here can
// be overridden by flags.
type Config struct {
	// Root is the storage root directory holding all client data.
	Root string `yaml:"root"`
	// Client is the client to operate on when no --client flag and no
	// default pointer applies.
	Client string `yaml:"client,omitempty"`
	// LogFormat selects "text" or "json" log output.
	LogFormat string `yaml:"log_format,omitempty"`
	// Debug enables debug-level logging.
	Debug bool `yaml:"debug,omitempty"`
}

// Default returns the configuration used when no config file exists:
// storage under $HOME/.lantern, text logs.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		Root:      filepath.Join(home, ".lantern"),
		LogFormat: "text",
	}
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".lantern.yaml"
	}
	return filepath.Join(home, ".lantern.yaml")
}

// Load reads the config file at path, falling back to defaults when
// the file does not exist. The LANTERN_ROOT environment variable wins
// over both.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No file is fine; defaults apply.
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config YAML: %w", err)
		}
	}

	if root := os.Getenv(EnvRoot); root != "" {
		cfg.Root = root
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.Root == "" {
		return fmt.Errorf("root is required")
	}
	if c.LogFormat != "" && c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("log_format must be \"text\" or \"json\", got %q", c.LogFormat)
	}
	return nil
}

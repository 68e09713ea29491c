// Package config loads the harness's own settings (a TOML file under its
// home directory) and the per-variant JSON sandbox configs passed via
// -config on the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Settings represents the harness's ~/.sandboxbench/config.toml file:
// shared defaults that let -config flags omit values common across
// benchmark invocations.
type Settings struct {
	DataSize      int `toml:"data_size,omitempty"`
	Invocations   int `toml:"invocations,omitempty"`
	Iterations    int `toml:"iterations,omitempty"`
	MemoryLimitMB int `toml:"memory_limit_mb,omitempty"`
}

// configDirOverride is set by the --config-dir flag or SANDBOXBENCH_HOME env var.
var configDirOverride string

// SetConfigDir allows the CLI to pass in the --config-dir value.
func SetConfigDir(dir string) {
	configDirOverride = dir
}

// Home returns the harness's config/state directory.
// Precedence: --config-dir flag / SetConfigDir > SANDBOXBENCH_HOME env > ~/.sandboxbench
func Home() string {
	if configDirOverride != "" {
		return configDirOverride
	}
	if v := os.Getenv("SANDBOXBENCH_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".sandboxbench")
	}
	return filepath.Join(home, ".sandboxbench")
}

// SettingsPath returns the full path to config.toml.
func SettingsPath() string {
	return filepath.Join(Home(), "config.toml")
}

// EnsureDir creates the harness's home directory if it does not exist.
func EnsureDir() error {
	return os.MkdirAll(Home(), 0o755)
}

// LoadSettings reads config.toml, returning zero-value defaults if it does
// not exist.
func LoadSettings() (*Settings, error) {
	s := &Settings{}
	data, err := os.ReadFile(SettingsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := toml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}
	return s, nil
}

// SaveSettings writes s back to config.toml.
func SaveSettings(s *Settings) error {
	if err := EnsureDir(); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(SettingsPath(), data, 0o644)
}

// LoadJSON decodes the JSON sandbox config at path into v. This is the
// loader behind every variant's -config flag.
func LoadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

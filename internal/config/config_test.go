package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHomePrecedence(t *testing.T) {
	t.Setenv("SANDBOXBENCH_HOME", "")
	SetConfigDir("")

	t.Setenv("SANDBOXBENCH_HOME", "/tmp/envhome")
	if got := Home(); got != "/tmp/envhome" {
		t.Errorf("Home() = %q, want env override /tmp/envhome", got)
	}

	SetConfigDir("/tmp/flaghome")
	if got := Home(); got != "/tmp/flaghome" {
		t.Errorf("Home() = %q, want flag override /tmp/flaghome", got)
	}
	SetConfigDir("")
}

func TestSaveAndLoadSettingsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	SetConfigDir(dir)
	defer SetConfigDir("")

	want := &Settings{DataSize: 2048, Invocations: 500, Iterations: 3, MemoryLimitMB: 256}
	if err := SaveSettings(want); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "config.toml")); err != nil {
		t.Fatalf("config.toml not written: %v", err)
	}

	got, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if *got != *want {
		t.Errorf("LoadSettings() = %+v, want %+v", got, want)
	}
}

func TestLoadSettingsMissingFileReturnsZeroValue(t *testing.T) {
	SetConfigDir(t.TempDir())
	defer SetConfigDir("")

	got, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if *got != (Settings{}) {
		t.Errorf("LoadSettings() = %+v, want zero value", got)
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.json")
	if err := os.WriteFile(path, []byte(`{"ip":"127.0.0.1","base_port":9000}`), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	var cfg struct {
		IP       string `json:"ip"`
		BasePort int    `json:"base_port"`
	}
	if err := LoadJSON(path, &cfg); err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	if cfg.IP != "127.0.0.1" || cfg.BasePort != 9000 {
		t.Errorf("LoadJSON decoded %+v unexpectedly", cfg)
	}
}

func TestLoadJSONMissingFile(t *testing.T) {
	var v struct{}
	if err := LoadJSON(filepath.Join(t.TempDir(), "missing.json"), &v); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Brightness != 80 {
		t.Errorf("expected brightness 80, got %d", cfg.Brightness)
	}
	if !cfg.TUI || cfg.Debug {
		t.Errorf("expected tui on, debug off: %+v", cfg)
	}
	if cfg.DeviceAddr != "" || cfg.MIDIPort != "" {
		t.Errorf("expected empty device/midi defaults: %+v", cfg)
	}
}

func TestLoadFromFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "chainpad")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	doc := "deviceAddr: ws://10.0.0.5:9906/deck\nbrightness: 40\ntui: false\ndebug: true\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DeviceAddr != "ws://10.0.0.5:9906/deck" {
		t.Errorf("deviceAddr = %q", cfg.DeviceAddr)
	}
	if cfg.Brightness != 40 || cfg.TUI || !cfg.Debug {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

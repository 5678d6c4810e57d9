package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	if cfg.Listen != "127.0.0.1:8876" {
		t.Errorf("Listen = %q", cfg.Listen)
	}
	if cfg.Notify.WindowMinutes != 60 {
		t.Errorf("WindowMinutes = %d", cfg.Notify.WindowMinutes)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file not written: %v", err)
	}

	again, err := Load(path)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if again != cfg {
		t.Errorf("reload mismatch: %+v vs %+v", again, cfg)
	}
}

func TestLoadSparseFileGetsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	sparse := "listen: \"0.0.0.0:9000\"\nnotify:\n  window_minutes: 15\n"
	if err := os.WriteFile(path, []byte(sparse), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Listen != "0.0.0.0:9000" {
		t.Errorf("Listen = %q, want override kept", cfg.Listen)
	}
	if cfg.Notify.WindowMinutes != 15 {
		t.Errorf("WindowMinutes = %d, want override kept", cfg.Notify.WindowMinutes)
	}
	if cfg.Notify.IntervalSeconds != 45 {
		t.Errorf("IntervalSeconds = %d, want default", cfg.Notify.IntervalSeconds)
	}
	if cfg.DBPath != "perch.db" {
		t.Errorf("DBPath = %q, want default", cfg.DBPath)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("listen: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestLocation(t *testing.T) {
	cfg := Default()
	if _, err := cfg.Location(); err != nil {
		t.Errorf("default location: %v", err)
	}

	cfg.Timezone = "Europe/Berlin"
	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("named zone: %v", err)
	}
	if loc.String() != "Europe/Berlin" {
		t.Errorf("loc = %q", loc)
	}

	cfg.Timezone = "Nowhere/Invalid"
	if _, err := cfg.Location(); err == nil {
		t.Error("expected error for unknown zone")
	}
}

// Package config loads the YAML configuration file, creating it with
// defaults on first run.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full daemon configuration.
type Config struct {
	Listen    string `yaml:"listen"`
	DBPath    string `yaml:"db_path"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	Timezone  string `yaml:"timezone"`

	Notify NotifyConfig `yaml:"notify"`
	Backup BackupConfig `yaml:"backup"`
}

// NotifyConfig tunes the upcoming-event poller.
type NotifyConfig struct {
	IntervalSeconds int `yaml:"interval_seconds"`
	WindowMinutes   int `yaml:"window_minutes"`
}

// BackupConfig controls snapshot exports. Schedule is a cron expression;
// empty disables automatic snapshots.
type BackupConfig struct {
	Dir        string `yaml:"dir"`
	Schedule   string `yaml:"schedule"`
	Passphrase string `yaml:"passphrase"`
}

// Default returns the configuration used when no file exists yet.
func Default() Config {
	return Config{
		Listen:    "127.0.0.1:8876",
		DBPath:    "perch.db",
		LogLevel:  "info",
		LogFormat: "text",
		Timezone:  "Local",
		Notify: NotifyConfig{
			IntervalSeconds: 45,
			WindowMinutes:   60,
		},
		Backup: BackupConfig{
			Dir: "backups",
		},
	}
}

// Normalize fills in zero values with defaults so a sparse hand-edited
// file still yields a usable configuration.
func (c *Config) Normalize() {
	def := Default()
	if c.Listen == "" {
		c.Listen = def.Listen
	}
	if c.DBPath == "" {
		c.DBPath = def.DBPath
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = def.LogFormat
	}
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}
	if c.Notify.IntervalSeconds <= 0 {
		c.Notify.IntervalSeconds = def.Notify.IntervalSeconds
	}
	if c.Notify.WindowMinutes <= 0 {
		c.Notify.WindowMinutes = def.Notify.WindowMinutes
	}
	if c.Backup.Dir == "" {
		c.Backup.Dir = def.Backup.Dir
	}
}

// Location resolves the configured timezone. "Local" and "" mean the
// system zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Load reads the configuration from path. A missing file is created with
// defaults, matching first-run behavior.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := Default()
		if err := Save(path, cfg); err != nil {
			return Config{}, err
		}
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Save writes the configuration atomically via a temp file rename.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".perch-config-*")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close config: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}

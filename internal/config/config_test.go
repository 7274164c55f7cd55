package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("expected default backend sqlite, got %q", cfg.Storage.Backend)
	}
	if cfg.Reminders.PollInterval.Std() != 30*time.Second {
		t.Errorf("expected poll interval 30s, got %v", cfg.Reminders.PollInterval)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_CreatesDefaultFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("CHOREBOOK_HOME", home)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, "config.toml")); err != nil {
		t.Errorf("config file not created: %v", err)
	}
	if cfg.Storage.DataDir != home {
		t.Errorf("data dir = %q, want %q", cfg.Storage.DataDir, home)
	}
	if cfg.Reminders.LateGrace.Std() != 15*time.Minute {
		t.Errorf("late grace = %v", cfg.Reminders.LateGrace)
	}
	if GetDBPath(cfg) != filepath.Join(home, "chorebook.db") {
		t.Errorf("db path = %q", GetDBPath(cfg))
	}
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("CHOREBOOK_HOME", home)

	toml := strings.Join([]string{
		"[reminders]",
		`poll_interval = "1m0s"`,
		`day_start = "05:30"`,
		"[storage]",
		`backend = "memory"`,
	}, "\n")
	if err := os.WriteFile(filepath.Join(home, "config.toml"), []byte(toml), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CHOREBOOK_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Reminders.PollInterval.Std() != time.Minute {
		t.Errorf("poll interval = %v, want 1m", cfg.Reminders.PollInterval)
	}
	if cfg.Reminders.DayStart != "05:30" {
		t.Errorf("day start = %q", cfg.Reminders.DayStart)
	}
	if cfg.Storage.Backend != "memory" {
		t.Errorf("backend = %q", cfg.Storage.Backend)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q, want env override debug", cfg.Log.Level)
	}
	// Unset keys keep their defaults.
	if !cfg.Notifications.Enabled {
		t.Error("notifications should default to enabled")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad backend", func(c *Config) { c.Storage.Backend = "mongo" }},
		{"short poll", func(c *Config) { c.Reminders.PollInterval = Duration(time.Millisecond) }},
		{"bad day start", func(c *Config) { c.Reminders.DayStart = "25:00" }},
		{"bad timezone", func(c *Config) { c.Reminders.Timezone = "Mars/Olympus" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() expected error")
			}
		})
	}
}

func TestDuration_Text(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("90s")); err != nil {
		t.Fatalf("UnmarshalText() error = %v", err)
	}
	if d.Std() != 90*time.Second {
		t.Errorf("got %v", d)
	}
	text, _ := d.MarshalText()
	if string(text) != "1m30s" {
		t.Errorf("MarshalText() = %s", text)
	}
	if err := d.UnmarshalText([]byte("soon")); err == nil {
		t.Error("UnmarshalText() expected error")
	}
}

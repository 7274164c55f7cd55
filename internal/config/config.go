// Package config provides configuration management for chorebook.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CHOREBOOK_STORAGE_BACKEND.
const EnvPrefix = "CHOREBOOK"

// Config holds all configuration for chorebook.
type Config struct {
	Notifications NotificationConfig `mapstructure:"notifications"`
	Reminders     ReminderConfig     `mapstructure:"reminders"`
	Storage       StorageConfig      `mapstructure:"storage"`
	Log           LogConfig          `mapstructure:"log"`
	MCP           MCPConfig          `mapstructure:"mcp"`
}

// NotificationConfig holds desktop notification settings.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Sound   bool `mapstructure:"sound"`
	// FailureThreshold consecutive delivery failures open the breaker.
	FailureThreshold uint32   `mapstructure:"failure_threshold"`
	Cooldown         Duration `mapstructure:"cooldown"`
}

// ReminderConfig drives the watch daemon.
type ReminderConfig struct {
	PollInterval Duration `mapstructure:"poll_interval"`
	// LateGrace is how overdue a trigger may be and still fire.
	LateGrace Duration `mapstructure:"late_grace"`
	// DayStart is the HH:MM at which the daemon plans the new day.
	DayStart string `mapstructure:"day_start"`
	Timezone string `mapstructure:"timezone"`
}

// Location resolves Timezone, falling back to the local zone.
func (r ReminderConfig) Location() (*time.Location, error) {
	if r.Timezone == "" || r.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", r.Timezone, err)
	}
	return loc, nil
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	Backend        string `mapstructure:"backend"`
	DataDir        string `mapstructure:"data_dir"`
	RedisURL       string `mapstructure:"redis_url"`
	RedisNamespace string `mapstructure:"redis_namespace"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MCPConfig holds MCP server settings.
type MCPConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Duration is a wrapper around time.Duration for TOML parsing.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// String returns the string representation of the duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Notifications: NotificationConfig{
			Enabled:          true,
			Sound:            true,
			FailureThreshold: 3,
			Cooldown:         Duration(5 * time.Minute),
		},
		Reminders: ReminderConfig{
			PollInterval: Duration(30 * time.Second),
			LateGrace:    Duration(15 * time.Minute),
			DayStart:     "00:05",
			Timezone:     "Local",
		},
		Storage: StorageConfig{
			Backend:        "sqlite",
			DataDir:        "~/.chorebook",
			RedisURL:       "redis://localhost:6379/0",
			RedisNamespace: "chorebook",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		MCP: MCPConfig{
			Enabled: true,
		},
	}
}

// Load loads the configuration from the config file, creating it with
// defaults on first run. A .env file in the working directory and
// CHOREBOOK_* variables override file values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	// If config file doesn't exist, create it with defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := Save(DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	v := newViper(configPath)
	setDefaults(v)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dataDir, err := expandHome(cfg.Storage.DataDir)
	if err != nil {
		return nil, err
	}
	cfg.Storage.DataDir = dataDir

	return &cfg, nil
}

// Validate checks values that would otherwise fail deep inside the daemon.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "sqlite", "redis", "memory":
	default:
		return fmt.Errorf("invalid storage.backend %q (want sqlite, redis or memory)", c.Storage.Backend)
	}
	if c.Reminders.PollInterval.Std() < time.Second {
		return fmt.Errorf("reminders.poll_interval must be at least 1s")
	}
	if _, err := time.Parse("15:04", c.Reminders.DayStart); err != nil {
		return fmt.Errorf("invalid reminders.day_start %q, expected HH:MM", c.Reminders.DayStart)
	}
	if _, err := c.Reminders.Location(); err != nil {
		return err
	}
	return nil
}

// Save saves the configuration to the config file.
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	v.Set("notifications.enabled", cfg.Notifications.Enabled)
	v.Set("notifications.sound", cfg.Notifications.Sound)
	v.Set("notifications.failure_threshold", cfg.Notifications.FailureThreshold)
	v.Set("notifications.cooldown", cfg.Notifications.Cooldown.String())
	v.Set("reminders.poll_interval", cfg.Reminders.PollInterval.String())
	v.Set("reminders.late_grace", cfg.Reminders.LateGrace.String())
	v.Set("reminders.day_start", cfg.Reminders.DayStart)
	v.Set("reminders.timezone", cfg.Reminders.Timezone)
	v.Set("storage.backend", cfg.Storage.Backend)
	v.Set("storage.data_dir", cfg.Storage.DataDir)
	v.Set("storage.redis_url", cfg.Storage.RedisURL)
	v.Set("storage.redis_namespace", cfg.Storage.RedisNamespace)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.format", cfg.Log.Format)
	v.Set("mcp.enabled", cfg.MCP.Enabled)

	return v.WriteConfig()
}

// GetConfigDir returns $CHOREBOOK_HOME, or ~/.chorebook when unset.
func GetConfigDir() (string, error) {
	if dir := os.Getenv(EnvPrefix + "_HOME"); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".chorebook"), nil
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// GetDBPath returns the path to the SQLite database file.
func GetDBPath(cfg *Config) string {
	return filepath.Join(cfg.Storage.DataDir, "chorebook.db")
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func expandHome(dir string) (string, error) {
	if dir == "" || dir == "~/.chorebook" {
		return GetConfigDir()
	}
	if rest, ok := strings.CutPrefix(dir, "~/"); ok {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(homeDir, rest), nil
	}
	return dir, nil
}

// setDefaults sets default values for viper.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("notifications.enabled", d.Notifications.Enabled)
	v.SetDefault("notifications.sound", d.Notifications.Sound)
	v.SetDefault("notifications.failure_threshold", d.Notifications.FailureThreshold)
	v.SetDefault("notifications.cooldown", d.Notifications.Cooldown.String())
	v.SetDefault("reminders.poll_interval", d.Reminders.PollInterval.String())
	v.SetDefault("reminders.late_grace", d.Reminders.LateGrace.String())
	v.SetDefault("reminders.day_start", d.Reminders.DayStart)
	v.SetDefault("reminders.timezone", d.Reminders.Timezone)
	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.data_dir", d.Storage.DataDir)
	v.SetDefault("storage.redis_url", d.Storage.RedisURL)
	v.SetDefault("storage.redis_namespace", d.Storage.RedisNamespace)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("mcp.enabled", d.MCP.Enabled)
}

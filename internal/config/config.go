// Package config loads TaskNest's YAML configuration through viper.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Storage backends.
const (
	BackendSQLite  = "sqlite"
	BackendKeyring = "keyring"
	BackendMemory  = "memory"
)

// DefaultKeyringPassword unlocks the file keyring when none is configured.
const DefaultKeyringPassword = "tasknest-file-key"

// EnvPrefix is prepended to every environment override, e.g.
// TASKNEST_STORAGE_BACKEND.
const EnvPrefix = "TASKNEST"

// StorageConfig selects where the three records are kept.
type StorageConfig struct {
	// Backend is one of sqlite, keyring or memory.
	Backend string `mapstructure:"backend" yaml:"backend"`

	// Path is the SQLite database file.
	Path string `mapstructure:"path" yaml:"path"`

	// KeyringDir is the directory used by the file keyring backend.
	KeyringDir string `mapstructure:"keyring_dir" yaml:"keyring_dir"`

	// KeyringPassword encrypts the file keyring. Usually supplied through
	// TASKNEST_STORAGE_KEYRING_PASSWORD rather than the config file.
	KeyringPassword string `mapstructure:"keyring_password" yaml:"keyring_password"`
}

type NotificationConfig struct {
	DurationMS int `mapstructure:"duration_ms" yaml:"duration_ms"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	File   string `mapstructure:"file" yaml:"file"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	Storage       StorageConfig      `mapstructure:"storage" yaml:"storage"`
	Notifications NotificationConfig `mapstructure:"notifications" yaml:"notifications"`
	Log           LogConfig          `mapstructure:"log" yaml:"log"`
}

// DataDir returns ~/.local/share/tasknest, or the XDG_DATA_HOME equivalent.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "tasknest")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "tasknest")
}

// DefaultPath returns the default path for the configuration file,
// located at ~/.config/tasknest/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "tasknest", "config.yaml")
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	dir := DataDir()
	return &Config{
		Storage: StorageConfig{
			Backend:         BackendSQLite,
			Path:            filepath.Join(dir, "tasknest.db"),
			KeyringDir:      filepath.Join(dir, "keyring"),
			KeyringPassword: DefaultKeyringPassword,
		},
		Notifications: NotificationConfig{DurationMS: 5000},
		Log: LogConfig{
			Level:  "info",
			File:   filepath.Join(dir, "tasknest.log"),
			Format: "text",
		},
	}
}

func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("storage.backend", def.Storage.Backend)
	v.SetDefault("storage.path", def.Storage.Path)
	v.SetDefault("storage.keyring_dir", def.Storage.KeyringDir)
	v.SetDefault("storage.keyring_password", def.Storage.KeyringPassword)
	v.SetDefault("notifications.duration_ms", def.Notifications.DurationMS)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.file", def.Log.File)
	v.SetDefault("log.format", def.Log.Format)
}

// Load reads configuration from the given YAML file path using Viper.
// A missing file is not an error: defaults and environment overrides
// still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the application cannot act on.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendKeyring, BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Notifications.DurationMS < 0 {
		return fmt.Errorf("notifications.duration_ms must not be negative")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// Save writes the given configuration to a YAML file at path,
// creating parent directories if needed. The keyring password is not
// written.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("storage.backend", cfg.Storage.Backend)
	v.Set("storage.path", cfg.Storage.Path)
	v.Set("storage.keyring_dir", cfg.Storage.KeyringDir)
	v.Set("notifications.duration_ms", cfg.Notifications.DurationMS)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)
	v.Set("log.format", cfg.Log.Format)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

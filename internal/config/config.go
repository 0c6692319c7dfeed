// Package config loads orbit.toml configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Environment overrides.
const (
	EnvConfig  = "ORBIT_CONFIG"
	EnvDB      = "ORBIT_DB"
	EnvBackend = "ORBIT_BACKEND"
)

// Config holds all orbit configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
	View    ViewConfig    `toml:"view"`
	Log     LogConfig     `toml:"log"`
}

type ServerConfig struct {
	Bind string `toml:"bind"`
	Port int    `toml:"port"`
}

type StorageConfig struct {
	Backend string `toml:"backend"` // "sqlite" or "disk"
	Path    string `toml:"path"`    // empty = backend default under ~/.orbit
}

type ViewConfig struct {
	UpcomingDays    int `toml:"upcoming_days"`
	UndoSeconds     int `toml:"undo_seconds"`
	DriftCheckHours int `toml:"drift_check_hours"`
}

type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
	JSON  bool   `toml:"json"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 37778,
		},
		Storage: StorageConfig{
			Backend: "sqlite",
			Path:    "", // resolved at runtime via store.DefaultPath()
		},
		View: ViewConfig{
			UpcomingDays:    30,
			UndoSeconds:     5,
			DriftCheckHours: 24,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultPath is ~/.orbit/orbit.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".orbit", "orbit.toml"), nil
}

// Load reads the config file at path over the defaults, then applies
// environment overrides. An empty path uses $ORBIT_CONFIG or DefaultPath. A
// missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return cfg, err
		}
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return cfg, fmt.Errorf("read config file %s: %w", path, err)
	default:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if v := os.Getenv(EnvDB); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv(EnvBackend); v != "" {
		cfg.Storage.Backend = v
	}
	return cfg, cfg.Validate()
}

// Validate rejects values the rest of orbit can't run with.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "sqlite", "disk":
	default:
		return fmt.Errorf("storage.backend: unknown backend %q", c.Storage.Backend)
	}
	if c.View.UpcomingDays <= 0 {
		return fmt.Errorf("view.upcoming_days: must be positive, got %d", c.View.UpcomingDays)
	}
	if c.View.UndoSeconds <= 0 {
		return fmt.Errorf("view.undo_seconds: must be positive, got %d", c.View.UndoSeconds)
	}
	if c.View.DriftCheckHours <= 0 {
		return fmt.Errorf("view.drift_check_hours: must be positive, got %d", c.View.DriftCheckHours)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}

// UndoWindow is how long a delete can be undone.
func (c *Config) UndoWindow() time.Duration {
	return time.Duration(c.View.UndoSeconds) * time.Second
}

// DriftInterval is how often serve checks for drifting contacts.
func (c *Config) DriftInterval() time.Duration {
	return time.Duration(c.View.DriftCheckHours) * time.Hour
}

// SlogLevel parses the configured level name.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(l.Level))); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

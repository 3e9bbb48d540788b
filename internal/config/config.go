package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all glorp configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Reply engine
	Engine EngineConfig `yaml:"engine"`

	// Chat persistence
	Store StoreConfig `yaml:"store"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`

	// Interactive chat behaviour
	UX UXConfig `yaml:"ux"`
}

// EngineConfig configures the reply engine.
type EngineConfig struct {
	// Seed for the random source. 0 seeds from the clock.
	Seed int64 `yaml:"seed"`

	// Prefix shown before replies in thinking mode.
	ThinkingPrefix string `yaml:"thinking_prefix"`
}

// StoreConfig configures where chats are kept.
type StoreConfig struct {
	Backend      string `yaml:"backend"` // sqlite, redis
	Driver       string `yaml:"driver"`  // sqlite (pure Go), sqlite3 (cgo)
	DatabasePath string `yaml:"database_path"`
	RedisAddr    string `yaml:"redis_addr"`
	RedisDB      int    `yaml:"redis_db"`
	KeyPrefix    string `yaml:"key_prefix"`
}

// UXConfig configures the interactive chat.
type UXConfig struct {
	Theme         string `yaml:"theme"` // light, dark
	Mode          string `yaml:"mode"`  // normal, thinking
	Typing        bool   `yaml:"typing"`
	Markdown      bool   `yaml:"markdown"`
	ResponseDelay string `yaml:"response_delay"`
}

// Store backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// ValidBackends lists all supported store backends.
var ValidBackends = []string{BackendSQLite, BackendRedis}

// SQLite drivers. DriverModernc needs no cgo and is the default.
const (
	DriverModernc = "sqlite"
	DriverCgo     = "sqlite3"
)

// DefaultConfig is what glorp runs with when no config file exists.
func DefaultConfig() *Config {
	home := defaultHome()
	return &Config{
		Name:    "glorp",
		Version: "1.0.0",

		Engine: EngineConfig{
			Seed:           0,
			ThinkingPrefix: "Hmm.. ",
		},

		Store: StoreConfig{
			Backend:      BackendSQLite,
			Driver:       DriverModernc,
			DatabasePath: filepath.Join(home, "glorp.db"),
			RedisAddr:    "localhost:6379",
			RedisDB:      0,
			KeyPrefix:    "glorp:",
		},

		Logging: LoggingConfig{
			Level:     "info",
			Format:    "json",
			DebugMode: false,
			Dir:       filepath.Join(home, "logs"),
		},

		UX: UXConfig{
			Theme:         "dark",
			Mode:          "normal",
			Typing:        true,
			Markdown:      false,
			ResponseDelay: "750ms",
		},
	}
}

// DefaultConfigPath returns ~/.glorp/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(defaultHome(), "config.yaml")
}

func defaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".glorp"
	}
	return filepath.Join(home, ".glorp")
}

// Load reads path over the defaults, then applies GLORP_* environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	switch data, err := os.ReadFile(path); {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the config as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides lets GLORP_* variables win over the file.
func (c *Config) applyEnvOverrides() {
	if backend := os.Getenv("GLORP_STORE"); backend != "" {
		c.Store.Backend = backend
	}
	if path := os.Getenv("GLORP_DB"); path != "" {
		c.Store.DatabasePath = path
	}
	if addr := os.Getenv("GLORP_REDIS_ADDR"); addr != "" {
		c.Store.RedisAddr = addr
		if os.Getenv("GLORP_STORE") == "" {
			c.Store.Backend = BackendRedis
		}
	}
	if seed := os.Getenv("GLORP_SEED"); seed != "" {
		if n, err := strconv.ParseInt(seed, 10, 64); err == nil {
			c.Engine.Seed = n
		}
	}
	if theme := os.Getenv("GLORP_THEME"); theme != "" {
		c.UX.Theme = theme
	}
}

// GetResponseDelay returns the pause before a reply starts typing.
func (c *Config) GetResponseDelay() time.Duration {
	d, err := time.ParseDuration(c.UX.ResponseDelay)
	if err != nil || d < 0 {
		return 750 * time.Millisecond
	}
	return d
}

// Validate rejects unknown backends, drivers, themes and modes.
func (c *Config) Validate() error {
	if !slices.Contains(ValidBackends, c.Store.Backend) {
		return fmt.Errorf("invalid store backend: %s (valid: %v)", c.Store.Backend, ValidBackends)
	}
	if c.Store.Backend == BackendSQLite && c.Store.DatabasePath == "" {
		return fmt.Errorf("store.database_path is required for the sqlite backend")
	}
	if c.Store.Backend == BackendSQLite && c.Store.Driver != DriverModernc && c.Store.Driver != DriverCgo {
		return fmt.Errorf("invalid sqlite driver: %s (valid: %s, %s)", c.Store.Driver, DriverModernc, DriverCgo)
	}
	if c.Store.Backend == BackendRedis && c.Store.RedisAddr == "" {
		return fmt.Errorf("store.redis_addr is required for the redis backend")
	}

	switch c.UX.Theme {
	case "light", "dark":
	default:
		return fmt.Errorf("invalid theme: %s (valid: light, dark)", c.UX.Theme)
	}
	switch c.UX.Mode {
	case "normal", "thinking":
	default:
		return fmt.Errorf("invalid mode: %s (valid: normal, thinking)", c.UX.Mode)
	}

	return nil
}

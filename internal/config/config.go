package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for the service configuration.
const (
	DefaultPort            = 8080
	DefaultShutdownTimeout = 10 * time.Second
	DefaultStoreBackend    = "memory"
	DefaultUnknownID       = UnknownIDZero
	DefaultLogLevel        = "info"
)

// Policies for a points lookup on an id that was never submitted.
const (
	// UnknownIDZero answers 200 with zero points.
	UnknownIDZero = "zero"
	// UnknownIDNotFound answers 404.
	UnknownIDNotFound = "not_found"
)

// PortEnv overrides server.port when set.
const PortEnv = "RECEIPTS_PORT"

// Config holds the receipt processor configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Store    StoreConfig    `yaml:"store"`
	Receipts ReceiptsConfig `yaml:"receipts"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	// Port is the HTTP listen port (default 8080).
	Port int `yaml:"port"`

	// ShutdownTimeout bounds graceful shutdown on SIGINT/SIGTERM.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// StoreConfig selects the receipt storage backend.
type StoreConfig struct {
	// Backend is one of: memory | buntdb. Both are volatile.
	Backend string `yaml:"backend"`
}

// ReceiptsConfig controls API behavior for receipts.
type ReceiptsConfig struct {
	// UnknownID is one of: zero | not_found.
	UnknownID string `yaml:"unknown_id"`
}

// MetricsConfig toggles the Prometheus /metrics endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	// Level is one of: debug | info | warn | error.
	Level string `yaml:"level"`
}

// SlogLevel converts Level to a slog.Level. Unknown values map to info.
func (l LogConfig) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// Load reads and parses the config file at path. An empty path yields the
// defaults. Environment overrides are applied before validation.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	if v := os.Getenv(PortEnv); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config: %s=%q is not a port number", PortEnv, v)
		}
		cfg.Server.Port = port
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return defaults()
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            DefaultPort,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Store:    StoreConfig{Backend: DefaultStoreBackend},
		Receipts: ReceiptsConfig{UnknownID: DefaultUnknownID},
		Metrics:  MetricsConfig{Enabled: true},
		Log:      LogConfig{Level: DefaultLogLevel},
	}
}

func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range [1, 65535]", cfg.Server.Port)
	}
	if cfg.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server.shutdown_timeout must not be negative")
	}
	switch cfg.Store.Backend {
	case "memory", "buntdb":
	default:
		return fmt.Errorf("store.backend %q unknown: want memory|buntdb", cfg.Store.Backend)
	}
	switch cfg.Receipts.UnknownID {
	case UnknownIDZero, UnknownIDNotFound:
	default:
		return fmt.Errorf("receipts.unknown_id %q unknown: want zero|not_found", cfg.Receipts.UnknownID)
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q unknown: want debug|info|warn|error", cfg.Log.Level)
	}
	return nil
}

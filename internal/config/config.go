// Package config resolves server settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Store selects a StateStore backend.
type Store string

const (
	StoreMemory Store = "memory"
	StoreFile   Store = "file"
	StoreRedis  Store = "redis"
	StoreSQLite Store = "sqlite"
)

// Config holds the serve command's settings. Flags override environment
// values, environment values override defaults.
type Config struct {
	Addr       string `env:"FABLE_ADDR" envDefault:":8080"`
	StoreKind  Store  `env:"FABLE_STORE" envDefault:"memory"`
	SessionDir string `env:"FABLE_SESSION_DIR"`

	RedisAddr     string `env:"FABLE_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"FABLE_REDIS_PASSWORD"`
	RedisDB       int    `env:"FABLE_REDIS_DB" envDefault:"0"`

	SQLitePath string `env:"FABLE_SQLITE_PATH" envDefault:"fable.db"`

	LogLevel string `env:"FABLE_LOG_LEVEL" envDefault:"info"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	switch cfg.StoreKind {
	case StoreMemory, StoreFile, StoreRedis, StoreSQLite:
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreKind)
	}
	return &cfg, nil
}

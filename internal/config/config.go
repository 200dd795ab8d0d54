package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/bridgetime.db"`
	RedisURL string     `env:"REDIS_URL"` // optional; empty disables the question cache
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir   string     `env:"SPA_DIR"`

	// Initial admin account seeded at startup. Leave both empty to skip.
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	// BridgeLength is the default win threshold for new games; a game may
	// still override it at start.
	BridgeLength int `env:"BRIDGE_LENGTH" envDefault:"7"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.BridgeLength <= 0 {
		return nil, fmt.Errorf("BRIDGE_LENGTH must be positive, got %d", cfg.BridgeLength)
	}
	return &cfg, nil
}

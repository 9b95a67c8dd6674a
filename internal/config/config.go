package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full process configuration, loaded from environment
// variables at startup.
type Config struct {
	DatabaseURL string `env:"DATABASE_URL,required"`
	Port        int    `env:"PORT" envDefault:"8080"`

	JWTSecret       string        `env:"JWT_SECRET"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"720h"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// AcceptBaseURL is the dashboard page the invitation email links to; the
	// invitation token is appended as a query parameter.
	AcceptBaseURL string `env:"ACCEPT_BASE_URL" envDefault:"http://localhost:3000/invitations/accept"`
	// NotifyEndpoint is the delivery provider webhook. Empty means log-only
	// delivery, which keeps local development mail-free.
	NotifyEndpoint string `env:"NOTIFY_ENDPOINT"`

	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"1h"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

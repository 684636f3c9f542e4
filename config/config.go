// Package config loads server settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// StoreDriver selects the entity store backend: memory, sqlite, postgres
	// or redis.
	StoreDriver string `env:"STORE_DRIVER" envDefault:"sqlite"`
	DatabaseURL string `env:"DATABASE_URL"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"doctrack.db"`
	RedisURL    string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`

	// SessionSecret enables signed session tokens on login/register.
	SessionSecret  string        `env:"SESSION_SECRET"`
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	EnforceSession bool          `env:"ENFORCE_SESSION" envDefault:"false"`

	EventsEnabled bool   `env:"EVENTS_ENABLED" envDefault:"true"`
	CORSOrigin    string `env:"CORS_ORIGIN" envDefault:"*"`
}

// Load reads .env files (missing files are fine) and parses the environment.
// It reports whether a .env file was loaded.
func Load(files ...string) (*Config, bool, error) {
	loaded := godotenv.Load(files...) == nil

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, loaded, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, loaded, err
	}
	return cfg, loaded, nil
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMemory, DriverSQLite, DriverRedis:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.EnforceSession && c.SessionSecret == "" {
		return fmt.Errorf("ENFORCE_SESSION requires SESSION_SECRET")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}

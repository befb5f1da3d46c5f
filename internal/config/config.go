// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port string `env:"PORT" envDefault:"8080"`

	// LogLevel controls the minimum log level.
	// Valid values: debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// CORSOrigins is the list of allowed cross-origin request origins.
	// The default "*" accepts any origin.
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`

	// StorageDriver selects the document store: "postgres" or "memory".
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"postgres"`

	// DatabaseURL is the Postgres connection string. Required for the postgres driver.
	DatabaseURL string `env:"DATABASE_URL"`

	// AutoMigrate applies pending schema migrations on startup.
	AutoMigrate bool `env:"AUTO_MIGRATE" envDefault:"true"`

	// MaxBodyBytes caps the size of request bodies.
	MaxBodyBytes int64 `env:"MAX_BODY_BYTES" envDefault:"1048576"`

	// RateLimitRequests is the number of requests one client IP may make per
	// RateLimitWindow. Zero disables rate limiting.
	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"100"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.CORSOrigins = trimAll(cfg.CORSOrigins)

	var missing []string
	switch cfg.StorageDriver {
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	case StorageMemory:
	default:
		return Config{}, fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StoragePostgres, StorageMemory, cfg.StorageDriver)
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// trimAll trims every entry and drops the empty ones.
func trimAll(in []string) []string {
	var out []string
	for _, part := range in {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Once loaded, configuration is read-only and handed to components through
their constructors.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Rate limiter backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// # Configuration Schema

// Config holds all runtime configuration for the catalogue API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value store (Redis). Optional unless RATE_LIMIT_BACKEND=redis.
	RedisURL string `env:"REDIS_URL"`

	// JWTPubKeyPath points at the RS256 public key that verifies admin tokens.
	// When empty, admin routes are disabled.
	JWTPubKeyPath string `env:"JWT_PUBLIC_KEY_PATH"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`

	// Rate limiting
	RateLimitBackend string `env:"RATE_LIMIT_BACKEND" envDefault:"memory"`

	SearchRateLimitMax    int           `env:"SEARCH_RATE_LIMIT_MAX"    envDefault:"20"`
	SearchRateLimitWindow time.Duration `env:"SEARCH_RATE_LIMIT_WINDOW" envDefault:"60s"`

	SlugFallbackRateLimitMax    int           `env:"SLUG_FALLBACK_RATE_LIMIT_MAX"    envDefault:"30"`
	SlugFallbackRateLimitWindow time.Duration `env:"SLUG_FALLBACK_RATE_LIMIT_WINDOW" envDefault:"60s"`

	GlobalRateLimitRPS   float64 `env:"GLOBAL_RATE_LIMIT_RPS"   envDefault:"100"`
	GlobalRateLimitBurst int     `env:"GLOBAL_RATE_LIMIT_BURST" envDefault:"150"`

	// SlugMaxProbes caps the numeric suffix search of the slug allocator.
	SlugMaxProbes int `env:"SLUG_MAX_PROBES" envDefault:"1000"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct and validates it.
func Load() (*Config, error) {
	cfg := &Config{}

	// Fails if any field marked 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field constraints that struct tags cannot express.
func (c *Config) Validate() error {
	switch c.RateLimitBackend {
	case BackendMemory:
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("config: REDIS_URL is required when RATE_LIMIT_BACKEND=redis")
		}
	default:
		return fmt.Errorf("config: unknown RATE_LIMIT_BACKEND %q", c.RateLimitBackend)
	}

	if c.SearchRateLimitMax <= 0 || c.SearchRateLimitWindow <= 0 {
		return fmt.Errorf("config: search rate limit must be positive")
	}
	if c.SlugFallbackRateLimitMax <= 0 || c.SlugFallbackRateLimitWindow <= 0 {
		return fmt.Errorf("config: slug fallback rate limit must be positive")
	}
	if c.GlobalRateLimitRPS <= 0 || c.GlobalRateLimitBurst <= 0 {
		return fmt.Errorf("config: global rate limit must be positive")
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// GetExtraOrigins returns the raw comma-separated CORS allow list.
func (c *Config) GetExtraOrigins() string {
	return c.ExtraOrigins
}

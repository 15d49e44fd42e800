// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct. A local '.env' file, when present, is loaded first through
'joho/godotenv'; real environment variables always win over it.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

A configuration that would let the server start with a guessable signing
secret, or with a backend it cannot reach, is rejected by [Config.Validate].
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/taibuivan/liftlog/internal/platform/constants"
)

// # Backends

const (
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// # Configuration Schema

// Config holds all runtime configuration for the LiftLog API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Token signing. The secret is the only revocation lever: rotate it to
	// invalidate every outstanding token.
	JWTSecret string        `env:"JWT_SECRET,required,unset"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"168h"`

	// Password policy
	PasswordMinLength int `env:"PASSWORD_MIN_LENGTH" envDefault:"6"`
	BcryptCost        int `env:"BCRYPT_COST"         envDefault:"10"`

	// Storage selection
	DataDir           string `env:"DATA_DIR"           envDefault:"./data"`
	CredentialBackend string `env:"CREDENTIAL_BACKEND" envDefault:"file"`
	KVBackend         string `env:"KV_BACKEND"         envDefault:"file"`

	// Relational Database (PostgreSQL), required by any postgres backend
	DatabaseURL string `env:"DATABASE_URL"`

	// Key-Value store (Redis), required by KV_BACKEND=redis
	RedisURL string `env:"REDIS_URL"`

	// Per-IP token bucket
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS"   envDefault:"20"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"40"`

	// Key rate-limit buckets on X-Real-IP / X-Forwarded-For (only behind a rewriting proxy)
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`

	// Cross-Origin Resource Sharing (ignored in development, where all origins pass)
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
}

// # Configuration Loading

// Load reads an optional .env file, then parses the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env file: %w", err)
	}
	return parse(env.Options{})
}

// LoadFromEnvironment parses the given variables instead of the process
// environment. It exists so tests never depend on the host.
func LoadFromEnvironment(environment map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environment})
}

func parse(options env.Options) (*Config, error) {
	cfg := &Config{}

	// Fields marked 'required' fail here when missing.
	if err := env.ParseWithOptions(cfg, options); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the server must not start with.
func (c *Config) Validate() error {
	var problems []error

	if len(c.JWTSecret) < constants.MinSecretLength {
		problems = append(problems, fmt.Errorf("JWT_SECRET must be at least %d bytes, got %d", constants.MinSecretLength, len(c.JWTSecret)))
	}
	if c.TokenTTL <= 0 {
		problems = append(problems, errors.New("TOKEN_TTL must be positive"))
	}
	if c.PasswordMinLength < 1 {
		problems = append(problems, errors.New("PASSWORD_MIN_LENGTH must be at least 1"))
	}

	if !slices.Contains([]string{BackendFile, BackendPostgres}, c.CredentialBackend) {
		problems = append(problems, fmt.Errorf("CREDENTIAL_BACKEND %q is not one of file, postgres", c.CredentialBackend))
	}
	if !slices.Contains([]string{BackendFile, BackendRedis, BackendPostgres}, c.KVBackend) {
		problems = append(problems, fmt.Errorf("KV_BACKEND %q is not one of file, redis, postgres", c.KVBackend))
	}
	if c.UsesPostgres() && c.DatabaseURL == "" {
		problems = append(problems, errors.New("DATABASE_URL is required by the postgres backend"))
	}
	if c.KVBackend == BackendRedis && c.RedisURL == "" {
		problems = append(problems, errors.New("REDIS_URL is required by the redis backend"))
	}
	if c.UsesFiles() && c.DataDir == "" {
		problems = append(problems, errors.New("DATA_DIR is required by the file backend"))
	}

	if len(problems) > 0 {
		return fmt.Errorf("config: invalid configuration: %w", errors.Join(problems...))
	}
	return nil
}

// UsesPostgres reports whether any backend needs the PostgreSQL pool.
func (c *Config) UsesPostgres() bool {
	return c.CredentialBackend == BackendPostgres || c.KVBackend == BackendPostgres
}

// UsesFiles reports whether any backend writes under DataDir.
func (c *Config) UsesFiles() bool {
	return c.CredentialBackend == BackendFile || c.KVBackend == BackendFile
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

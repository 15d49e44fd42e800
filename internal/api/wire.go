// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/liftlog/internal/platform/config"
	"github.com/taibuivan/liftlog/internal/platform/constants"
	"github.com/taibuivan/liftlog/internal/platform/migration"
	pgstore "github.com/taibuivan/liftlog/internal/platform/postgres"
	redisstore "github.com/taibuivan/liftlog/internal/platform/redis"
	"github.com/taibuivan/liftlog/internal/platform/sec"
	"github.com/taibuivan/liftlog/internal/storage/kv"
	"github.com/taibuivan/liftlog/internal/users/account"
	"github.com/taibuivan/liftlog/internal/users/auth"
)

/*
Assemble opens the configured backends and returns a ready [Server].

The returned cleanup closes every connection that was opened, in reverse
order. It is safe to call even when Assemble fails.

Parameters:
  - ctx: root context; it also bounds the rate limiter janitor
  - cfg: validated configuration
  - log: application logger
*/
func Assemble(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Server, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// ── 1. Shared connections ─────────────────────────────────────────────
	var pool *pgxpool.Pool
	if cfg.UsesPostgres() {
		if err := migration.Up(cfg.DatabaseURL, log); err != nil {
			return nil, cleanup, err
		}

		var err error
		pool, err = pgstore.NewPool(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, func() {
			log.Info("postgres_pool_closing")
			pool.Close()
		})
	}

	var redisClient *goredis.Client
	if cfg.KVBackend == config.BackendRedis {
		var err error
		redisClient, err = redisstore.NewClient(ctx, cfg.RedisURL, log)
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, func() {
			log.Info("redis_client_closing")
			if err := redisClient.Close(); err != nil {
				log.Error("redis_close_failed", slog.Any("error", err))
			}
		})
	}

	// ── 2. Stores ─────────────────────────────────────────────────────────
	credentials, err := newCredentialStore(cfg, pool)
	if err != nil {
		return nil, cleanup, err
	}

	backend, err := newRecordBackend(cfg, pool, redisClient)
	if err != nil {
		return nil, cleanup, err
	}
	records := kv.NewStore(backend)

	// ── 3. Security ───────────────────────────────────────────────────────
	tokens, err := sec.NewTokenService([]byte(cfg.JWTSecret), constants.AuthIssuer, cfg.TokenTTL)
	if err != nil {
		return nil, cleanup, fmt.Errorf("api: token service: %w", err)
	}

	hasher := sec.NewHasher(cfg.BcryptCost)
	identities := auth.NewService(credentials, hasher, tokens,
		auth.WithMinPasswordLength(cfg.PasswordMinLength),
		auth.WithLogger(log),
	)
	profiles := account.NewService(credentials, hasher, identities.MinPasswordLength(), log)

	// ── 4. Handlers ───────────────────────────────────────────────────────
	liveness, readiness := NewHealthHandlers([]HealthCheck{
		{Name: "credential_store_" + cfg.CredentialBackend, Check: identities.Ping},
		{Name: "record_store_" + cfg.KVBackend, Check: records.Ping},
	}, log)

	server := NewServer(ctx, cfg, log, Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(identities),
		Account:   account.NewHandler(profiles, identities),
		Records:   kv.NewHandler(records, identities),
	})

	log.Info("server_assembled",
		slog.String("credential_backend", cfg.CredentialBackend),
		slog.String("kv_backend", cfg.KVBackend),
		slog.Int("password_min_length", identities.MinPasswordLength()),
	)
	return server, cleanup, nil
}

func newCredentialStore(cfg *config.Config, pool *pgxpool.Pool) (auth.CredentialStore, error) {
	switch cfg.CredentialBackend {
	case config.BackendPostgres:
		return auth.NewPostgresCredentialStore(pool), nil
	case config.BackendFile:
		return auth.NewFileCredentialStore(cfg.DataDir)
	default:
		return nil, fmt.Errorf("api: unknown credential backend %q", cfg.CredentialBackend)
	}
}

func newRecordBackend(cfg *config.Config, pool *pgxpool.Pool, redisClient *goredis.Client) (kv.Backend, error) {
	switch cfg.KVBackend {
	case config.BackendPostgres:
		return kv.NewPostgresBackend(pool), nil
	case config.BackendRedis:
		return kv.NewRedisBackend(redisClient), nil
	case config.BackendFile:
		return kv.NewFileBackend(filepath.Join(cfg.DataDir, constants.RecordDirName))
	default:
		return nil, fmt.Errorf("api: unknown kv backend %q", cfg.KVBackend)
	}
}

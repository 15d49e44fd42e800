// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kv

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/liftlog/internal/platform/dberr"
)

// PostgresBackend stores records in liftlog.record as jsonb.
//
// jsonb normalizes whitespace and object key order, so a value reads back
// semantically equal rather than byte-identical.
type PostgresBackend struct {
	pool *pgxpool.Pool
}

// NewPostgresBackend creates a backend over pool.
func NewPostgresBackend(pool *pgxpool.Pool) *PostgresBackend {
	return &PostgresBackend{pool: pool}
}

// Read implements [Backend].
func (backend *PostgresBackend) Read(ctx context.Context, physicalKey string) ([]byte, bool, error) {
	const query = `SELECT value FROM liftlog.record WHERE physical_key = $1`

	var payload []byte
	err := backend.pool.QueryRow(ctx, query, physicalKey).Scan(&payload)
	if dberr.IsNoRows(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

// Write implements [Backend] with a single-statement upsert.
func (backend *PostgresBackend) Write(ctx context.Context, physicalKey string, value []byte) error {
	const query = `
		INSERT INTO liftlog.record (physical_key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (physical_key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

	_, err := backend.pool.Exec(ctx, query, physicalKey, json.RawMessage(value))
	return err
}

// Remove implements [Backend].
func (backend *PostgresBackend) Remove(ctx context.Context, physicalKey string) error {
	_, err := backend.pool.Exec(ctx, `DELETE FROM liftlog.record WHERE physical_key = $1`, physicalKey)
	return err
}

// Scan implements [Backend].
func (backend *PostgresBackend) Scan(ctx context.Context, prefix string) ([]string, error) {
	const query = `SELECT physical_key FROM liftlog.record WHERE starts_with(physical_key, $1)`

	rows, err := backend.pool.Query(ctx, query, prefix)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// Ping implements [Backend].
func (backend *PostgresBackend) Ping(ctx context.Context) error {
	return backend.pool.Ping(ctx)
}

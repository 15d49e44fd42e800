// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/liftlog/internal/platform/dberr"
)

// # Postgres Credential Store

// PostgresCredentialStore implements [CredentialStore] on the liftlog.identity
// table. Email uniqueness is enforced by the table's UNIQUE constraint, which
// also closes the race between two concurrent signups for the same email.
type PostgresCredentialStore struct {
	pool *pgxpool.Pool
}

// NewPostgresCredentialStore creates a new PostgreSQL credential store.
func NewPostgresCredentialStore(pool *pgxpool.Pool) *PostgresCredentialStore {
	return &PostgresCredentialStore{pool: pool}
}

const selectIdentity = `
	SELECT id::text, email, name, password_hash, created_at
	FROM liftlog.identity`

// FindByEmail implements [CredentialStore].
func (store *PostgresCredentialStore) FindByEmail(ctx context.Context, normalizedEmail string) (*Identity, error) {
	return store.findOne(ctx, "find_by_email", selectIdentity+` WHERE email = $1`, normalizedEmail)
}

// FindByID implements [CredentialStore].
func (store *PostgresCredentialStore) FindByID(ctx context.Context, id string) (*Identity, error) {
	return store.findOne(ctx, "find_by_id", selectIdentity+` WHERE id = $1::uuid`, id)
}

/*
Insert persists a new identity row.

Returns:
  - error: ErrDuplicateEmail on a unique violation, database errors otherwise
*/
func (store *PostgresCredentialStore) Insert(ctx context.Context, identity *Identity) error {
	const query = `
		INSERT INTO liftlog.identity (id, email, name, password_hash, created_at)
		VALUES ($1::uuid, $2, $3, $4, $5)`

	_, err := store.pool.Exec(ctx, query,
		identity.ID,
		identity.Email,
		identity.Name,
		identity.PasswordHash,
		identity.CreatedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("postgres_credential_store_insert_failed: %w", err)
	}
	return nil
}

/*
Update rewrites the name and password hash of an identity row.

Returns:
  - error: ErrIdentityNotFound when no row matched, database errors otherwise
*/
func (store *PostgresCredentialStore) Update(ctx context.Context, identity *Identity) error {
	const query = `
		UPDATE liftlog.identity
		SET name = $2, password_hash = $3
		WHERE id = $1::uuid`

	tag, err := store.pool.Exec(ctx, query, identity.ID, identity.Name, identity.PasswordHash)
	if err != nil {
		return fmt.Errorf("postgres_credential_store_update_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrIdentityNotFound
	}
	return nil
}

// Ping implements [CredentialStore].
func (store *PostgresCredentialStore) Ping(ctx context.Context) error {
	return store.pool.Ping(ctx)
}

func (store *PostgresCredentialStore) findOne(ctx context.Context, operation, query string, argument string) (*Identity, error) {
	identity := &Identity{}
	err := store.pool.QueryRow(ctx, query, argument).Scan(
		&identity.ID,
		&identity.Email,
		&identity.Name,
		&identity.PasswordHash,
		&identity.CreatedAt,
	)

	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, fmt.Errorf("postgres_credential_store_%s_failed: %w", operation, err)
	}
	return identity, nil
}

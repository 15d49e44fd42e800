// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/google/renameio/v2"

	"github.com/taibuivan/liftlog/internal/platform/constants"
)

// # File Credential Store

// FileCredentialStore keeps every identity in one JSON document on disk.
//
// Reads always go to disk so a record removed out-of-band is noticed on the
// next lookup. Inserts are serialized by a mutex and replace the document
// atomically (temp file, fsync, rename).
type FileCredentialStore struct {
	path string
	mu   sync.Mutex
}

// identityDocument is the on-disk shape. It carries the password hash, which
// the client-facing [Identity] never serializes.
type identityDocument struct {
	Identities []identityRecord `json:"identities"`
}

type identityRecord struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"passwordHash"`
	CreatedAt    int64  `json:"createdAt"`
}

func (record identityRecord) identity() *Identity {
	return &Identity{
		ID:           record.ID,
		Email:        record.Email,
		Name:         record.Name,
		PasswordHash: record.PasswordHash,
		CreatedAt:    record.CreatedAt,
	}
}

// NewFileCredentialStore creates the data directory if needed and returns a store rooted in it.
func NewFileCredentialStore(dataDir string) (*FileCredentialStore, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("file_credential_store_mkdir_failed: %w", err)
	}
	return &FileCredentialStore{path: filepath.Join(dataDir, constants.IdentityFileName)}, nil
}

// FindByEmail implements [CredentialStore].
func (store *FileCredentialStore) FindByEmail(ctx context.Context, normalizedEmail string) (*Identity, error) {
	return store.find(ctx, func(record identityRecord) bool { return record.Email == normalizedEmail })
}

// FindByID implements [CredentialStore].
func (store *FileCredentialStore) FindByID(ctx context.Context, id string) (*Identity, error) {
	return store.find(ctx, func(record identityRecord) bool { return record.ID == id })
}

/*
Insert appends a new identity and rewrites the document atomically.

Returns:
  - error: ErrDuplicateEmail when the email exists, write failures otherwise
*/
func (store *FileCredentialStore) Insert(ctx context.Context, identity *Identity) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	document, err := store.load()
	if err != nil {
		return err
	}

	// ── 1. Uniqueness ─────────────────────────────────────────────────────
	for _, record := range document.Identities {
		if record.Email == identity.Email {
			return ErrDuplicateEmail
		}
		if record.ID == identity.ID {
			return fmt.Errorf("file_credential_store_insert_failed: id %s already exists", identity.ID)
		}
	}

	// ── 2. Atomic replace ─────────────────────────────────────────────────
	document.Identities = append(document.Identities, identityRecord{
		ID:           identity.ID,
		Email:        identity.Email,
		Name:         identity.Name,
		PasswordHash: identity.PasswordHash,
		CreatedAt:    identity.CreatedAt,
	})

	return store.save(document)
}

/*
Update replaces the name and password hash of an existing identity.

Returns:
  - error: ErrIdentityNotFound when the id is unknown, write failures otherwise
*/
func (store *FileCredentialStore) Update(ctx context.Context, identity *Identity) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	document, err := store.load()
	if err != nil {
		return err
	}

	index := slices.IndexFunc(document.Identities, func(record identityRecord) bool {
		return record.ID == identity.ID
	})
	if index < 0 {
		return ErrIdentityNotFound
	}

	document.Identities[index].Name = identity.Name
	document.Identities[index].PasswordHash = identity.PasswordHash

	return store.save(document)
}

// Ping checks that the data directory is still there.
func (store *FileCredentialStore) Ping(ctx context.Context) error {
	if _, err := os.Stat(filepath.Dir(store.path)); err != nil {
		return fmt.Errorf("file_credential_store_unavailable: %w", err)
	}
	return ctx.Err()
}

func (store *FileCredentialStore) find(ctx context.Context, match func(identityRecord) bool) (*Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	document, err := store.load()
	if err != nil {
		return nil, err
	}

	for _, record := range document.Identities {
		if match(record) {
			return record.identity(), nil
		}
	}
	return nil, ErrIdentityNotFound
}

// load reads the document; a missing file is an empty collection.
func (store *FileCredentialStore) load() (*identityDocument, error) {
	document := &identityDocument{}

	payload, err := os.ReadFile(store.path)
	if errors.Is(err, fs.ErrNotExist) {
		return document, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file_credential_store_read_failed: %w", err)
	}

	if err := json.Unmarshal(payload, document); err != nil {
		return nil, fmt.Errorf("file_credential_store_decode_failed: %w", err)
	}
	return document, nil
}

// save replaces the document atomically (temp file, fsync, rename).
func (store *FileCredentialStore) save(document *identityDocument) error {
	payload, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return fmt.Errorf("file_credential_store_encode_failed: %w", err)
	}
	if err := renameio.WriteFile(store.path, payload, 0o600); err != nil {
		return fmt.Errorf("file_credential_store_write_failed: %w", err)
	}
	return nil
}

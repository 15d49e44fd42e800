// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package kv is the per-identity JSON record store.

Every operation takes the owner id resolved by the request authorizer and
folds it into the physical key, so one identity can never address another
identity's records. [Store] is the only code that builds physical keys;
a [Backend] (file, Redis or PostgreSQL) only ever sees the result.
*/
package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Store is the owner-scoped view over a [Backend].
type Store struct {
	backend Backend
}

// NewStore wraps a backend.
func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

/*
Get returns the value stored under key for owner.

A stored JSON null comes back as json.RawMessage("null") with found=true.

Returns:
  - json.RawMessage: the stored JSON, nil when absent
  - bool: whether the key exists
  - error: ErrInvalidOwner, ErrInvalidKey or wrapped backend failures
*/
func (store *Store) Get(ctx context.Context, ownerID, key string) (json.RawMessage, bool, error) {
	physical, err := physicalKey(ownerID, key)
	if err != nil {
		return nil, false, err
	}

	raw, found, err := store.backend.Read(ctx, physical)
	if err != nil {
		return nil, false, fmt.Errorf("kv_store_get_failed: %w", err)
	}
	if !found {
		return nil, false, nil
	}
	return json.RawMessage(raw), true, nil
}

/*
Set replaces the value under key for owner and returns what was written.

Returns:
  - json.RawMessage: the value written
  - error: ErrInvalidValue for malformed JSON, key/owner errors, backend failures
*/
func (store *Store) Set(ctx context.Context, ownerID, key string, value json.RawMessage) (json.RawMessage, error) {
	physical, err := physicalKey(ownerID, key)
	if err != nil {
		return nil, err
	}
	if !json.Valid(value) {
		return nil, ErrInvalidValue
	}

	if err := store.backend.Write(ctx, physical, value); err != nil {
		return nil, fmt.Errorf("kv_store_set_failed: %w", err)
	}
	return value, nil
}

// Delete removes key for owner. Deleting an absent key succeeds.
func (store *Store) Delete(ctx context.Context, ownerID, key string) error {
	physical, err := physicalKey(ownerID, key)
	if err != nil {
		return err
	}

	if err := store.backend.Remove(ctx, physical); err != nil {
		return fmt.Errorf("kv_store_delete_failed: %w", err)
	}
	return nil
}

/*
ListKeys returns the owner's keys, sorted, with the scope stripped.

The keys are the sanitized forms: a record written as "a.b" lists as "a_b".
Each listed key reads back the same record through [Store.Get].
*/
func (store *Store) ListKeys(ctx context.Context, ownerID string) ([]string, error) {
	scope, err := ownerScope(ownerID)
	if err != nil {
		return nil, err
	}

	physicalKeys, err := store.backend.Scan(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("kv_store_list_failed: %w", err)
	}

	keys := make([]string, 0, len(physicalKeys))
	for _, physical := range physicalKeys {
		// Backends filter by prefix already; this keeps a faulty one from leaking.
		if logical, ok := strings.CutPrefix(physical, scope); ok && logical != "" {
			keys = append(keys, logical)
		}
	}
	slices.Sort(keys)
	return keys, nil
}

/*
Export returns every record the owner has, keyed by logical key.

A key removed between listing and reading is skipped.
*/
func (store *Store) Export(ctx context.Context, ownerID string) (map[string]json.RawMessage, error) {
	keys, err := store.ListKeys(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	records := make(map[string]json.RawMessage, len(keys))
	for _, key := range keys {
		value, found, err := store.Get(ctx, ownerID, key)
		if err != nil {
			return nil, fmt.Errorf("kv_store_export_failed: %w", err)
		}
		if found {
			records[key] = value
		}
	}
	return records, nil
}

/*
Import writes a batch of records for owner.

Every key and value is checked before the first write, so a bad entry
rejects the whole batch. Keys that sanitize to the same physical key are
written in logical-key order, and the last one wins.

Returns:
  - int: number of distinct records written
  - error: validation errors before any write, backend failures during
*/
func (store *Store) Import(ctx context.Context, ownerID string, records map[string]json.RawMessage) (int, error) {
	if _, err := ownerScope(ownerID); err != nil {
		return 0, err
	}

	// ── 1. Validate everything ────────────────────────────────────────────
	logicalKeys := make([]string, 0, len(records))
	for key, value := range records {
		if _, err := SanitizeKey(key); err != nil {
			return 0, err
		}
		if !json.Valid(value) {
			return 0, ErrInvalidValue
		}
		logicalKeys = append(logicalKeys, key)
	}
	slices.Sort(logicalKeys)

	// ── 2. Write ──────────────────────────────────────────────────────────
	written := make(map[string]struct{}, len(logicalKeys))
	for _, key := range logicalKeys {
		physical, _ := physicalKey(ownerID, key)
		if err := store.backend.Write(ctx, physical, records[key]); err != nil {
			return len(written), fmt.Errorf("kv_store_import_failed: %w", err)
		}
		written[physical] = struct{}{}
	}
	return len(written), nil
}

// Ping reports whether the backend is reachable.
func (store *Store) Ping(ctx context.Context) error {
	return store.backend.Ping(ctx)
}

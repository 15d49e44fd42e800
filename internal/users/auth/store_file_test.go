// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/liftlog/internal/users/auth"
	"github.com/taibuivan/liftlog/pkg/uuid"
)

func newIdentity(email string) *auth.Identity {
	return &auth.Identity{
		ID:           uuid.New(),
		Email:        email,
		Name:         "Lifter",
		PasswordHash: "$2a$04$placeholder",
		CreatedAt:    1700000000000,
	}
}

/*
TestFileCredentialStore_InsertFind verifies records survive a fresh store instance.
*/
func TestFileCredentialStore_InsertFind(t *testing.T) {
	dataDir := t.TempDir()
	ctx := context.Background()

	store, err := auth.NewFileCredentialStore(dataDir)
	require.NoError(t, err)

	// 1. Empty store
	_, err = store.FindByEmail(ctx, "a@example.com")
	assert.ErrorIs(t, err, auth.ErrIdentityNotFound)

	// 2. Insert, then read back through a second instance
	identity := newIdentity("a@example.com")
	require.NoError(t, store.Insert(ctx, identity))

	reopened, err := auth.NewFileCredentialStore(dataDir)
	require.NoError(t, err)

	byEmail, err := reopened.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, identity, byEmail)

	byID, err := reopened.FindByID(ctx, identity.ID)
	require.NoError(t, err)
	assert.Equal(t, identity.Email, byID.Email)

	// 3. No temp files left behind
	entries, err := os.ReadDir(dataDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "identities.json", entries[0].Name())

	require.NoError(t, store.Ping(ctx))
}

/*
TestFileCredentialStore_Duplicate verifies email uniqueness under concurrent inserts.
*/
func TestFileCredentialStore_Duplicate(t *testing.T) {
	store, err := auth.NewFileCredentialStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)

	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.Insert(ctx, newIdentity("same@example.com"))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, auth.ErrDuplicateEmail):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, 7, conflicts)
}

/*
TestFileCredentialStore_ExternalDeletion verifies reads are never cached.
*/
func TestFileCredentialStore_ExternalDeletion(t *testing.T) {
	dataDir := t.TempDir()
	ctx := context.Background()
	store, err := auth.NewFileCredentialStore(dataDir)
	require.NoError(t, err)

	identity := newIdentity("a@example.com")
	require.NoError(t, store.Insert(ctx, identity))

	require.NoError(t, os.Remove(filepath.Join(dataDir, "identities.json")))

	_, err = store.FindByID(ctx, identity.ID)
	assert.ErrorIs(t, err, auth.ErrIdentityNotFound)
}

/*
TestFileCredentialStore_CorruptDocument verifies garbage on disk is an error,
not an empty store.
*/
func TestFileCredentialStore_CorruptDocument(t *testing.T) {
	dataDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "identities.json"), []byte("{not json"), 0o600))

	store, err := auth.NewFileCredentialStore(dataDir)
	require.NoError(t, err)

	_, err = store.FindByEmail(context.Background(), "a@example.com")
	require.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrIdentityNotFound)
}

/*
TestFileCredentialStore_Update verifies only the mutable fields change.
*/
func TestFileCredentialStore_Update(t *testing.T) {
	store, err := auth.NewFileCredentialStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	identity := newIdentity("a@example.com")
	require.NoError(t, store.Insert(ctx, identity))
	require.NoError(t, store.Insert(ctx, newIdentity("b@example.com")))

	changed := *identity
	changed.Name = "Renamed"
	changed.PasswordHash = "$2a$04$rotated"
	changed.Email = "ignored@example.com"
	require.NoError(t, store.Update(ctx, &changed))

	stored, err := store.FindByID(ctx, identity.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", stored.Name)
	assert.Equal(t, "$2a$04$rotated", stored.PasswordHash)
	assert.Equal(t, "a@example.com", stored.Email)

	other, err := store.FindByEmail(ctx, "b@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Lifter", other.Name)

	assert.ErrorIs(t, store.Update(ctx, newIdentity("c@example.com")), auth.ErrIdentityNotFound)
}

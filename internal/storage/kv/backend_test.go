// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kv_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/liftlog/internal/storage/kv"
	"github.com/taibuivan/liftlog/pkg/uuid"
)

// exerciseBackend runs the contract every backend must meet. Keys are made
// unique per run so shared Redis or Postgres instances can be reused.
func exerciseBackend(t *testing.T, backend kv.Backend) {
	t.Helper()
	ctx := context.Background()

	prefix := "owner-" + uuid.New() + "-"
	other := "owner-" + uuid.New() + "-"

	require.NoError(t, backend.Ping(ctx))

	// 1. Absent key
	_, found, err := backend.Read(ctx, prefix+"missing")
	require.NoError(t, err)
	assert.False(t, found)

	// 2. Write, overwrite, read
	require.NoError(t, backend.Write(ctx, prefix+"plans", []byte(`[1]`)))
	require.NoError(t, backend.Write(ctx, prefix+"plans", []byte(`[1, 2]`)))
	value, found, err := backend.Read(ctx, prefix+"plans")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `[1, 2]`, string(value))

	// 3. Stored null is found
	require.NoError(t, backend.Write(ctx, prefix+"nothing", []byte(`null`)))
	value, found, err = backend.Read(ctx, prefix+"nothing")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `null`, string(value))

	// 4. Scan only sees the prefix
	require.NoError(t, backend.Write(ctx, other+"plans", []byte(`{"other":true}`)))
	keys, err := backend.Scan(ctx, prefix)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{prefix + "plans", prefix + "nothing"}, keys)

	// 5. Remove, twice
	require.NoError(t, backend.Remove(ctx, prefix+"plans"))
	require.NoError(t, backend.Remove(ctx, prefix+"plans"))
	_, found, err = backend.Read(ctx, prefix+"plans")
	require.NoError(t, err)
	assert.False(t, found)

	t.Cleanup(func() {
		_ = backend.Remove(ctx, prefix+"nothing")
		_ = backend.Remove(ctx, other+"plans")
	})
}

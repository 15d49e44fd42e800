// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kv_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/liftlog/internal/storage/kv"
)

/*
TestFileBackend runs the backend contract on a temp directory.
*/
func TestFileBackend(t *testing.T) {
	backend, err := kv.NewFileBackend(filepath.Join(t.TempDir(), "kv"))
	require.NoError(t, err)
	exerciseBackend(t, backend)
}

/*
TestFileBackend_IgnoresStrayFiles verifies hidden temp files and foreign
names never show up in a scan.
*/
func TestFileBackend_IgnoresStrayFiles(t *testing.T) {
	dir := t.TempDir()
	backend, err := kv.NewFileBackend(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, backend.Write(ctx, "owner-x-plans", []byte(`1`)))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".owner-x-plans.json123"), []byte(`{`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "owner-x-notes.txt"), []byte(`x`), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "owner-x-dir.json"), 0o700))

	keys, err := backend.Scan(ctx, "owner-x-")
	require.NoError(t, err)
	assert.Equal(t, []string{"owner-x-plans"}, keys)

	_, err = os.Stat(filepath.Join(dir, "owner-x-plans.json"))
	assert.NoError(t, err)
}

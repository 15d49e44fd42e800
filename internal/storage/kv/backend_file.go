// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kv

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"
)

const recordExtension = ".json"

// FileBackend keeps one file per record in a single directory.
//
// Writes go through renameio (temp file, fsync, rename), so there are no
// locks and different keys never block each other. renameio temp files start
// with '.', which no physical key does, so a listing never picks them up.
type FileBackend struct {
	dir string
}

// NewFileBackend creates dir if needed.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("kv_file_backend_mkdir_failed: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

func (backend *FileBackend) path(physicalKey string) string {
	return filepath.Join(backend.dir, physicalKey+recordExtension)
}

// Read implements [Backend].
func (backend *FileBackend) Read(ctx context.Context, physicalKey string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	payload, err := os.ReadFile(backend.path(physicalKey))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

// Write implements [Backend].
func (backend *FileBackend) Write(ctx context.Context, physicalKey string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return renameio.WriteFile(backend.path(physicalKey), value, 0o600)
}

// Remove implements [Backend].
func (backend *FileBackend) Remove(ctx context.Context, physicalKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := os.Remove(backend.path(physicalKey))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Scan implements [Backend].
func (backend *FileBackend) Scan(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(backend.dir)
	if err != nil {
		return nil, err
	}

	var keys []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}
		if key, ok := strings.CutSuffix(name, recordExtension); ok {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// Ping implements [Backend].
func (backend *FileBackend) Ping(ctx context.Context) error {
	info, err := os.Stat(backend.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("kv: %s is not a directory", backend.dir)
	}
	return ctx.Err()
}

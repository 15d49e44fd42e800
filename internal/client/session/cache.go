// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// Cache is the durable client-side copy of the session.
type Cache interface {
	// Load returns nil, nil when nothing is cached.
	Load() (*Session, error)
	Save(session *Session) error
	Clear() error
}

// FileCache keeps the session as a JSON file readable only by its owner.
type FileCache struct {
	path string
}

// NewFileCache stores the session at path; parent directories are created on Save.
func NewFileCache(path string) *FileCache {
	return &FileCache{path: path}
}

// Path reports where the session is stored.
func (cache *FileCache) Path() string { return cache.path }

// Load implements [Cache].
func (cache *FileCache) Load() (*Session, error) {
	payload, err := os.ReadFile(cache.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: read cache: %w", err)
	}

	var cached Session
	if err := json.Unmarshal(payload, &cached); err != nil {
		return nil, fmt.Errorf("session: decode cache: %w", err)
	}
	if cached.Token == "" {
		return nil, nil
	}
	return &cached, nil
}

// Save implements [Cache]. The file is replaced atomically.
func (cache *FileCache) Save(session *Session) error {
	if err := os.MkdirAll(filepath.Dir(cache.path), 0o700); err != nil {
		return fmt.Errorf("session: create cache dir: %w", err)
	}

	payload, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("session: encode cache: %w", err)
	}
	if err := renameio.WriteFile(cache.path, payload, 0o600); err != nil {
		return fmt.Errorf("session: write cache: %w", err)
	}
	return nil
}

// Clear implements [Cache]. Clearing an empty cache succeeds.
func (cache *FileCache) Clear() error {
	if err := os.Remove(cache.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("session: clear cache: %w", err)
	}
	return nil
}

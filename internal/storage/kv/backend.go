// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kv

import "context"

// # Backend Contract

// Backend stores raw JSON under physical keys.
//
// Backends know nothing about owners or sanitization; [Store] hands them
// fully resolved physical keys only.
type Backend interface {

	// Read returns the stored bytes and found=false when the key is absent.
	Read(ctx context.Context, physicalKey string) ([]byte, bool, error)

	// Write replaces the value atomically. A reader sees the old or the new
	// value, never a mix.
	Write(ctx context.Context, physicalKey string, value []byte) error

	// Remove deletes the key. Removing an absent key is not an error.
	Remove(ctx context.Context, physicalKey string) error

	// Scan lists every physical key starting with prefix, in any order.
	Scan(ctx context.Context, prefix string) ([]string, error)

	// Ping reports whether the storage is reachable.
	Ping(ctx context.Context) error
}

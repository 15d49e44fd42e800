// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kv

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/liftlog/internal/platform/constants"
)

// scanBatch is the COUNT hint for each SCAN round trip.
const scanBatch = 200

// RedisBackend stores records as plain strings under a shared namespace.
// SET replaces a value in one command, so writes are atomic.
type RedisBackend struct {
	client    redis.UniversalClient
	namespace string
}

// NewRedisBackend uses the default "liftlog:kv:" namespace.
func NewRedisBackend(client redis.UniversalClient) *RedisBackend {
	return &RedisBackend{client: client, namespace: constants.RedisPrefixRecord}
}

// Read implements [Backend].
func (backend *RedisBackend) Read(ctx context.Context, physicalKey string) ([]byte, bool, error) {
	payload, err := backend.client.Get(ctx, backend.namespace+physicalKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

// Write implements [Backend].
func (backend *RedisBackend) Write(ctx context.Context, physicalKey string, value []byte) error {
	return backend.client.Set(ctx, backend.namespace+physicalKey, value, 0).Err()
}

// Remove implements [Backend].
func (backend *RedisBackend) Remove(ctx context.Context, physicalKey string) error {
	return backend.client.Del(ctx, backend.namespace+physicalKey).Err()
}

// Scan implements [Backend]. Physical keys never contain glob metacharacters,
// so the prefix is used in MATCH as is.
func (backend *RedisBackend) Scan(ctx context.Context, prefix string) ([]string, error) {
	var keys []string

	iterator := backend.client.Scan(ctx, 0, backend.namespace+prefix+"*", scanBatch).Iterator()
	for iterator.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iterator.Val(), backend.namespace))
	}
	if err := iterator.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

// Ping implements [Backend].
func (backend *RedisBackend) Ping(ctx context.Context) error {
	return backend.client.Ping(ctx).Err()
}

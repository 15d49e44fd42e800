// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kv_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	redisclient "github.com/taibuivan/liftlog/internal/platform/redis"
	"github.com/taibuivan/liftlog/internal/storage/kv"
)

/*
TestRedisBackend runs the backend contract when LIFTLOG_TEST_REDIS_URL is set.
*/
func TestRedisBackend(t *testing.T) {
	redisURL := os.Getenv("LIFTLOG_TEST_REDIS_URL")
	if redisURL == "" {
		t.Skip("LIFTLOG_TEST_REDIS_URL not set")
	}

	client, err := redisclient.NewClient(context.Background(), redisURL, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	exerciseBackend(t, kv.NewRedisBackend(client))
}

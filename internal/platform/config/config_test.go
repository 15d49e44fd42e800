// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/liftlog/internal/platform/config"
)

var strongSecret = strings.Repeat("s", 32)

/*
TestLoad_Defaults verifies the documented defaults with only the secret set.
*/
func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.LoadFromEnvironment(map[string]string{"JWT_SECRET": strongSecret})
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 6, cfg.PasswordMinLength)
	assert.Equal(t, config.BackendFile, cfg.CredentialBackend)
	assert.Equal(t, config.BackendFile, cfg.KVBackend)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.UsesPostgres())
	assert.False(t, cfg.TrustProxyHeaders)
}

/*
TestLoad_Rejects covers every fail-fast rule.
*/
func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name        string
		environment map[string]string
		contains    string
	}{
		{"missing_secret", map[string]string{}, "JWT_SECRET"},
		{"weak_secret", map[string]string{"JWT_SECRET": "changeme"}, "JWT_SECRET must be at least 32 bytes"},
		{"unknown_kv_backend", map[string]string{"JWT_SECRET": strongSecret, "KV_BACKEND": "mongo"}, "KV_BACKEND"},
		{"unknown_credential_backend", map[string]string{"JWT_SECRET": strongSecret, "CREDENTIAL_BACKEND": "redis"}, "CREDENTIAL_BACKEND"},
		{"postgres_without_url", map[string]string{"JWT_SECRET": strongSecret, "KV_BACKEND": "postgres"}, "DATABASE_URL"},
		{"redis_without_url", map[string]string{"JWT_SECRET": strongSecret, "KV_BACKEND": "redis"}, "REDIS_URL"},
		{"zero_ttl", map[string]string{"JWT_SECRET": strongSecret, "TOKEN_TTL": "0s"}, "TOKEN_TTL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.LoadFromEnvironment(tt.environment)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

/*
TestLoad_Overrides verifies list and backend parsing.
*/
func TestLoad_Overrides(t *testing.T) {
	cfg, err := config.LoadFromEnvironment(map[string]string{
		"JWT_SECRET":          strongSecret,
		"ENVIRONMENT":         "production",
		"KV_BACKEND":          "redis",
		"REDIS_URL":           "redis://localhost:6379/0",
		"CREDENTIAL_BACKEND":  "postgres",
		"DATABASE_URL":        "postgres://liftlog@localhost/liftlog",
		"ALLOWED_ORIGINS":     "https://a.example,https://b.example",
		"TRUST_PROXY_HEADERS": "true",
	})
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.UsesPostgres())
	assert.False(t, cfg.UsesFiles())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.TrustProxyHeaders)
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the LiftLog server.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: janitor cadence for the per-IP buckets.
  - Security: token issuer, secret and policy floors.
  - Storage: file names and key namespaces shared by backends.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "liftlog"
	AppVersion = "0.3.0"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second

	// MaxRequestBodyBytes caps JSON bodies, including bulk imports.
	MaxRequestBodyBytes = 1 << 20
)

// # Rate Limiting

const (
	// RateLimitCleanupInterval is how often idle IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the 'iss' claim stamped on and required from every token.
	AuthIssuer = "liftlog.app"

	// DefaultTokenTTL is the validity window of an issued token.
	DefaultTokenTTL = 7 * 24 * time.Hour

	// MinSecretLength is the minimum signing secret size in bytes (HS256 block size).
	MinSecretLength = 32

	// DefaultPasswordMinLength is the signup password floor.
	DefaultPasswordMinLength = 6

	// BearerScheme is the Authorization header scheme for tokens.
	BearerScheme = "Bearer"
)

// # HTTP Headers

const (
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldData     = "data"
	FieldError    = "error"
	FieldCode     = "code"
	FieldMessage  = "message"
	FieldStatus   = "status"
	FieldChecks   = "checks"
	FieldKeys     = "keys"
	FieldImported = "imported"
)

// # Storage

const (
	// IdentityFileName is the document holding every identity for the file credential store.
	IdentityFileName = "identities.json"

	// RecordDirName is the sub-directory of DATA_DIR holding scoped records.
	RecordDirName = "kv"

	// RedisPrefixRecord namespaces scoped records inside a shared Redis.
	RedisPrefixRecord = "liftlog:kv:"

	// SchemaLiftLog is the PostgreSQL schema owning every LiftLog table.
	SchemaLiftLog = "liftlog"
)

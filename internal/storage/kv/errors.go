// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kv

import (
	"errors"
	"net/http"

	"github.com/taibuivan/liftlog/internal/platform/apperr"
)

// CodeInvalidKey marks a logical key that cannot be sanitized.
const CodeInvalidKey = "INVALID_KEY"

var (
	// ErrInvalidKey is the 400 for an empty or over-long logical key.
	ErrInvalidKey = apperr.New(http.StatusBadRequest, CodeInvalidKey, "Key must be 1-128 characters")

	// ErrInvalidValue is the 400 for a value that is not well-formed JSON.
	ErrInvalidValue = apperr.ValidationError("Value must be valid JSON")

	// ErrInvalidOwner means the resolved identity is not a UUID. Nothing is
	// read or written for such an owner.
	ErrInvalidOwner = errors.New("kv: invalid owner id")
)

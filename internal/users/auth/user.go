// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements LiftLog identities: signup, login and token
verification, plus the credential stores behind them.

# Architecture

  - [Service]: the only entry point for establishing trust.
  - [CredentialStore]: the only component that reads or writes password hashes.
  - [Handler]: the REST surface under /auth.

Password hashing and token signing are delegated to the sec package through
the [PasswordHasher] and [TokenIssuer] interfaces.
*/
package auth

import (
	"strings"
	"time"
)

// # Domain Entities

// Identity is a registered LiftLog account.
type Identity struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"` // Never serialized; only the credential store persists it.
	CreatedAt    int64  `json:"createdAt"`
}

// Public returns a copy of the identity that is safe to hand to clients.
func (identity *Identity) Public() *Identity {
	if identity == nil {
		return nil
	}
	clone := *identity
	clone.PasswordHash = ""
	return &clone
}

// NormalizeEmail is the single canonical form used for storage and comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// epochMillis renders t the way identities store creation times.
func epochMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// AuthResult is what signup and login hand back to the caller.
type AuthResult struct {
	User  *Identity `json:"user"`
	Token string    `json:"token"`
}

// # Field Identifiers

const (
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldName     = "name"
	FieldUser     = "user"
	FieldToken    = "token"
)

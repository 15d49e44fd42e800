// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"errors"
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/taibuivan/liftlog/internal/platform/apperr"
)

// # Store Sentinels

var (
	// ErrIdentityNotFound is returned by a [CredentialStore] lookup that matched nothing.
	ErrIdentityNotFound = errors.New("auth: identity not found")

	// ErrDuplicateEmail is returned by [CredentialStore.Insert] when the email is taken.
	ErrDuplicateEmail = errors.New("auth: duplicate email")
)

// # Client-facing Errors

const (
	CodeWeakPassword       = "WEAK_PASSWORD"
	CodeEmailTaken         = "EMAIL_TAKEN"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
)

var (
	// ErrEmailTaken is the 409 for a signup with a registered email.
	ErrEmailTaken = apperr.New(http.StatusConflict, CodeEmailTaken, "Email is already registered")

	// ErrInvalidCredentials is the one and only login failure. Unknown email and
	// wrong password return this same value, so responses are byte-identical.
	ErrInvalidCredentials = apperr.New(http.StatusUnauthorized, CodeInvalidCredentials, "Invalid credentials")

	// ErrUserNotFound is returned by Verify when a valid token names a deleted identity.
	ErrUserNotFound = apperr.NotFound("User")
)

// weakPassword builds the 400 for passwords under the policy minimum.
func weakPassword(minLength int) *apperr.AppError {
	err := apperr.New(http.StatusBadRequest, CodeWeakPassword,
		fmt.Sprintf("Password must be at least %d characters", minLength))
	err.Details = []apperr.FieldError{{Field: FieldPassword, Message: fmt.Sprintf("Minimum %d characters", minLength)}}
	return err
}

// CheckPasswordPolicy enforces the character floor on a new password.
// Callers validate the byte ceiling alongside their other fields.
func CheckPasswordPolicy(password string, minLength int) error {
	if utf8.RuneCountInString(password) < minLength {
		return weakPassword(minLength)
	}
	return nil
}

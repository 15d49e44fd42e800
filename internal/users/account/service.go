// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account lets a signed-in identity read and maintain its own profile.

It owns no storage: every change goes through the [auth.CredentialStore], so
the credential store stays the only component that touches password hashes.

# Operations

  - Profile: the caller's public identity.
  - UpdateProfile: rename.
  - ChangePassword: re-verify the current password, then rehash.
*/
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taibuivan/liftlog/internal/platform/apperr"
	"github.com/taibuivan/liftlog/internal/platform/constants"
	"github.com/taibuivan/liftlog/internal/platform/sec"
	"github.com/taibuivan/liftlog/internal/platform/validate"
	"github.com/taibuivan/liftlog/internal/users/auth"
	"github.com/taibuivan/liftlog/pkg/pointer"
)

// Service orchestrates profile maintenance for the authenticated identity.
type Service struct {
	store             auth.CredentialStore
	hasher            auth.PasswordHasher
	minPasswordLength int
	logger            *slog.Logger
}

// NewService constructs a [Service]. A non-positive minPasswordLength keeps the default floor.
func NewService(store auth.CredentialStore, hasher auth.PasswordHasher, minPasswordLength int, logger *slog.Logger) *Service {
	if minPasswordLength <= 0 {
		minPasswordLength = constants.DefaultPasswordMinLength
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:             store,
		hasher:            hasher,
		minPasswordLength: minPasswordLength,
		logger:            logger,
	}
}

// # Profile Management

// Profile returns the caller's identity without its password hash.
func (service *Service) Profile(ctx context.Context, identityID string) (*auth.Identity, error) {
	identity, err := service.load(ctx, identityID)
	if err != nil {
		return nil, err
	}
	return identity.Public(), nil
}

// UpdateProfileInput is the mutable subset of the profile. Nil fields are left alone.
type UpdateProfileInput struct {
	Name *string
}

/*
UpdateProfile applies a partial change to the caller's profile.

Returns:
  - *auth.Identity: The updated public identity
  - error: ValidationError, USER_NOT_FOUND or wrapped storage failures
*/
func (service *Service) UpdateProfile(ctx context.Context, identityID string, input UpdateProfileInput) (*auth.Identity, error) {
	if input.Name != nil {
		validator := &validate.Validator{}
		validator.MaxLen(auth.FieldName, *input.Name, auth.MaxNameLength)
		if err := validator.Err(); err != nil {
			return nil, err
		}
	}

	identity, err := service.load(ctx, identityID)
	if err != nil {
		return nil, err
	}

	identity.Name = pointer.Or(input.Name, identity.Name)

	if err := service.save(ctx, identity); err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "identity_profile_updated", slog.String("identity_id", identityID))
	return identity.Public(), nil
}

// # Password Rotation

// ChangePasswordInput carries the current password as proof and its replacement.
type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

/*
ChangePassword replaces the caller's password hash.

Existing tokens stay valid until they expire; there is no revocation list.

Returns:
  - error: INVALID_CREDENTIALS when the current password is wrong,
    ValidationError or WEAK_PASSWORD for the new one, storage failures otherwise
*/
func (service *Service) ChangePassword(ctx context.Context, identityID string, input ChangePasswordInput) error {

	// ── 1. New password rules ─────────────────────────────────────────────
	validator := &validate.Validator{}
	validator.Required(FieldCurrentPassword, input.CurrentPassword).
		Custom(FieldNewPassword, len(input.NewPassword) > sec.MaxPasswordBytes,
			fmt.Sprintf("Maximum %d bytes", sec.MaxPasswordBytes))
	if err := validator.Err(); err != nil {
		return err
	}
	if err := auth.CheckPasswordPolicy(input.NewPassword, service.minPasswordLength); err != nil {
		return err
	}

	// ── 2. Proof of the current password ──────────────────────────────────
	identity, err := service.load(ctx, identityID)
	if err != nil {
		return err
	}

	matches, err := service.hasher.Verify(input.CurrentPassword, identity.PasswordHash)
	if err != nil {
		return apperr.Internal(fmt.Errorf("account_service_verify_failed: %w", err))
	}
	if !matches {
		return auth.ErrInvalidCredentials
	}

	// ── 3. Rehash and persist ─────────────────────────────────────────────
	identity.PasswordHash, err = service.hasher.Hash(input.NewPassword)
	if err != nil {
		return fmt.Errorf("account_service_hash_failed: %w", err)
	}

	if err := service.save(ctx, identity); err != nil {
		return err
	}

	service.logger.InfoContext(ctx, "identity_password_changed", slog.String("identity_id", identityID))
	return nil
}

// # Storage helpers

func (service *Service) load(ctx context.Context, identityID string) (*auth.Identity, error) {
	identity, err := service.store.FindByID(ctx, identityID)
	if err != nil {
		if errors.Is(err, auth.ErrIdentityNotFound) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("account_service_lookup_failed: %w", err)
	}
	return identity, nil
}

func (service *Service) save(ctx context.Context, identity *auth.Identity) error {
	if err := service.store.Update(ctx, identity); err != nil {
		if errors.Is(err, auth.ErrIdentityNotFound) {
			return auth.ErrUserNotFound
		}
		return fmt.Errorf("account_service_update_failed: %w", err)
	}
	return nil
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/taibuivan/liftlog/internal/platform/apperr"
	"github.com/taibuivan/liftlog/internal/platform/constants"
	"github.com/taibuivan/liftlog/internal/platform/sec"
	"github.com/taibuivan/liftlog/internal/platform/validate"
	"github.com/taibuivan/liftlog/pkg/uuid"
)

// # Contracts

// PasswordHasher is the one-way hashing contract, satisfied by [sec.Hasher].
type PasswordHasher interface {
	Hash(plainTextPassword string) (string, error)
	Verify(plainTextPassword, existingHash string) (bool, error)
}

// TokenIssuer signs and verifies bearer tokens, satisfied by [sec.TokenService].
type TokenIssuer interface {
	Issue(identityID string) (string, error)
	Verify(token string) (string, error)
}

// Service implements the identity use cases: signup, login and verify.
//
// # Review Process
//
// This service is the only place trust is established. Changes to hashing,
// credential comparison or token handling need a security review.
type Service struct {
	store             CredentialStore
	hasher            PasswordHasher
	tokens            TokenIssuer
	minPasswordLength int
	now               func() time.Time
	logger            *slog.Logger

	timingMu   sync.Mutex
	timingHash string
}

// Option customizes a [Service].
type Option func(*Service)

// WithMinPasswordLength overrides the signup password floor.
func WithMinPasswordLength(length int) Option {
	return func(service *Service) {
		if length > 0 {
			service.minPasswordLength = length
		}
	}
}

// WithLogger sets the logger used for lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(service *Service) { service.logger = logger }
}

// WithClock injects the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(service *Service) { service.now = now }
}

// NewService constructs a [Service] with its dependencies.
func NewService(store CredentialStore, hasher PasswordHasher, tokens TokenIssuer, opts ...Option) *Service {
	service := &Service{
		store:             store,
		hasher:            hasher,
		tokens:            tokens,
		minPasswordLength: constants.DefaultPasswordMinLength,
		now:               time.Now,
		logger:            slog.Default(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// MinPasswordLength reports the active signup password floor.
func (service *Service) MinPasswordLength() int { return service.minPasswordLength }

// # Registration Flow

// SignupInput holds the data required to register a new identity.
type SignupInput struct {
	Email    string
	Password string
	Name     string
}

/*
Signup validates, hashes and persists a brand new identity, then issues a token.

Parameters:
  - ctx: context.Context
  - input: SignupInput

Returns:
  - *AuthResult: The public identity and a fresh token
  - error: ValidationError, WEAK_PASSWORD, EMAIL_TAKEN or wrapped storage failures
*/
func (service *Service) Signup(ctx context.Context, input SignupInput) (*AuthResult, error) {

	// ── 1. Field validation ───────────────────────────────────────────────
	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		MaxLen(FieldEmail, input.Email, MaxEmailLength).
		Email(FieldEmail, input.Email).
		MaxLen(FieldName, input.Name, MaxNameLength).
		Custom(FieldPassword, len(input.Password) > sec.MaxPasswordBytes,
			fmt.Sprintf("Maximum %d bytes", sec.MaxPasswordBytes))

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// ── 2. Password policy ────────────────────────────────────────────────
	if err := CheckPasswordPolicy(input.Password, service.minPasswordLength); err != nil {
		return nil, err
	}

	// ── 3. Uniqueness ─────────────────────────────────────────────────────
	email := NormalizeEmail(input.Email)

	_, err := service.store.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case !errors.Is(err, ErrIdentityNotFound):
		return nil, fmt.Errorf("auth_service_signup_lookup_failed: %w", err)
	}

	// ── 4. Hash and persist ───────────────────────────────────────────────
	passwordHash, err := service.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	identity := &Identity{
		ID:           uuid.New(),
		Email:        email,
		Name:         input.Name,
		PasswordHash: passwordHash,
		CreatedAt:    epochMillis(service.now()),
	}

	if err := service.store.Insert(ctx, identity); err != nil {
		// A concurrent signup can win the race between lookup and insert.
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("auth_service_signup_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "identity_created", slog.String("identity_id", identity.ID))

	return service.issue(identity)
}

// # Authentication Flow

// LoginInput holds credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

/*
Login validates credentials and issues a token.

Every credential failure returns [ErrInvalidCredentials] itself, and an unknown
email still pays for one bcrypt comparison.

Returns:
  - *AuthResult: The public identity and a fresh token
  - error: ErrInvalidCredentials or wrapped internal failures
*/
func (service *Service) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	identity, err := service.store.FindByEmail(ctx, NormalizeEmail(input.Email))

	if err != nil {
		if !errors.Is(err, ErrIdentityNotFound) {
			return nil, fmt.Errorf("auth_service_login_lookup_failed: %w", err)
		}
		if err := service.burnComparison(input.Password); err != nil {
			return nil, err
		}
		return nil, ErrInvalidCredentials
	}

	matched, err := service.hasher.Verify(input.Password, identity.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("auth_service_login_verify_failed: %w", err)
	}
	if !matched {
		return nil, ErrInvalidCredentials
	}

	return service.issue(identity)
}

// burnComparison runs one comparison against a fixed hash so an unknown email
// costs as much as a wrong password.
func (service *Service) burnComparison(password string) error {
	reference, err := service.timingReference()
	if err != nil {
		return fmt.Errorf("auth_service_timing_hash_failed: %w", err)
	}

	if _, err := service.hasher.Verify(password, reference); err != nil {
		return fmt.Errorf("auth_service_login_verify_failed: %w", err)
	}
	return nil
}

// timingReference hashes timingPassword on first use. A failed attempt is
// retried on the next call instead of leaving the comparison disabled.
func (service *Service) timingReference() (string, error) {
	service.timingMu.Lock()
	defer service.timingMu.Unlock()

	if service.timingHash == "" {
		reference, err := service.hasher.Hash(timingPassword)
		if err != nil {
			return "", err
		}
		service.timingHash = reference
	}
	return service.timingHash, nil
}

// # Session Verification

/*
Verify resolves a bearer token to its identity.

The identity is re-read on every call, so a removed account stops verifying
immediately.

Returns:
  - *Identity: The public identity
  - error: INVALID_TOKEN (401), ErrUserNotFound (404) or wrapped storage failures
*/
func (service *Service) Verify(ctx context.Context, token string) (*Identity, error) {
	identityID, err := service.tokens.Verify(token)
	if err != nil {
		return nil, apperr.InvalidToken(err)
	}

	identity, err := service.store.FindByID(ctx, identityID)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("auth_service_verify_lookup_failed: %w", err)
	}

	return identity.Public(), nil
}

/*
ResolveIdentity is the request gate's view of a token: the identity id, but
only while that identity still exists. It satisfies [middleware.IdentityResolver].

Returns:
  - string: The identity id
  - error: INVALID_TOKEN (401) for a bad token or a removed identity,
    INTERNAL_ERROR when the store cannot be read
*/
func (service *Service) ResolveIdentity(ctx context.Context, token string) (string, error) {
	identityID, err := service.tokens.Verify(token)
	if err != nil {
		return "", apperr.InvalidToken(err)
	}

	if _, err := service.store.FindByID(ctx, identityID); err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			return "", apperr.InvalidToken(err)
		}
		return "", apperr.Internal(fmt.Errorf("auth_service_resolve_lookup_failed: %w", err))
	}

	return identityID, nil
}

// Ping reports whether the credential store is reachable.
func (service *Service) Ping(ctx context.Context) error {
	return service.store.Ping(ctx)
}

func (service *Service) issue(identity *Identity) (*AuthResult, error) {
	token, err := service.tokens.Issue(identity.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}
	return &AuthResult{User: identity.Public(), Token: token}, nil
}

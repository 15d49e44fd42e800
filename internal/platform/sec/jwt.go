// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides the cryptographic primitives behind LiftLog identities:
// bcrypt password hashing and HS256 bearer tokens.
//
// # Architecture
//
// Nothing in this package knows about users or storage. The signing secret is
// injected through [NewTokenService] and never leaves the [TokenService].
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/liftlog/internal/platform/constants"
)

var (
	// ErrInvalidToken covers malformed tokens, bad signatures and foreign issuers.
	ErrInvalidToken = errors.New("sec: invalid token")

	// ErrExpiredToken is returned for well-formed, correctly signed tokens past their expiry.
	ErrExpiredToken = errors.New("sec: token expired")

	// ErrWeakSecret is returned when the signing secret is shorter than [constants.MinSecretLength].
	ErrWeakSecret = errors.New("sec: signing secret too short")
)

// TokenService issues and verifies HS256 bearer tokens.
//
// Tokens are stateless: validity is signature plus expiry. Rotating the secret
// is the only way to invalidate tokens that were already issued.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption customizes a [TokenService].
type TokenOption func(*TokenService)

// WithClock replaces the time source used for issuing and validating tokens.
func WithClock(now func() time.Time) TokenOption {
	return func(service *TokenService) { service.now = now }
}

/*
NewTokenService creates a TokenService.

Parameters:
  - secret: HMAC key; at least constants.MinSecretLength bytes
  - issuer: value stamped into and required from the 'iss' claim
  - ttl: validity window; zero or negative selects constants.DefaultTokenTTL

Returns:
  - *TokenService
  - error: ErrWeakSecret when the secret is too short
*/
func NewTokenService(secret []byte, issuer string, ttl time.Duration, opts ...TokenOption) (*TokenService, error) {
	if len(secret) < constants.MinSecretLength {
		return nil, fmt.Errorf("%w: got %d bytes, need at least %d", ErrWeakSecret, len(secret), constants.MinSecretLength)
	}
	if ttl <= 0 {
		ttl = constants.DefaultTokenTTL
	}

	service := &TokenService{
		secret: append([]byte(nil), secret...),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service, nil
}

// TTL reports the validity window of issued tokens.
func (service *TokenService) TTL() time.Duration { return service.ttl }

// Issue creates a signed token whose subject is identityID.
func (service *TokenService) Issue(identityID string) (string, error) {
	if identityID == "" {
		return "", errors.New("sec: cannot issue a token without a subject")
	}

	issuedAt := service.now()
	claims := jwt.RegisteredClaims{
		Subject:   identityID,
		Issuer:    service.issuer,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(service.ttl)),
	}

	signedToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}
	return signedToken, nil
}

/*
Verify checks a token and returns the identity id it was issued for.

Returns:
  - string: the 'sub' claim
  - error: wraps ErrExpiredToken for expired tokens, ErrInvalidToken for anything else
*/
func (service *TokenService) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return service.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(service.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(service.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("%w: %v", ErrExpiredToken, err)
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}

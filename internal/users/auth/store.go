// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "context"

// # Credential Data Access

// CredentialStore is the durable collection of identities.
//
// Implementations must make Insert durable before returning and must never
// expose a half-written record.
type CredentialStore interface {

	/*
		FindByEmail returns the identity registered under a normalized email.

		Returns:
		  - *Identity: Hydrated entity, including the password hash
		  - error: ErrIdentityNotFound when absent, storage failures otherwise
	*/
	FindByEmail(ctx context.Context, normalizedEmail string) (*Identity, error)

	/*
		FindByID returns the identity with the given id.

		Returns:
		  - *Identity: Hydrated entity, including the password hash
		  - error: ErrIdentityNotFound when absent, storage failures otherwise
	*/
	FindByID(ctx context.Context, id string) (*Identity, error)

	/*
		Insert persists a brand-new identity.

		Returns:
		  - error: ErrDuplicateEmail if the email is taken, storage failures otherwise
	*/
	Insert(ctx context.Context, identity *Identity) error

	/*
		Update rewrites the mutable fields (name, password hash) of an identity.
		Email, id and creation time never change.

		Returns:
		  - error: ErrIdentityNotFound when absent, storage failures otherwise
	*/
	Update(ctx context.Context, identity *Identity) error

	// Ping reports whether the backing storage is reachable.
	Ping(ctx context.Context) error
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session is the client-side half of LiftLog authentication.

A [Manager] holds the current {user, token} pair in memory and in a durable
[Cache], restores it on start-up, and attaches the token to every protected
call made through it. The HTTP transport is [Client].

# States

	Unknown -> Optimistic -> Authenticated
	                      -> Unauthenticated
	Unknown -> Unauthenticated (nothing cached)

Optimistic means a cached session exists and is being re-verified with the
server; callers may already render with it.
*/
package session

import (
	"errors"
	"fmt"
	"net/http"
)

// State is the manager's view of whether the caller is signed in.
type State int

const (
	Unknown State = iota
	Optimistic
	Authenticated
	Unauthenticated
)

func (state State) String() string {
	switch state {
	case Optimistic:
		return "optimistic"
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// User is the public identity as the server returns it. It never carries a
// password hash.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"createdAt"`
}

// Session is what the manager keeps in memory and in the cache.
type Session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// ErrNotAuthenticated is returned by protected calls made while no token is
// held. Nothing is sent to the server.
var ErrNotAuthenticated = errors.New("session: not authenticated")

// APIError is a non-2xx answer decoded from the server's error envelope.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (err *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", err.Status, err.Code, err.Message)
}

// rejectsToken reports whether the server refused the credential itself, as
// opposed to being unreachable or failing internally.
func rejectsToken(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusNotFound
}

// Error codes the request gate answers with when it refuses a bearer token.
const (
	codeMissingToken = "MISSING_TOKEN"
	codeInvalidToken = "INVALID_TOKEN"
)

// gateRefused reports whether a protected call failed at the request gate.
// Other 401s, such as a wrong current password, leave the session alone.
func gateRefused(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		return false
	}
	return apiErr.Code == codeMissingToken || apiErr.Code == codeInvalidToken
}

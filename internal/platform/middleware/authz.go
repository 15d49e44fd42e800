// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/liftlog/internal/platform/apperr"
	"github.com/taibuivan/liftlog/internal/platform/constants"
	"github.com/taibuivan/liftlog/internal/platform/ctxutil"
	"github.com/taibuivan/liftlog/internal/platform/respond"
)

// IdentityResolver turns a bearer token into the id of an identity that still exists.
//
// The identity service satisfies it; tests inject stubs. An *apperr.AppError
// is rendered as is (for example a 500 when storage is down); any other error
// is treated as an invalid token.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, token string) (string, error)
}

var errMalformedHeader = errors.New("middleware: malformed authorization header")

/*
BearerToken extracts the token from an "Authorization: Bearer <token>" header.

Returns:
  - string: the raw token
  - error: apperr.MissingToken when the header is absent or blank,
    apperr.InvalidToken when it is present but not a single bearer credential
*/
func BearerToken(request *http.Request) (string, error) {
	header := strings.TrimSpace(request.Header.Get(constants.HeaderAuthorization))
	if header == "" {
		return "", apperr.MissingToken()
	}

	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], constants.BearerScheme) {
		return "", apperr.InvalidToken(errMalformedHeader)
	}
	return parts[1], nil
}

// Authorize is the gate in front of every route that touches per-user data.
//
// # Flow
//  1. Extract the bearer token; absent means MISSING_TOKEN (401).
//  2. Resolve it; malformed, forged or expired tokens and tokens naming a
//     removed identity mean INVALID_TOKEN (401).
//  3. Put the identity id in the request context and tag the request logger.
func Authorize(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Extraction ─────────────────────────────────────────────────
			token, err := BearerToken(request)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			// ── 2. Verification ───────────────────────────────────────────────
			identityID, err := resolver.ResolveIdentity(request.Context(), token)
			if err != nil {
				ctxutil.GetLogger(request.Context()).DebugContext(request.Context(), "token_rejected",
					slog.String("reason", err.Error()),
				)
				if !apperr.IsAppError(err) {
					err = apperr.InvalidToken(err)
				}
				respond.Error(writer, request, err)
				return
			}

			// ── 3. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithIdentityID(request.Context(), identityID)
			ctx = ctxutil.WithLogger(ctx, ctxutil.GetLogger(ctx).With(slog.String("identity_id", identityID)))

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

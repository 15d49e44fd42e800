// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It hides the router's parameter extraction and the body decoding rules so every
handler rejects oversized or malformed input the same way.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/liftlog/internal/platform/apperr"
	"github.com/taibuivan/liftlog/internal/platform/constants"
	"github.com/taibuivan/liftlog/internal/platform/ctxutil"
	"github.com/taibuivan/liftlog/internal/platform/validate"
)

/*
DecodeJSON reads at most constants.MaxRequestBodyBytes of the request body and
decodes it into target.

Parameters:
  - writer: http.ResponseWriter (needed to cap the body)
  - request: *http.Request
  - target: any (Pointer to the destination value)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target any) error {
	body := http.MaxBytesReader(writer, request.Body, constants.MaxRequestBodyBytes)
	if err := json.NewDecoder(body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
RequiredIdentityID returns the identity id resolved by the request authorizer.

Returns:
  - string: Identity UUID
  - error: apperr.MissingToken if the request never passed the authorizer
*/
func RequiredIdentityID(request *http.Request) (string, error) {
	identityID := ctxutil.GetIdentityID(request.Context())
	if identityID == "" {
		return "", apperr.MissingToken()
	}
	return identityID, nil
}

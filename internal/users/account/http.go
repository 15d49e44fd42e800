// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/liftlog/internal/platform/middleware"
	requestutil "github.com/taibuivan/liftlog/internal/platform/request"
	"github.com/taibuivan/liftlog/internal/platform/respond"
)

// JSON field names for the password change payload.
const (
	FieldCurrentPassword = "currentPassword"
	FieldNewPassword     = "newPassword"
)

// Handler implements the HTTP layer for profile maintenance.
type Handler struct {
	accountService *Service
	resolver       middleware.IdentityResolver
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service, resolver middleware.IdentityResolver) *Handler {
	return &Handler{accountService: service, resolver: resolver}
}

// Routes returns a [chi.Router] for the account endpoints. Every route requires a bearer token.
//
// # Endpoints
//   - GET   /me          : The caller's {user}.
//   - PATCH /me          : Partial profile update, returns {user}.
//   - PUT   /me/password : Password change.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.Authorize(handler.resolver))

	router.Get("/me", handler.getMe)
	router.Patch("/me", handler.updateMe)
	router.Put("/me/password", handler.changePassword)

	return router
}

type userResponse struct {
	User any `json:"user"`
}

/*
GET /api/account/me.

Response:
  - 200: {user}
  - 401: Authentication required
  - 404: Identity no longer exists
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	identityID, err := requestutil.RequiredIdentityID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	identity, err := handler.accountService.Profile(request.Context(), identityID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, userResponse{User: identity})
}

type updateMeRequest struct {
	Name *string `json:"name"`
}

/*
PATCH /api/account/me.

Response:
  - 200: {user}
  - 400: Validation failure
  - 401: Authentication required
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	identityID, err := requestutil.RequiredIdentityID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateMeRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	identity, err := handler.accountService.UpdateProfile(request.Context(), identityID, UpdateProfileInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, userResponse{User: identity})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

/*
PUT /api/account/me/password.

Response:
  - 200: {message}
  - 400: VALIDATION_ERROR or WEAK_PASSWORD
  - 401: INVALID_CREDENTIALS when the current password is wrong
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	identityID, err := requestutil.RequiredIdentityID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.ChangePassword(request.Context(), identityID, ChangePasswordInput(input)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "Password changed")
}

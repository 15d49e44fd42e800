// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/liftlog/internal/platform/middleware"
	requestutil "github.com/taibuivan/liftlog/internal/platform/request"
	"github.com/taibuivan/liftlog/internal/platform/respond"
)

// # Definitions & Constructors

// Handler implements the identity HTTP endpoints.
//
// It is a thin layer: decode, delegate to [Service], encode. Validation
// lives in the service so every caller gets the same rules.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler]. The service itself gates /logout.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with the identity routes.
//
// # Endpoints
//   - POST /signup : Registers an identity and returns {user, token}.
//   - POST /login  : Authenticates and returns {user, token}.
//   - POST /verify : Resolves the bearer token to {user}.
//   - POST /logout : Acknowledges a client-side logout.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/signup", handler.signup)
	router.Post("/login", handler.login)
	router.Post("/verify", handler.verify)

	router.Group(func(r chi.Router) {
		r.Use(middleware.Authorize(handler.authService))
		r.Post("/logout", handler.logout)
	})

	return router
}

// # Request Payloads

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

/*
Signup registers a new identity.

POST /api/auth/signup

Response:
  - 201: {user, token}
  - 400: VALIDATION_ERROR or WEAK_PASSWORD
  - 409: EMAIL_TAKEN
*/
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	var input signupRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.Signup(request.Context(), SignupInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, result)
}

/*
Login authenticates an identity.

POST /api/auth/login

Response:
  - 200: {user, token}
  - 401: INVALID_CREDENTIALS, identical for unknown email and wrong password
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.Login(request.Context(), LoginInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, result)
}

/*
Verify resolves the caller's token to their identity.

POST /api/auth/verify

Response:
  - 200: {user}
  - 401: MISSING_TOKEN or INVALID_TOKEN
  - 404: NOT_FOUND when the identity no longer exists
*/
func (handler *Handler) verify(writer http.ResponseWriter, request *http.Request) {
	token, err := middleware.BearerToken(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	identity, err := handler.authService.Verify(request.Context(), token)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, map[string]*Identity{FieldUser: identity})
}

/*
Logout acknowledges a logout. Tokens are stateless, so the client discards its
copy and nothing changes server-side.

POST /api/auth/logout
*/
func (handler *Handler) logout(writer http.ResponseWriter, _ *http.Request) {
	respond.Message(writer, "Logged out")
}

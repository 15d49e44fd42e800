// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kv

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/liftlog/internal/platform/apperr"
	"github.com/taibuivan/liftlog/internal/platform/constants"
	"github.com/taibuivan/liftlog/internal/platform/ctxutil"
	"github.com/taibuivan/liftlog/internal/platform/middleware"
	requestutil "github.com/taibuivan/liftlog/internal/platform/request"
	"github.com/taibuivan/liftlog/internal/platform/respond"
)

// # Definitions & Constructors

// Handler exposes the record store over REST. Every route sits behind the
// request authorizer, and the owner always comes from the verified token.
type Handler struct {
	store    *Store
	resolver middleware.IdentityResolver
}

// NewHandler constructs a new [Handler].
func NewHandler(store *Store, resolver middleware.IdentityResolver) *Handler {
	return &Handler{store: store, resolver: resolver}
}

// Routes returns the record routes, all gated.
//
// # Endpoints
//   - GET    /data/{key} : {data}
//   - PUT    /data/{key} : {data} in, {data} out
//   - DELETE /data/{key} : {message}
//   - GET    /keys       : {keys}
//   - GET    /export     : {data: {key: value}}
//   - POST   /import     : {data: {key: value}} in, {imported} out
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.Authorize(handler.resolver))

	router.Get("/data/{key}", handler.get)
	router.Put("/data/{key}", handler.set)
	router.Delete("/data/{key}", handler.delete)
	router.Get("/keys", handler.listKeys)
	router.Get("/export", handler.export)
	router.Post("/import", handler.importRecords)

	return router
}

// dataRequest keeps "data" raw so an explicit null is told apart from a
// missing field (nil).
type dataRequest struct {
	Data json.RawMessage `json:"data"`
}

var (
	errMissingData = apperr.ValidationError("Validation failed", apperr.FieldError{
		Field: constants.FieldData, Message: "This field is required",
	})
	errDataNotObject = apperr.ValidationError("Validation failed", apperr.FieldError{
		Field: constants.FieldData, Message: "Must be a JSON object",
	})
	errKeyNotFound = apperr.NotFound("Key")
)

/*
Get returns one record.

GET /api/data/{key}

Response:
  - 200: {data}
  - 404: NOT_FOUND
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredIdentityID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	value, found, err := handler.store.Get(request.Context(), ownerID, requestutil.Param(request, "key"))
	if err != nil {
		handler.fail(writer, request, err)
		return
	}
	if !found {
		respond.Error(writer, request, errKeyNotFound)
		return
	}

	respond.OK(writer, value)
}

/*
Set replaces one record.

PUT /api/data/{key}

Request:
  - Body: {"data": <any JSON, including null>}

Response:
  - 200: {data}
  - 400: VALIDATION_ERROR when data is missing, INVALID_KEY
*/
func (handler *Handler) set(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredIdentityID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input dataRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if input.Data == nil {
		respond.Error(writer, request, errMissingData)
		return
	}

	value, err := handler.store.Set(request.Context(), ownerID, requestutil.Param(request, "key"), input.Data)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	respond.OK(writer, value)
}

/*
Delete removes one record. Absent keys succeed.

DELETE /api/data/{key}
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredIdentityID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.store.Delete(request.Context(), ownerID, requestutil.Param(request, "key")); err != nil {
		handler.fail(writer, request, err)
		return
	}

	respond.Message(writer, "Deleted")
}

/*
ListKeys returns the caller's logical keys.

GET /api/keys
*/
func (handler *Handler) listKeys(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredIdentityID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	keys, err := handler.store.ListKeys(request.Context(), ownerID)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, map[string][]string{constants.FieldKeys: keys})
}

/*
Export returns every record of the caller.

GET /api/export
*/
func (handler *Handler) export(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredIdentityID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	records, err := handler.store.Export(request.Context(), ownerID)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	respond.OK(writer, records)
}

/*
ImportRecords writes a batch of records for the caller.

POST /api/import

Request:
  - Body: {"data": {"key": <any JSON>, ...}}

Response:
  - 200: {imported}
  - 400: VALIDATION_ERROR when data is not an object, INVALID_KEY
*/
func (handler *Handler) importRecords(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredIdentityID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input dataRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if input.Data == nil {
		respond.Error(writer, request, errMissingData)
		return
	}

	var records map[string]json.RawMessage
	if !bytes.HasPrefix(bytes.TrimSpace(input.Data), []byte("{")) || json.Unmarshal(input.Data, &records) != nil {
		respond.Error(writer, request, errDataNotObject)
		return
	}

	imported, err := handler.store.Import(request.Context(), ownerID, records)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	ctxutil.GetLogger(request.Context()).InfoContext(request.Context(), "records_imported",
		slog.Int("count", imported),
	)
	respond.JSON(writer, http.StatusOK, map[string]int{constants.FieldImported: imported})
}

// fail renders store errors. An owner that is not a UUID came from a token
// the store refuses to trust, so it is reported as an invalid token.
func (handler *Handler) fail(writer http.ResponseWriter, request *http.Request, err error) {
	if errors.Is(err, ErrInvalidOwner) {
		err = apperr.InvalidToken(err)
	}
	respond.Error(writer, request, err)
}

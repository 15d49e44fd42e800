// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/liftlog/internal/client/session"
)

// fakeAPI is a minimal stand-in for the LiftLog server.
type fakeAPI struct {
	mu         sync.Mutex
	validToken string
	verifyCode int
	records    map[string]json.RawMessage
	calls      atomic.Int32
}

func newFakeAPI(t *testing.T, validToken string) (*fakeAPI, *httptest.Server) {
	t.Helper()
	api := &fakeAPI{validToken: validToken, verifyCode: http.StatusOK, records: map[string]json.RawMessage{}}

	writeJSON := func(w http.ResponseWriter, status int, payload any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(payload)
	}
	authorized := func(w http.ResponseWriter, r *http.Request) bool {
		api.mu.Lock()
		expected := "Bearer " + api.validToken
		api.mu.Unlock()
		if r.Header.Get("Authorization") != expected {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token", "code": "INVALID_TOKEN"})
			return false
		}
		return true
	}
	user := map[string]any{"id": "0192a3b4-0000-7000-8000-000000000001", "email": "a@example.com", "name": "A", "createdAt": 1}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		api.calls.Add(1)
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "secret1" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials", "code": "INVALID_CREDENTIALS"})
			return
		}
		api.mu.Lock()
		token := api.validToken
		api.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"user": user, "token": token})
	})
	mux.HandleFunc("POST /api/auth/signup", func(w http.ResponseWriter, r *http.Request) {
		api.calls.Add(1)
		writeJSON(w, http.StatusCreated, map[string]any{"user": user, "token": api.validToken})
	})
	mux.HandleFunc("POST /api/auth/verify", func(w http.ResponseWriter, r *http.Request) {
		api.calls.Add(1)
		api.mu.Lock()
		code := api.verifyCode
		api.mu.Unlock()
		switch {
		case code == http.StatusNotFound:
			writeJSON(w, code, map[string]string{"error": "User not found", "code": "NOT_FOUND"})
		case code != http.StatusOK:
			writeJSON(w, code, map[string]string{"error": "An unexpected error occurred", "code": "INTERNAL_ERROR"})
		case authorized(w, r):
			writeJSON(w, http.StatusOK, map[string]any{"user": user})
		}
	})
	mux.HandleFunc("GET /api/data/{key}", func(w http.ResponseWriter, r *http.Request) {
		api.calls.Add(1)
		if !authorized(w, r) {
			return
		}
		api.mu.Lock()
		value, ok := api.records[r.PathValue("key")]
		api.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Key not found", "code": "NOT_FOUND"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]json.RawMessage{"data": value})
	})
	mux.HandleFunc("PUT /api/data/{key}", func(w http.ResponseWriter, r *http.Request) {
		api.calls.Add(1)
		if !authorized(w, r) {
			return
		}
		var body struct {
			Data json.RawMessage `json:"data"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		api.mu.Lock()
		api.records[r.PathValue("key")] = body.Data
		api.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]json.RawMessage{"data": body.Data})
	})
	mux.HandleFunc("GET /api/keys", func(w http.ResponseWriter, r *http.Request) {
		api.calls.Add(1)
		if !authorized(w, r) {
			return
		}
		api.mu.Lock()
		keys := make([]string, 0, len(api.records))
		for key := range api.records {
			keys = append(keys, key)
		}
		api.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string][]string{"keys": keys})
	})

	mux.HandleFunc("PATCH /api/account/me", func(w http.ResponseWriter, r *http.Request) {
		api.calls.Add(1)
		if !authorized(w, r) {
			return
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		renamed := map[string]any{"id": user["id"], "email": user["email"], "name": body["name"], "createdAt": 1}
		writeJSON(w, http.StatusOK, map[string]any{"user": renamed})
	})
	mux.HandleFunc("PUT /api/account/me/password", func(w http.ResponseWriter, r *http.Request) {
		api.calls.Add(1)
		if !authorized(w, r) {
			return
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["currentPassword"] != "secret1" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials", "code": "INVALID_CREDENTIALS"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Password changed"})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return api, server
}

func (api *fakeAPI) setVerifyCode(code int) {
	api.mu.Lock()
	defer api.mu.Unlock()
	api.verifyCode = code
}

func (api *fakeAPI) setValidToken(token string) {
	api.mu.Lock()
	defer api.mu.Unlock()
	api.validToken = token
}

func newManager(t *testing.T, serverURL string) (*session.Manager, *session.FileCache) {
	t.Helper()
	cache := session.NewFileCache(filepath.Join(t.TempDir(), "liftlog", "session.json"))
	return session.NewManager(session.NewClient(serverURL, nil), cache), cache
}

/*
TestRestore_NoCache settles immediately without a server call.
*/
func TestRestore_NoCache(t *testing.T) {
	api, server := newFakeAPI(t, "good")
	manager, _ := newManager(t, server.URL)
	assert.Equal(t, session.Unknown, manager.State())

	assert.Equal(t, session.Unauthenticated, <-manager.Restore(context.Background()))
	assert.Zero(t, api.calls.Load())
}

/*
TestRestore_ValidCache goes Optimistic then Authenticated.
*/
func TestRestore_ValidCache(t *testing.T) {
	_, server := newFakeAPI(t, "good")
	manager, cache := newManager(t, server.URL)
	require.NoError(t, cache.Save(&session.Session{Token: "good", User: session.User{Email: "stale@example.com"}}))

	var (
		mu     sync.Mutex
		states []session.State
	)
	manager.Subscribe(func(state session.State) {
		mu.Lock()
		defer mu.Unlock()
		states = append(states, state)
	})

	settled := manager.Restore(context.Background())
	assert.Equal(t, session.Authenticated, <-settled)

	_, open := <-settled
	assert.False(t, open)

	mu.Lock()
	assert.Equal(t, []session.State{session.Optimistic, session.Authenticated}, states)
	mu.Unlock()

	// The refreshed user is cached
	cached, err := cache.Load()
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", cached.User.Email)
}

/*
TestRestore_RejectedToken clears the cache on 401 and 404.
*/
func TestRestore_RejectedToken(t *testing.T) {
	for _, code := range []int{http.StatusOK, http.StatusNotFound} {
		api, server := newFakeAPI(t, "good")
		api.setVerifyCode(code)
		manager, cache := newManager(t, server.URL)

		// With 200 the token itself is wrong, so the fake answers 401
		require.NoError(t, cache.Save(&session.Session{Token: "expired"}))

		assert.Equal(t, session.Unauthenticated, <-manager.Restore(context.Background()))
		assert.Nil(t, manager.Current())

		cached, err := cache.Load()
		require.NoError(t, err)
		assert.Nil(t, cached)
	}
}

/*
TestRestore_ServerFailureKeepsCache settles unauthenticated but keeps the
cached token for the next start.
*/
func TestRestore_ServerFailureKeepsCache(t *testing.T) {
	api, server := newFakeAPI(t, "good")
	api.setVerifyCode(http.StatusInternalServerError)
	manager, cache := newManager(t, server.URL)
	require.NoError(t, cache.Save(&session.Session{Token: "good"}))

	assert.Equal(t, session.Unauthenticated, <-manager.Restore(context.Background()))

	cached, err := cache.Load()
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, "good", cached.Token)
}

/*
TestRestore_UnreachableKeepsCache covers a transport error.
*/
func TestRestore_UnreachableKeepsCache(t *testing.T) {
	_, server := newFakeAPI(t, "good")
	manager, cache := newManager(t, server.URL)
	require.NoError(t, cache.Save(&session.Session{Token: "good"}))
	server.Close()

	assert.Equal(t, session.Unauthenticated, <-manager.Restore(context.Background()))

	cached, err := cache.Load()
	require.NoError(t, err)
	assert.NotNil(t, cached)
}

/*
TestLoginLogout covers the explicit transitions and the cache.
*/
func TestLoginLogout(t *testing.T) {
	api, server := newFakeAPI(t, "good")
	manager, cache := newManager(t, server.URL)

	// 1. Bad credentials leave the manager alone
	_, err := manager.Login(context.Background(), "a@example.com", "wrong")
	var apiErr *session.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INVALID_CREDENTIALS", apiErr.Code)
	assert.Equal(t, session.Unknown, manager.State())

	// 2. Good credentials
	established, err := manager.Login(context.Background(), "a@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "good", established.Token)
	assert.Equal(t, session.Authenticated, manager.State())

	cached, err := cache.Load()
	require.NoError(t, err)
	assert.Equal(t, "good", cached.Token)

	// 3. Logout is local only
	before := api.calls.Load()
	require.NoError(t, manager.Logout())
	assert.Equal(t, before, api.calls.Load())
	assert.Equal(t, session.Unauthenticated, manager.State())

	cached, err = cache.Load()
	require.NoError(t, err)
	assert.Nil(t, cached)
}

/*
TestDo_WithoutToken verifies nothing is sent while signed out.
*/
func TestDo_WithoutToken(t *testing.T) {
	api, server := newFakeAPI(t, "good")
	manager, _ := newManager(t, server.URL)

	_, _, err := manager.GetData(context.Background(), "plans")
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)

	_, err = manager.ListKeys(context.Background())
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)

	assert.Zero(t, api.calls.Load())
}

/*
TestDataHelpers round-trips a record through the fake API.
*/
func TestDataHelpers(t *testing.T) {
	_, server := newFakeAPI(t, "good")
	manager, _ := newManager(t, server.URL)
	ctx := context.Background()

	_, err := manager.Signup(ctx, "a@example.com", "secret1", "A")
	require.NoError(t, err)

	_, found, err := manager.GetData(ctx, "workout-plans")
	require.NoError(t, err)
	assert.False(t, found)

	written, err := manager.SetData(ctx, "workout-plans", json.RawMessage(`[1,2]`))
	require.NoError(t, err)
	assert.JSONEq(t, `[1,2]`, string(written))

	value, found, err := manager.GetData(ctx, "workout-plans")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `[1,2]`, string(value))

	keys, err := manager.ListKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"workout-plans"}, keys)
}

/*
TestDo_RejectedTokenDropsSession verifies a 401 on a data call signs out,
as happens after the server rotates its secret.
*/
func TestDo_RejectedTokenDropsSession(t *testing.T) {
	api, server := newFakeAPI(t, "good")
	manager, cache := newManager(t, server.URL)
	ctx := context.Background()

	_, err := manager.Login(ctx, "a@example.com", "secret1")
	require.NoError(t, err)

	api.setValidToken("rotated")

	_, err = manager.ListKeys(ctx)
	var apiErr *session.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	assert.Equal(t, session.Unauthenticated, manager.State())
	cached, err := cache.Load()
	require.NoError(t, err)
	assert.Nil(t, cached)

	_, err = manager.ListKeys(ctx)
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)
}

/*
TestAccountHelpers verifies a rename is reflected in memory and in the cache.
*/
func TestAccountHelpers(t *testing.T) {
	_, server := newFakeAPI(t, "tok-1")
	cache := session.NewFileCache(filepath.Join(t.TempDir(), "session.json"))
	manager := session.NewManager(session.NewClient(server.URL, nil), cache)
	ctx := context.Background()

	_, err := manager.Login(ctx, "a@example.com", "secret1")
	require.NoError(t, err)

	user, err := manager.Rename(ctx, "Lifter")
	require.NoError(t, err)
	assert.Equal(t, "Lifter", user.Name)
	assert.Equal(t, "Lifter", manager.Current().User.Name)

	cached, err := cache.Load()
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, "Lifter", cached.User.Name)
	assert.Equal(t, "tok-1", cached.Token)

	require.NoError(t, manager.ChangePassword(ctx, "secret1", "secret2"))
	assert.Equal(t, session.Authenticated, manager.State())
}

/*
TestChangePassword_WrongCurrentKeepsSession verifies that a credential
rejection on a protected route does not sign the user out.
*/
func TestChangePassword_WrongCurrentKeepsSession(t *testing.T) {
	_, server := newFakeAPI(t, "tok-1")
	manager, cache := newManager(t, server.URL)
	ctx := context.Background()

	_, err := manager.Login(ctx, "a@example.com", "secret1")
	require.NoError(t, err)

	err = manager.ChangePassword(ctx, "wrong", "secret2")
	var apiErr *session.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "INVALID_CREDENTIALS", apiErr.Code)

	assert.Equal(t, session.Authenticated, manager.State())
	require.NotNil(t, manager.Current())
	assert.Equal(t, "tok-1", manager.Current().Token)

	cached, err := cache.Load()
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, "tok-1", cached.Token)
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
)

// Manager owns the client session and every authenticated call.
//
// # Concurrency
//
// All methods are safe for concurrent use. Observers run outside the lock,
// in the goroutine that caused the transition.
type Manager struct {
	client *Client
	cache  Cache
	logger *slog.Logger

	mu         sync.Mutex
	state      State
	current    *Session
	generation uint64
	observers  map[int]func(State)
	nextID     int
}

// ManagerOption customizes a [Manager].
type ManagerOption func(*Manager)

// WithLogger sets the logger for cache and verification events.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(manager *Manager) { manager.logger = logger }
}

// NewManager starts in [Unknown]; call [Manager.Restore] to load the cache.
func NewManager(client *Client, cache Cache, opts ...ManagerOption) *Manager {
	manager := &Manager{
		client:    client,
		cache:     cache,
		logger:    slog.Default(),
		state:     Unknown,
		observers: make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(manager)
	}
	return manager
}

// # Observation

// State returns the current state.
func (manager *Manager) State() State {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	return manager.state
}

// Current returns a copy of the held session, or nil.
func (manager *Manager) Current() *Session {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	if manager.current == nil {
		return nil
	}
	clone := *manager.current
	return &clone
}

// Subscribe registers fn for every state transition and returns a function
// that removes it.
func (manager *Manager) Subscribe(fn func(State)) (unsubscribe func()) {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	id := manager.nextID
	manager.nextID++
	manager.observers[id] = fn

	return func() {
		manager.mu.Lock()
		defer manager.mu.Unlock()
		delete(manager.observers, id)
	}
}

// # Lifecycle

/*
Restore loads the cached session and re-verifies it in the background.

The returned channel receives the settled state exactly once and is then
closed. With a cached session the manager is [Optimistic] until the server
answers. A 401 or 404 clears the cache; an unreachable server leaves it in
place for the next start but still settles as [Unauthenticated].
*/
func (manager *Manager) Restore(ctx context.Context) <-chan State {
	settled := make(chan State, 1)

	cached, err := manager.cache.Load()
	if err != nil {
		manager.logger.Warn("session_cache_unreadable", slog.Any("error", err))
		manager.clearCache()
		cached = nil
	}

	if cached == nil {
		manager.apply(nil, Unauthenticated)
		settled <- Unauthenticated
		close(settled)
		return settled
	}

	generation := manager.apply(cached, Optimistic)

	go func() {
		defer close(settled)
		settled <- manager.verify(ctx, cached, generation)
	}()
	return settled
}

func (manager *Manager) verify(ctx context.Context, cached *Session, generation uint64) State {
	user, err := manager.client.Verify(ctx, cached.Token)

	switch {
	case err == nil:
		refreshed := &Session{User: *user, Token: cached.Token}
		if manager.applyIf(generation, refreshed, Authenticated) {
			manager.saveCache(refreshed)
		}
	case rejectsToken(err):
		manager.logger.Info("session_rejected", slog.Any("error", err))
		if manager.applyIf(generation, nil, Unauthenticated) {
			manager.clearCache()
		}
	default:
		manager.logger.Warn("session_verify_unreachable", slog.Any("error", err))
		manager.applyIf(generation, nil, Unauthenticated)
	}
	return manager.State()
}

// Signup registers, then holds and caches the new session.
func (manager *Manager) Signup(ctx context.Context, email, password, name string) (*Session, error) {
	created, err := manager.client.Signup(ctx, email, password, name)
	if err != nil {
		return nil, err
	}
	manager.establish(created)
	return created, nil
}

// Login authenticates, then holds and caches the session.
func (manager *Manager) Login(ctx context.Context, email, password string) (*Session, error) {
	established, err := manager.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	manager.establish(established)
	return established, nil
}

// Logout discards the session locally. Tokens are stateless, so the server
// is not contacted.
func (manager *Manager) Logout() error {
	manager.apply(nil, Unauthenticated)
	return manager.cache.Clear()
}

func (manager *Manager) establish(established *Session) {
	manager.apply(established, Authenticated)
	manager.saveCache(established)
}

// # Authenticated Calls

/*
Do sends a protected request with the held token.

With no token it returns ErrNotAuthenticated and sends nothing. A 401
MISSING_TOKEN or INVALID_TOKEN means the token is no longer accepted, so the
session is dropped. Any other error leaves the session in place.
*/
func (manager *Manager) Do(ctx context.Context, method, path string, body, out any) error {
	manager.mu.Lock()
	var token string
	generation := manager.generation
	if manager.current != nil {
		token = manager.current.Token
	}
	manager.mu.Unlock()

	if token == "" {
		return ErrNotAuthenticated
	}

	err := manager.client.Call(ctx, method, path, token, body, out)

	if gateRefused(err) {
		if manager.applyIf(generation, nil, Unauthenticated) {
			manager.clearCache()
		}
	}
	return err
}

// GetData reads one record; found is false on 404.
func (manager *Manager) GetData(ctx context.Context, key string) (json.RawMessage, bool, error) {
	var result struct {
		Data json.RawMessage `json:"data"`
	}
	err := manager.Do(ctx, http.MethodGet, dataPath(key), nil, &result)

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return result.Data, true, nil
}

// SetData writes one record and returns the stored value.
func (manager *Manager) SetData(ctx context.Context, key string, value json.RawMessage) (json.RawMessage, error) {
	var result struct {
		Data json.RawMessage `json:"data"`
	}
	body := struct {
		Data json.RawMessage `json:"data"`
	}{Data: value}

	if err := manager.Do(ctx, http.MethodPut, dataPath(key), body, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// DeleteData removes one record.
func (manager *Manager) DeleteData(ctx context.Context, key string) error {
	return manager.Do(ctx, http.MethodDelete, dataPath(key), nil, nil)
}

// ListKeys returns the caller's logical keys.
func (manager *Manager) ListKeys(ctx context.Context) ([]string, error) {
	var result struct {
		Keys []string `json:"keys"`
	}
	if err := manager.Do(ctx, http.MethodGet, "/keys", nil, &result); err != nil {
		return nil, err
	}
	return result.Keys, nil
}

// Export returns every record of the caller.
func (manager *Manager) Export(ctx context.Context) (map[string]json.RawMessage, error) {
	var result struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	if err := manager.Do(ctx, http.MethodGet, "/export", nil, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// Import writes a batch of records and returns how many were stored.
func (manager *Manager) Import(ctx context.Context, records map[string]json.RawMessage) (int, error) {
	var result struct {
		Imported int `json:"imported"`
	}
	body := map[string]map[string]json.RawMessage{"data": records}
	if err := manager.Do(ctx, http.MethodPost, "/import", body, &result); err != nil {
		return 0, err
	}
	return result.Imported, nil
}

// # Account

// Rename changes the display name and refreshes the cached session.
func (manager *Manager) Rename(ctx context.Context, name string) (*User, error) {
	var result struct {
		User User `json:"user"`
	}
	if err := manager.Do(ctx, http.MethodPatch, "/account/me", map[string]string{"name": name}, &result); err != nil {
		return nil, err
	}

	manager.mu.Lock()
	var refreshed *Session
	if manager.current != nil && manager.current.User.ID == result.User.ID {
		refreshed = &Session{User: result.User, Token: manager.current.Token}
		manager.current = refreshed
	}
	manager.mu.Unlock()

	if refreshed != nil {
		manager.saveCache(refreshed)
	}
	return &result.User, nil
}

// ChangePassword rotates the password. The held token stays valid.
func (manager *Manager) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	body := map[string]string{"currentPassword": currentPassword, "newPassword": newPassword}
	return manager.Do(ctx, http.MethodPut, "/account/me/password", body, nil)
}

func dataPath(key string) string {
	return "/data/" + url.PathEscape(key)
}

// # State Transitions

// apply replaces the session unconditionally and returns the new generation.
func (manager *Manager) apply(next *Session, state State) uint64 {
	manager.mu.Lock()
	manager.generation++
	generation := manager.generation
	observers := manager.transition(next, state)
	manager.mu.Unlock()

	notify(observers, state)
	return generation
}

// applyIf replaces the session only if nothing else changed it since
// generation was taken. A late verification must not undo a newer login.
func (manager *Manager) applyIf(generation uint64, next *Session, state State) bool {
	manager.mu.Lock()
	if manager.generation != generation {
		manager.mu.Unlock()
		return false
	}
	manager.generation++
	observers := manager.transition(next, state)
	manager.mu.Unlock()

	notify(observers, state)
	return true
}

// transition must be called with mu held. It returns the observers to notify.
func (manager *Manager) transition(next *Session, state State) []func(State) {
	manager.current = next
	if manager.state == state {
		return nil
	}
	manager.state = state

	observers := make([]func(State), 0, len(manager.observers))
	for _, fn := range manager.observers {
		observers = append(observers, fn)
	}
	return observers
}

func notify(observers []func(State), state State) {
	for _, fn := range observers {
		fn(state)
	}
}

func (manager *Manager) saveCache(current *Session) {
	if err := manager.cache.Save(current); err != nil {
		manager.logger.Warn("session_cache_save_failed", slog.Any("error", err))
	}
}

func (manager *Manager) clearCache() {
	if err := manager.cache.Clear(); err != nil {
		manager.logger.Warn("session_cache_clear_failed", slog.Any("error", err))
	}
}

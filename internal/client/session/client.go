// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 15 * time.Second

// Client is a thin JSON-over-HTTP client for the LiftLog API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient targets baseURL (scheme and host, no /api suffix). A nil
// httpClient gets a default with a 15s timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// Signup registers an identity.
func (client *Client) Signup(ctx context.Context, email, password, name string) (*Session, error) {
	var result Session
	body := map[string]string{"email": email, "password": password, "name": name}
	if err := client.Call(ctx, http.MethodPost, "/auth/signup", "", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Login authenticates an identity.
func (client *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var result Session
	body := map[string]string{"email": email, "password": password}
	if err := client.Call(ctx, http.MethodPost, "/auth/login", "", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Verify resolves token to its current user.
func (client *Client) Verify(ctx context.Context, token string) (*User, error) {
	var result struct {
		User User `json:"user"`
	}
	if err := client.Call(ctx, http.MethodPost, "/auth/verify", token, nil, &result); err != nil {
		return nil, err
	}
	return &result.User, nil
}

/*
Call sends one request under /api and decodes the answer.

Parameters:
  - path: route below /api, e.g. "/keys"
  - token: bearer token, or "" for public routes
  - body: JSON-encoded when non-nil
  - out: decoded from a 2xx body when non-nil

Returns:
  - error: *APIError for non-2xx answers, transport or decode errors otherwise
*/
func (client *Client) Call(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("session: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	request, err := http.NewRequestWithContext(ctx, method, client.baseURL+"/api"+path, reader)
	if err != nil {
		return fmt.Errorf("session: build request: %w", err)
	}
	request.Header.Set("Accept", "application/json")
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("session: %s %s: %w", method, path, err)
	}
	defer response.Body.Close()

	if response.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(response)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, response.Body)
		return nil
	}
	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return fmt.Errorf("session: decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeAPIError(response *http.Response) error {
	apiErr := &APIError{Status: response.StatusCode}
	if err := json.NewDecoder(io.LimitReader(response.Body, 64<<10)).Decode(apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = http.StatusText(response.StatusCode)
	}
	return apiErr
}

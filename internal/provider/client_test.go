// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package provider implements the HTTP client for the hosted completion API.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newTestServer returns a server that replies with the given handler and a
// client pointed at it.
func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(&ClientConfig{
		BaseURL:           srv.URL,
		APIKey:            "test-key",
		Model:             "llama3-8b-8192",
		RequestsPerMinute: 0, // no limiter in tests
	})
	return srv, client
}

func TestClient_Complete(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}

		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Stream {
			t.Error("client should not request streaming")
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Errorf("request should carry exactly one user message, got %+v", req.Messages)
		}

		resp := ChatResponse{
			Choices: []ChatChoice{
				{Message: ChatMessage{Role: "assistant", Content: "Hi there!"}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	})

	got, err := client.Complete(context.Background(), "Hello")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "Hi there!" {
		t.Errorf("Complete() = %q, want %q", got, "Hi there!")
	}
}

func TestClient_Complete_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"unauthorized", http.StatusUnauthorized, `{}`, ErrAuthFailed},
		{"forbidden", http.StatusForbidden, `{}`, ErrAuthFailed},
		{"rate limited", http.StatusTooManyRequests, `{}`, ErrRateLimited},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			})

			_, err := client.Complete(context.Background(), "Hello")
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Complete() error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestClient_Complete_NoChoices(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ChatResponse{})
	})

	_, err := client.Complete(context.Background(), "Hello")
	if err == nil {
		t.Fatal("Complete() should fail when the provider returns no choices")
	}
	var cerr *ClientError
	if !errors.As(err, &cerr) || cerr.Type != ErrTypeInvalidResponse {
		t.Errorf("error = %v, want invalid-response ClientError", err)
	}
}

func TestClient_Complete_NoAPIKey(t *testing.T) {
	client := NewClient(&ClientConfig{BaseURL: "http://127.0.0.1:0"})

	_, err := client.Complete(context.Background(), "Hello")
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Complete() error = %v, want ErrNotConfigured", err)
	}
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient(nil)
	if client.Model() != "llama3-8b-8192" {
		t.Errorf("default model = %q", client.Model())
	}
	if client.config.BaseURL == "" || client.config.Timeout == 0 {
		t.Error("defaults should be filled in")
	}
}

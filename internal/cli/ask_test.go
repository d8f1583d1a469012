// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/holachat/holachat/internal/provider"
)

func fakeProvider(t *testing.T, reply string) *provider.Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": reply}},
			},
		})
	}))
	t.Cleanup(server.Close)

	return provider.NewClient(&provider.ClientConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
	})
}

func TestAskWritesReply(t *testing.T) {
	client := fakeProvider(t, "The answer is **42**.")

	var buf bytes.Buffer
	if err := Ask(context.Background(), client, "meaning of life?", &buf); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	// Test output is not a terminal, so the reply goes out unrendered.
	if !strings.Contains(buf.String(), "The answer is **42**.") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestAskRejectsEmptyPrompt(t *testing.T) {
	client := fakeProvider(t, "unused")

	var buf bytes.Buffer
	if err := Ask(context.Background(), client, "   ", &buf); err == nil {
		t.Error("empty prompt should be rejected")
	}
}

func TestAskSurfacesProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"nope"}}`, http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)
	client := provider.NewClient(&provider.ClientConfig{BaseURL: server.URL, APIKey: "bad"})

	var buf bytes.Buffer
	err := Ask(context.Background(), client, "hello", &buf)
	if err == nil {
		t.Fatal("provider failure should surface as an error")
	}
}

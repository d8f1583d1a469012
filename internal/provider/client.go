// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package provider implements the HTTP client for the hosted completion API.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeNotConfigured
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeAuth
	ErrTypeRateLimited
	ErrTypeInvalidResponse
)

// ClientError represents an error from the completion API client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is matches client errors by type so callers can use errors.Is with the
// sentinel values below.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// Sentinel errors for easy checking.
var (
	ErrNotConfigured = &ClientError{Type: ErrTypeNotConfigured, Message: "API key not configured"}
	ErrTimeout       = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrAuthFailed    = &ClientError{Type: ErrTypeAuth, Message: "authentication failed"}
	ErrRateLimited   = &ClientError{Type: ErrTypeRateLimited, Message: "rate limited by provider"}
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// MaxResponseSize is the maximum allowed response body size.
const MaxResponseSize = 10 * 1024 * 1024 // 10MB limit

// ClientConfig holds configuration options for the completion client.
type ClientConfig struct {
	// BaseURL is the API base URL (default: https://api.groq.com/openai/v1)
	BaseURL string

	// APIKey is the bearer token for the hosted API.
	APIKey string

	// Model is the model identifier sent with every request
	// (default: "llama3-8b-8192").
	Model string

	// Timeout for requests (default: 60s).
	Timeout time.Duration

	// RequestsPerMinute caps outgoing requests (default: 30, 0 = unlimited).
	RequestsPerMinute int
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:           "https://api.groq.com/openai/v1",
		Model:             "llama3-8b-8192",
		Timeout:           60 * time.Second,
		RequestsPerMinute: 30,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the hosted completion API.
// It is safe for concurrent use.
type Client struct {
	mu         sync.RWMutex
	config     *ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a completion client with the given configuration.
// Zero values in the config are filled with defaults.
func NewClient(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://api.groq.com/openai/v1"
	}
	if config.Model == "" {
		config.Model = "llama3-8b-8192"
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}

	var limiter *rate.Limiter
	if config.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(config.RequestsPerMinute)/60.0), 1)
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
			Timeout: config.Timeout,
		},
		limiter: limiter,
	}
}

// Model returns the model identifier the client sends with requests.
func (c *Client) Model() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config.Model
}

// UpdateConfig swaps in new settings, typically after a config file reload.
// In-flight requests finish with the settings they started with.
func (c *Client) UpdateConfig(config *ClientConfig) {
	fresh := NewClient(config)
	c.mu.Lock()
	c.config = fresh.config
	c.httpClient = fresh.httpClient
	c.limiter = fresh.limiter
	c.mu.Unlock()
}

// snapshot returns the current settings for one request.
func (c *Client) snapshot() (*ClientConfig, *http.Client, *rate.Limiter) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config, c.httpClient, c.limiter
}

// =============================================================================
// COMPLETION
// =============================================================================

// Complete sends a single prompt and returns the assistant's completion text.
// The prompt is sent as one user message; no conversation history travels with
// the request.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	config, httpClient, limiter := c.snapshot()

	if config.APIKey == "" {
		return "", ErrNotConfigured
	}

	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return "", &ClientError{Type: ErrTypeTimeout, Message: "rate limiter wait cancelled", Cause: err}
		}
	}

	reqBody := ChatRequest{
		Model: config.Model,
		Messages: []ChatMessage{
			{Role: "user", Content: prompt},
		},
		Stream: false,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	url := strings.TrimRight(config.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+config.APIKey)

	resp, err := httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrTimeout
		}
		return "", &ClientError{Type: ErrTypeConnection, Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	limited := io.LimitReader(resp.Body, MaxResponseSize)

	switch resp.StatusCode {
	case http.StatusOK:
		// Fall through to decoding below.
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", ErrAuthFailed
	case http.StatusTooManyRequests:
		return "", ErrRateLimited
	default:
		return "", &ClientError{
			Type:    ErrTypeInvalidResponse,
			Message: "unexpected status from provider: " + resp.Status + apiErrorDetail(limited),
		}
	}

	var result ChatResponse
	if err := json.NewDecoder(limited).Decode(&result); err != nil {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	if len(result.Choices) == 0 {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "provider returned no choices"}
	}

	return result.Choices[0].Message.Content, nil
}

// apiErrorDetail decodes the API error envelope for status-line context.
// Returns an empty string when the body carries no usable message.
func apiErrorDetail(r io.Reader) string {
	var apiErr APIError
	if err := json.NewDecoder(r).Decode(&apiErr); err != nil {
		return ""
	}
	if apiErr.Error.Message == "" {
		return ""
	}
	return " (" + apiErr.Error.Message + ")"
}

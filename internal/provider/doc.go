// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package provider implements the HTTP client for the hosted completion API.
//
// The client wraps a single request/response call against an OpenAI-compatible
// chat-completions endpoint: send one prompt, receive one completion. There is
// no streaming, no token-level callback, and no retry; any transport or
// API-level failure surfaces as a ClientError the caller turns into an inline
// error message.
package provider

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store provides the authoritative persistence layer for sessions
// and messages.
package store

import (
	"context"
	"time"
)

// =============================================================================
// RECORD TYPES
// =============================================================================

// SessionRecord is a persisted session row. Timestamps are assigned by the
// store on insert.
type SessionRecord struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MessageRecord is a persisted message row. The ID and CreatedAt are assigned
// by the store on insert.
type MessageRecord struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// =============================================================================
// STORE INTERFACE
// =============================================================================

// SessionStore is the authoritative persistence layer for chat sessions and
// messages. The synchronizer is its only writer; implementations must be safe
// for concurrent use.
type SessionStore interface {
	// ListSessions returns the owner's sessions ordered by UpdatedAt
	// descending (most recently updated first).
	ListSessions(ctx context.Context, owner string) ([]SessionRecord, error)

	// InsertSession creates a session for the owner and returns the stored
	// record with its generated ID and timestamps.
	InsertSession(ctx context.Context, owner, title string) (SessionRecord, error)

	// UpdateSessionTitle replaces the session title.
	UpdateSessionTitle(ctx context.Context, id, title string) error

	// DeleteSession removes the session and all of its messages.
	DeleteSession(ctx context.Context, id string) error

	// InsertMessage appends a message to a session and returns the stored
	// record with its generated ID and timestamp.
	InsertMessage(ctx context.Context, sessionID, role, content string) (MessageRecord, error)

	// ListMessages returns every message belonging to any of the given
	// sessions in one batch, ordered by CreatedAt ascending.
	ListMessages(ctx context.Context, sessionIDs []string) ([]MessageRecord, error)

	// Close releases the underlying resources.
	Close() error
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrSessionNotFound is returned when a session doesn't exist.
// Use errors.Is(err, ErrSessionNotFound) to check for this error.
var ErrSessionNotFound = &StoreError{Message: "session not found"}

// StoreError represents a persistence-related error.
type StoreError struct {
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *StoreError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is support for comparing store errors.
func (e *StoreError) Is(target error) bool {
	t, ok := target.(*StoreError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

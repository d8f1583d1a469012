// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
package model

import (
	"strings"
	"time"
)

// TitleMaxLen is the number of characters of the first user message used to
// derive a session title. Longer messages are truncated and marked with an
// ellipsis.
const TitleMaxLen = 30

// DefaultTitle is the placeholder title for a session with no messages yet.
const DefaultTitle = "New Chat"

// =============================================================================
// CHAT SESSION TYPE
// =============================================================================

// ChatSession holds one conversation thread: an append-only, chronological
// list of messages plus derived metadata. A session is owned by exactly one
// identity.
type ChatSession struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Messages  []*Message `json:"messages"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewChatSession creates an empty session with the placeholder title.
// The ID is assigned by the authoritative store on insert.
func NewChatSession() *ChatSession {
	now := time.Now()
	return &ChatSession{
		Title:     DefaultTitle,
		Messages:  make([]*Message, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage appends a message and bumps UpdatedAt to the current time.
// The in-memory timestamp is independent of server-side timestamps.
func (s *ChatSession) AddMessage(msg *Message) {
	s.Messages = append(s.Messages, msg)
	s.UpdatedAt = time.Now()
}

// MessageCount returns the number of messages.
func (s *ChatSession) MessageCount() int {
	return len(s.Messages)
}

// IsEmpty returns true if the session has no messages.
func (s *ChatSession) IsEmpty() bool {
	return len(s.Messages) == 0
}

// LastMessage returns the most recent message, or nil if empty.
func (s *ChatSession) LastMessage() *Message {
	if len(s.Messages) == 0 {
		return nil
	}
	return s.Messages[len(s.Messages)-1]
}

// =============================================================================
// TITLE DERIVATION
// =============================================================================

// DeriveTitle builds a session title from the first user message: the first
// TitleMaxLen characters of the content, with "..." appended when truncated.
// Rune-based so multi-byte content truncates cleanly.
func DeriveTitle(content string) string {
	runes := []rune(content)
	if len(runes) <= TitleMaxLen {
		return content
	}
	return string(runes[:TitleMaxLen]) + "..."
}

// TitleOrDefault returns the session title, falling back to the placeholder.
func (s *ChatSession) TitleOrDefault() string {
	if s.Title != "" {
		return s.Title
	}
	return DefaultTitle
}

// =============================================================================
// SEARCH
// =============================================================================

// Matches reports whether the query matches the session title or any message
// content, ignoring case. An empty query matches every session.
func (s *ChatSession) Matches(query string) bool {
	if query == "" {
		return true
	}
	query = strings.ToLower(query)
	if strings.Contains(strings.ToLower(s.Title), query) {
		return true
	}
	for _, msg := range s.Messages {
		if strings.Contains(strings.ToLower(msg.Content), query) {
			return true
		}
	}
	return false
}

// =============================================================================
// COPY HELPERS
// =============================================================================

// Clone creates a deep copy of the session. The synchronizer hands clones to
// the presentation layer so readers never alias the writer's slices.
func (s *ChatSession) Clone() *ChatSession {
	clone := &ChatSession{
		ID:        s.ID,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Messages:  make([]*Message, len(s.Messages)),
	}
	for i, msg := range s.Messages {
		msgCopy := *msg
		clone.Messages[i] = &msgCopy
	}
	return clone
}

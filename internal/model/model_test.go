// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
package model

import (
	"strings"
	"testing"
)

// =============================================================================
// TITLE DERIVATION TESTS
// =============================================================================

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "truncated with ellipsis",
			content: "Explain quicksort in detail please", // 34 chars
			want:    "Explain quicksort in detail pl...",
		},
		{
			name:    "exactly thirty characters unchanged",
			content: strings.Repeat("a", 30),
			want:    strings.Repeat("a", 30),
		},
		{
			name:    "short content unchanged",
			content: "Hello",
			want:    "Hello",
		},
		{
			name:    "empty content",
			content: "",
			want:    "",
		},
		{
			name:    "multi-byte runes truncate cleanly",
			content: strings.Repeat("ñ", 35),
			want:    strings.Repeat("ñ", 30) + "...",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := DeriveTitle(tc.content)
			if got != tc.want {
				t.Errorf("DeriveTitle(%q) = %q, want %q", tc.content, got, tc.want)
			}
		})
	}
}

func TestDeriveTitle_Length(t *testing.T) {
	// A 35-char message yields exactly TitleMaxLen chars plus the marker.
	content := strings.Repeat("x", 35)
	got := DeriveTitle(content)

	if want := strings.Repeat("x", TitleMaxLen) + "..."; got != want {
		t.Errorf("DeriveTitle() = %q, want %q", got, want)
	}
	if n := len([]rune(got)); n != TitleMaxLen+3 {
		t.Errorf("derived title is %d runes, want %d", n, TitleMaxLen+3)
	}
}

// =============================================================================
// SESSION TESTS
// =============================================================================

func TestChatSession_AddMessage(t *testing.T) {
	s := NewChatSession()
	before := s.UpdatedAt

	s.AddMessage(NewMessage(RoleUser, "hi"))

	if s.MessageCount() != 1 {
		t.Fatalf("MessageCount() = %d, want 1", s.MessageCount())
	}
	if s.IsEmpty() {
		t.Error("session should not be empty after append")
	}
	if s.UpdatedAt.Before(before) {
		t.Error("UpdatedAt should not move backwards on append")
	}
	if s.LastMessage().Content != "hi" {
		t.Errorf("LastMessage().Content = %q, want %q", s.LastMessage().Content, "hi")
	}
}

func TestChatSession_Matches(t *testing.T) {
	s := NewChatSession()
	s.Title = "Trip to Japan"
	s.AddMessage(NewMessage(RoleUser, "What should I pack?"))

	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{"title match is case-insensitive", "japan", true},
		{"message content match", "PACK", true},
		{"empty query matches everything", "", true},
		{"no match", "budget", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := s.Matches(tc.query); got != tc.want {
				t.Errorf("Matches(%q) = %v, want %v", tc.query, got, tc.want)
			}
		})
	}
}

func TestChatSession_Clone(t *testing.T) {
	s := NewChatSession()
	s.ID = "s1"
	s.AddMessage(NewMessage(RoleUser, "original"))

	clone := s.Clone()
	clone.Messages[0].Content = "mutated"
	clone.AddMessage(NewMessage(RoleAssistant, "extra"))

	if s.Messages[0].Content != "original" {
		t.Error("mutating a clone's message leaked into the source session")
	}
	if s.MessageCount() != 1 {
		t.Errorf("source MessageCount() = %d after clone append, want 1", s.MessageCount())
	}
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestMessage_Preview(t *testing.T) {
	msg := NewMessage(RoleAssistant, "line one\nline two that is fairly long indeed")

	preview := msg.Preview(20)
	if strings.Contains(preview, "\n") {
		t.Error("preview should be single-line")
	}
	if n := len([]rune(preview)); n > 20 {
		t.Errorf("preview is %d runes, want <= 20", n)
	}
	if !strings.HasSuffix(preview, "...") {
		t.Errorf("truncated preview should end with ellipsis, got %q", preview)
	}
}

func TestRole_DisplayName(t *testing.T) {
	if got := RoleUser.DisplayName(); got != "You" {
		t.Errorf("RoleUser.DisplayName() = %q, want You", got)
	}
	if got := RoleAssistant.DisplayName(); got != "Assistant" {
		t.Errorf("RoleAssistant.DisplayName() = %q, want Assistant", got)
	}
	if !RoleUser.Valid() || !RoleAssistant.Valid() {
		t.Error("known roles should be valid")
	}
	if Role("system").Valid() {
		t.Error("unknown role should be invalid")
	}
}

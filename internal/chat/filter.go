// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat keeps the in-memory session collection in lockstep with the
// authoritative store.
package chat

import (
	"strings"

	"github.com/holachat/holachat/internal/model"
)

// FilterSessions returns the sessions whose title or any message content
// contains the query, case-insensitively, preserving the collection order.
// An empty or all-whitespace query returns the input unchanged. The function
// is pure: it never mutates the collection or the selection.
func FilterSessions(sessions []*model.ChatSession, query string) []*model.ChatSession {
	if strings.TrimSpace(query) == "" {
		return sessions
	}

	matched := make([]*model.ChatSession, 0, len(sessions))
	for _, sess := range sessions {
		if sess.Matches(query) {
			matched = append(matched, sess)
		}
	}
	return matched
}

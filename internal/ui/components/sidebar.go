// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable pieces of the holachat TUI.
package components

import (
	"strings"

	"github.com/holachat/holachat/internal/chat"
	"github.com/holachat/holachat/internal/model"
	"github.com/holachat/holachat/internal/ui/styles"
	"github.com/holachat/holachat/internal/util"
)

// =============================================================================
// SIDEBAR SESSION LIST
// =============================================================================

// Sidebar is the session list with incremental search. It presents a
// filtered view of the collection; selection indexes into the filtered
// view, never the underlying collection.
type Sidebar struct {
	Width     int
	Searching bool
	Query     string

	sessions  []*model.ChatSession
	currentID string
	cursor    int
}

// NewSidebar creates a sidebar of the given width.
func NewSidebar(width int) *Sidebar {
	return &Sidebar{Width: width}
}

// SetSessions replaces the listed sessions and keeps the cursor on the
// current session when it is still visible.
func (s *Sidebar) SetSessions(sessions []*model.ChatSession, currentID string) {
	s.sessions = sessions
	s.currentID = currentID
	s.clampCursor()
}

// Filtered returns the sessions matching the active query, in collection
// order.
func (s *Sidebar) Filtered() []*model.ChatSession {
	return chat.FilterSessions(s.sessions, s.Query)
}

// Selected returns the session under the cursor, or nil if the filtered
// view is empty.
func (s *Sidebar) Selected() *model.ChatSession {
	filtered := s.Filtered()
	if len(filtered) == 0 {
		return nil
	}
	if s.cursor >= len(filtered) {
		return filtered[len(filtered)-1]
	}
	return filtered[s.cursor]
}

// MoveUp moves the cursor toward the top of the list.
func (s *Sidebar) MoveUp() {
	if s.cursor > 0 {
		s.cursor--
	}
}

// MoveDown moves the cursor toward the bottom of the list.
func (s *Sidebar) MoveDown() {
	if s.cursor < len(s.Filtered())-1 {
		s.cursor++
	}
}

// SetQuery updates the search query and clamps the cursor to the new
// filtered view.
func (s *Sidebar) SetQuery(query string) {
	s.Query = query
	s.clampCursor()
}

// ClearSearch leaves search mode and shows the full collection again.
func (s *Sidebar) ClearSearch() {
	s.Searching = false
	s.Query = ""
	s.clampCursor()
}

func (s *Sidebar) clampCursor() {
	n := len(s.Filtered())
	if n == 0 {
		s.cursor = 0
		return
	}
	if s.cursor >= n {
		s.cursor = n - 1
	}
}

// View draws the sidebar at the given height.
func (s *Sidebar) View(height int) string {
	inner := s.Width - 2
	var lines []string

	if s.Searching {
		lines = append(lines, styles.Hint.Render("/"+s.Query+"▌"))
	} else {
		lines = append(lines, styles.Hint.Render("sessions"))
	}
	lines = append(lines, "")

	filtered := s.Filtered()
	if len(filtered) == 0 {
		lines = append(lines, styles.SidebarItem.Render("no matches"))
	}
	for i, sess := range filtered {
		title := util.TruncateWidth(sess.TitleOrDefault(), inner-2)
		marker := "  "
		style := styles.SidebarItem
		if i == s.cursor {
			marker = "> "
			style = styles.SidebarSelected
		}
		line := marker + title
		if sess.ID == s.currentID {
			line = marker + "• " + util.TruncateWidth(sess.TitleOrDefault(), inner-4)
		}
		lines = append(lines, style.Render(line))
	}

	for len(lines) < height {
		lines = append(lines, "")
	}
	if len(lines) > height {
		lines = lines[:height]
	}

	return styles.SidebarBorder.Width(s.Width).Render(strings.Join(lines, "\n"))
}

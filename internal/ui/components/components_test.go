// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/holachat/holachat/internal/markdown"
	"github.com/holachat/holachat/internal/model"
)

func sidebarSessions() []*model.ChatSession {
	mk := func(id, title string) *model.ChatSession {
		s := model.NewChatSession()
		s.ID = id
		s.Title = title
		return s
	}
	return []*model.ChatSession{
		mk("s1", "Trip to Japan"),
		mk("s2", "Dinner ideas"),
		mk("s3", "Channel patterns"),
	}
}

func TestSidebarCursorMovement(t *testing.T) {
	sb := NewSidebar(28)
	sb.SetSessions(sidebarSessions(), "s1")

	if got := sb.Selected(); got == nil || got.ID != "s1" {
		t.Fatalf("initial selection = %v, want s1", got)
	}
	sb.MoveDown()
	sb.MoveDown()
	if got := sb.Selected(); got.ID != "s3" {
		t.Errorf("selection = %s, want s3", got.ID)
	}
	sb.MoveDown() // already at the bottom
	if got := sb.Selected(); got.ID != "s3" {
		t.Error("cursor must not run past the end")
	}
	sb.MoveUp()
	if got := sb.Selected(); got.ID != "s2" {
		t.Errorf("selection = %s, want s2", got.ID)
	}
}

func TestSidebarSearchNarrowsAndClampsCursor(t *testing.T) {
	sb := NewSidebar(28)
	sb.SetSessions(sidebarSessions(), "s1")
	sb.MoveDown()
	sb.MoveDown() // cursor on s3

	sb.SetQuery("dinner")
	filtered := sb.Filtered()
	if len(filtered) != 1 || filtered[0].ID != "s2" {
		t.Fatalf("filtered = %v, want only s2", filtered)
	}
	if got := sb.Selected(); got.ID != "s2" {
		t.Errorf("cursor should clamp into the filtered view, got %s", got.ID)
	}

	sb.ClearSearch()
	if len(sb.Filtered()) != 3 {
		t.Error("clearing search should restore the full list")
	}
}

func TestSidebarViewShowsTitles(t *testing.T) {
	sb := NewSidebar(28)
	sb.SetSessions(sidebarSessions(), "s2")

	out := sb.View(10)
	if !strings.Contains(out, "Trip to Japan") {
		t.Errorf("sidebar should list session titles:\n%s", out)
	}
}

func TestCollectBlocksGlobalIndex(t *testing.T) {
	first := markdown.Parse("```go\nalpha\n```")
	second := markdown.Parse("text\n\n```python\nbeta\n```")

	blocks := CollectBlocks(first, second)
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if blocks[0].Index != 0 || blocks[1].Index != 1 {
		t.Error("indexes must be global across documents")
	}
	if blocks[0].Code != "alpha\n" || blocks[1].Code != "beta\n" {
		t.Errorf("block contents = %q, %q", blocks[0].Code, blocks[1].Code)
	}
	if blocks[1].Language != "python" {
		t.Errorf("language = %q", blocks[1].Language)
	}
}

func TestRenderMessageErrorPlaceholder(t *testing.T) {
	r := markdown.NewRenderer(60)

	errMsg := model.NewMessage(model.RoleAssistant, "Error: connection refused")
	out := RenderMessage(errMsg, r, false)
	if !strings.Contains(out, "Error: connection refused") {
		t.Errorf("error text missing:\n%s", out)
	}
	if !IsErrorMessage(errMsg) {
		t.Error("IsErrorMessage should recognize the placeholder")
	}

	normal := model.NewMessage(model.RoleAssistant, "All good, **really**.")
	if IsErrorMessage(normal) {
		t.Error("regular content is not an error placeholder")
	}
	userErrLike := model.NewMessage(model.RoleUser, "Error: my own text")
	if IsErrorMessage(userErrLike) {
		t.Error("user messages are never error placeholders")
	}
}

func TestRenderMessageShowsRoleLabel(t *testing.T) {
	r := markdown.NewRenderer(60)
	msg := model.NewMessage(model.RoleUser, "hello there")
	out := RenderMessage(msg, r, false)

	if !strings.Contains(out, model.RoleUser.DisplayName()) {
		t.Errorf("role label missing:\n%s", out)
	}
	if !strings.Contains(out, "hello there") {
		t.Errorf("body missing:\n%s", out)
	}
}

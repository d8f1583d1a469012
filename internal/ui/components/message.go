// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable pieces of the holachat TUI.
package components

import (
	"strings"

	"github.com/holachat/holachat/internal/markdown"
	"github.com/holachat/holachat/internal/model"
	"github.com/holachat/holachat/internal/ui/styles"
)

// =============================================================================
// MESSAGE RENDERING
// =============================================================================

// errorPrefix marks synthetic assistant messages that stand in for a failed
// provider call.
const errorPrefix = "Error: "

// RenderMessage draws one conversation turn: a role label, optionally a
// timestamp, and the Markdown-rendered body. Assistant error placeholders
// are drawn in the error color and skip Markdown entirely.
func RenderMessage(msg *model.Message, r *markdown.Renderer, showTimestamp bool) string {
	var label string
	switch msg.Role {
	case model.RoleUser:
		label = styles.UserLabel.Render(msg.Role.DisplayName())
	default:
		label = styles.AssistantLabel.Render(msg.Role.DisplayName())
	}
	if showTimestamp && !msg.Timestamp.IsZero() {
		label += " " + styles.Timestamp.Render(msg.Timestamp.Format("15:04"))
	}

	if msg.Role == model.RoleAssistant && strings.HasPrefix(msg.Content, errorPrefix) {
		return label + "\n" + styles.ErrorText.Render(msg.Content)
	}

	body := r.Render(markdown.Parse(msg.Content))
	return label + "\n" + body
}

// IsErrorMessage reports whether an assistant message is an error
// placeholder rather than model output.
func IsErrorMessage(msg *model.Message) bool {
	return msg.Role == model.RoleAssistant && strings.HasPrefix(msg.Content, errorPrefix)
}

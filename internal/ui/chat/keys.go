// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the conversational TUI.
package chat

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines the keyboard bindings for the chat interface.
type KeyMap struct {
	Submit     key.Binding
	NewChat    key.Binding
	NextChat   key.Binding
	PrevChat   key.Binding
	DeleteChat key.Binding
	Search     key.Binding
	CopyCode   key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Cancel     key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		NewChat: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("C-n", "new chat"),
		),
		NextChat: key.NewBinding(
			key.WithKeys("ctrl+j", "down"),
			key.WithHelp("C-j", "next session"),
		),
		PrevChat: key.NewBinding(
			key.WithKeys("ctrl+k", "up"),
			key.WithHelp("C-k", "previous session"),
		),
		DeleteChat: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("C-d", "delete session"),
		),
		Search: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("C-f", "search sessions"),
		),
		CopyCode: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("C-y", "copy last code block"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "scroll down"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "leave search"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
	}
}

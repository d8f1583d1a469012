// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the conversational TUI.
package chat

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/holachat/holachat/internal/ui/styles"
)

// View draws the full interface: sidebar, conversation, input, footer.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.loading {
		return m.spinner.View() + " loading sessions..."
	}

	sidebar := m.sidebar.View(m.height - 1)
	main := lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		m.inputLine(),
		m.footer(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main)
}

func (m *Model) inputLine() string {
	if m.waiting {
		return m.spinner.View() + " thinking..."
	}
	return m.input.View()
}

// footer shows a transient status when one is active, key hints otherwise.
func (m *Model) footer() string {
	if m.status != "" {
		return styles.StatusLine.Render(m.status)
	}
	return styles.Hint.Render(
		"enter send · C-n new · C-j/C-k sessions · C-f search · C-y copy code · C-d delete · C-c quit",
	)
}

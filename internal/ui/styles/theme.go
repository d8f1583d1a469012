// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the holachat TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// =============================================================================
// TERMINAL CAPABILITIES
// =============================================================================

// Capabilities describes what the running terminal can display.
type Capabilities struct {
	ColorProfile termenv.Profile
	TrueColor    bool
	DarkBG       bool
}

// DetectCapabilities probes the terminal once at startup.
func DetectCapabilities() Capabilities {
	profile := termenv.ColorProfile()
	return Capabilities{
		ColorProfile: profile,
		TrueColor:    profile == termenv.TrueColor,
		DarkBG:       termenv.HasDarkBackground(),
	}
}

// =============================================================================
// SHARED STYLES
// =============================================================================

// UserLabel styles the "You" prefix on user messages.
var UserLabel = lipgloss.NewStyle().Bold(true).Foreground(Cyan)

// AssistantLabel styles the assistant prefix.
var AssistantLabel = lipgloss.NewStyle().Bold(true).Foreground(Purple)

// ErrorText styles provider failures shown inline.
var ErrorText = lipgloss.NewStyle().Foreground(Rose)

// StatusLine styles the transient footer status.
var StatusLine = lipgloss.NewStyle().Foreground(Amber)

// Timestamp styles the optional per-message timestamp.
var Timestamp = lipgloss.NewStyle().Foreground(TextMuted)

// SidebarSelected highlights the selected session row.
var SidebarSelected = lipgloss.NewStyle().Bold(true).Foreground(Purple)

// SidebarItem styles unselected session rows.
var SidebarItem = lipgloss.NewStyle().Foreground(TextSecondary)

// SidebarBorder frames the session list.
var SidebarBorder = lipgloss.NewStyle().
	Border(lipgloss.NormalBorder(), false, true, false, false).
	BorderForeground(Overlay)

// CopyConfirm styles the "copied" flash on code blocks.
var CopyConfirm = lipgloss.NewStyle().Bold(true).Foreground(Emerald)

// Hint styles key hints in the footer.
var Hint = lipgloss.NewStyle().Foreground(TextMuted)

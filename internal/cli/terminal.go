// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the non-interactive command surface.
package cli

import (
	"os"

	"golang.org/x/term"
)

// IsInteractive reports whether stdout is a terminal. Piped output gets
// plain text instead of styled Markdown.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// TerminalWidth returns the stdout width, or a conservative default when
// stdout is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

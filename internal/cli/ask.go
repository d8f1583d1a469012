// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the non-interactive command surface.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/holachat/holachat/internal/provider"
)

// =============================================================================
// ONE-SHOT ASK
// =============================================================================

// Ask sends a single prompt to the provider and writes the reply to w.
// On a terminal the reply is rendered as styled Markdown via glamour; piped
// output stays plain so it composes with other tools. Nothing is persisted.
func Ask(ctx context.Context, client *provider.Client, prompt string, w io.Writer) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return fmt.Errorf("ask: empty prompt")
	}

	reply, err := client.Complete(ctx, prompt)
	if err != nil {
		return fmt.Errorf("ask: %w", err)
	}

	if !IsInteractive() {
		fmt.Fprintln(w, reply)
		return nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(TerminalWidth()),
	)
	if err != nil {
		fmt.Fprintln(w, reply)
		return nil
	}

	rendered, err := renderer.Render(reply)
	if err != nil {
		fmt.Fprintln(w, reply)
		return nil
	}
	fmt.Fprint(w, rendered)
	return nil
}

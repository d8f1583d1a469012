// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the conversational TUI.
//
// This file defines the Bubble Tea commands: every store, provider, and
// highlighting interaction runs here, off the event loop.
package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	chatsync "github.com/holachat/holachat/internal/chat"
	"github.com/holachat/holachat/internal/markdown"
	"github.com/holachat/holachat/internal/model"
	"github.com/holachat/holachat/internal/provider"
	"github.com/holachat/holachat/internal/ui/components"
)

// =============================================================================
// LOADING
// =============================================================================

// loadSessionsCmd runs the initial hydration.
func loadSessionsCmd(sync *chatsync.Synchronizer) tea.Cmd {
	return func() tea.Msg {
		err := sync.Load(context.Background())
		return SessionsLoadedMsg{Err: err}
	}
}

// =============================================================================
// PROMPT ROUND-TRIP
// =============================================================================

// appendUserCmd persists the user's prompt to its session.
func appendUserCmd(sync *chatsync.Synchronizer, sessionID, prompt string) tea.Cmd {
	return func() tea.Msg {
		err := sync.AppendMessageTo(context.Background(), sessionID, model.RoleUser, prompt)
		return PromptSentMsg{SessionID: sessionID, Prompt: prompt, Err: err}
	}
}

// completeCmd calls the provider and appends the reply to the origin
// session. A provider failure becomes an error-placeholder assistant
// message in the same session; nothing is retried.
func completeCmd(sync *chatsync.Synchronizer, client *provider.Client, sessionID, prompt string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		reply, err := client.Complete(ctx, prompt)
		content := reply
		if err != nil {
			content = "Error: " + err.Error()
		}
		sync.AppendMessageTo(ctx, sessionID, model.RoleAssistant, content)
		return CompletionMsg{SessionID: sessionID, Err: err}
	}
}

// =============================================================================
// SESSION MUTATIONS
// =============================================================================

// newSessionCmd creates (or reuses) a fresh session.
func newSessionCmd(sync *chatsync.Synchronizer) tea.Cmd {
	return func() tea.Msg {
		sync.CreateSession(context.Background())
		return CollectionChangedMsg{}
	}
}

// deleteSessionCmd removes a session; the synchronizer handles reselection
// and last-session replacement.
func deleteSessionCmd(sync *chatsync.Synchronizer, sessionID string) tea.Cmd {
	return func() tea.Msg {
		sync.DeleteSession(context.Background(), sessionID)
		return CollectionChangedMsg{}
	}
}

// =============================================================================
// HIGHLIGHTING
// =============================================================================

// highlightCmd runs chroma over one block. The generation tag lets the
// model discard results that arrive after the content they were computed
// for has been replaced.
func highlightCmd(generation int, key, code, language string) tea.Cmd {
	return func() tea.Msg {
		text, ok := markdown.Highlight(code, language)
		return HighlightMsg{Generation: generation, Key: key, Text: text, OK: ok}
	}
}

// =============================================================================
// COPY
// =============================================================================

// copyCmd writes a block's original text to the clipboard.
func copyCmd(block components.CodeBlock) tea.Cmd {
	return func() tea.Msg {
		return CopiedMsg{Block: block.Index, Err: block.Copy()}
	}
}

// copyExpireCmd ends the confirmation window after the fixed duration.
func copyExpireCmd(block int) tea.Cmd {
	return tea.Tick(components.CopyConfirmDuration, func(time.Time) tea.Msg {
		return CopyExpiredMsg{Block: block}
	})
}

// statusExpireCmd clears the footer notice.
func statusExpireCmd() tea.Cmd {
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return StatusExpiredMsg{}
	})
}

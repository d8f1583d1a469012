// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the conversational TUI.
//
// This file defines the Bubble Tea message types used by the chat interface:
//   - Loading: initial session hydration
//   - Completion: prompt round-trips against the provider
//   - Highlighting: asynchronous per-block chroma results
//   - Copy: clipboard confirmation lifecycle
//   - Status: transient store-failure notices
package chat

// =============================================================================
// LOADING MESSAGES
// =============================================================================

// SessionsLoadedMsg signals that the synchronizer finished (or failed) the
// initial hydration. The collection itself is read from the synchronizer.
type SessionsLoadedMsg struct {
	Err error
}

// CollectionChangedMsg asks the view to re-read the synchronizer after a
// change made outside the normal command flow.
type CollectionChangedMsg struct{}

// =============================================================================
// COMPLETION MESSAGES
// =============================================================================

// PromptSentMsg signals that the user's message was persisted and the
// provider call is underway.
type PromptSentMsg struct {
	SessionID string
	Prompt    string
	Err       error
}

// CompletionMsg carries the provider's reply (or the error placeholder that
// was appended in its place). SessionID is the origin session; it may no
// longer be the one on screen.
type CompletionMsg struct {
	SessionID string
	Err       error
}

// =============================================================================
// HIGHLIGHTING MESSAGES
// =============================================================================

// HighlightMsg delivers one finished chroma run. Generation is compared
// against the highlighter; stale results are dropped without repainting.
type HighlightMsg struct {
	Generation int
	Key        string
	Text       string
	OK         bool
}

// =============================================================================
// COPY MESSAGES
// =============================================================================

// CopiedMsg reports a clipboard write for the given block.
type CopiedMsg struct {
	Block int
	Err   error
}

// CopyExpiredMsg ends the copy confirmation window.
type CopyExpiredMsg struct {
	Block int
}

// =============================================================================
// STATUS MESSAGES
// =============================================================================

// StatusMsg shows a transient notice in the footer.
type StatusMsg struct {
	Text string
}

// StatusExpiredMsg clears the footer notice.
type StatusExpiredMsg struct{}

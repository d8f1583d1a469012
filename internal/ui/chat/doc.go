// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the conversational TUI: a sidebar of sessions, the
// message viewport, and the prompt input, wired to the synchronizer and the
// inference provider through Bubble Tea commands.
//
// The Bubble Tea event loop is the single logical thread. Store access,
// provider calls, and syntax highlighting all run inside commands and come
// back as messages; the model itself never blocks.
package chat

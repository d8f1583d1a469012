// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
//
// A ChatSession holds an ordered, append-only list of Messages plus derived
// metadata (title, timestamps). Sessions are owned by exactly one identity
// and are ordered most-recently-updated first wherever they are listed.
//
// Types in this package are plain data: all synchronization with the
// authoritative store and the local cache lives in internal/chat.
package model

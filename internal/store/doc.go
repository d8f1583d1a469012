// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store provides the authoritative persistence layer for sessions
// and messages.
//
// The SessionStore interface is deliberately small: CRUD over two related
// record types, nothing more. The synchronizer in internal/chat is its only
// writer. SQLiteStore is the shipped implementation, backed by a single
// pure-Go SQLite database in the state directory.
package store

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cache persists an advisory snapshot of the session collection.
//
// The snapshot is a single namespaced JSON document written on every
// collection change and read once at load time. It exists only to paint the
// UI before the authoritative store responds; it must never be treated as a
// source of truth, and a corrupt snapshot is simply ignored.
package cache

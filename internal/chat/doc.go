// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat keeps the in-memory session collection in lockstep with the
// authoritative store.
//
// The synchronizer paints a cached snapshot first so the UI has something to
// show, then replaces the whole collection with the store's answer once it
// arrives. Every mutation writes to the store before it is reflected in
// memory; a failed write leaves the collection untouched. Appends to the same
// session are serialized so concurrent writes land in call order.
package chat

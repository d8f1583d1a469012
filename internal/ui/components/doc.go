// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable pieces of the holachat TUI: the
// sidebar session list, message rendering, and code block handling.
package components

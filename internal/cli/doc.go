// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the non-interactive command surface: the one-shot
// ask mode for scripting and piping, with TTY-aware output formatting.
package cli

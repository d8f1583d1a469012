// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package markdown turns model output into styled terminal text.
//
// Rendering is a two-step pipeline: Parse builds a typed node tree from the
// Markdown source, then a Renderer walks the tree and emits ANSI-styled
// lines. Raw HTML never survives as markup; it is demoted to literal text.
// Syntax highlighting for fenced code blocks is a separate, optional step so
// the surrounding message can be shown before chroma finishes.
package markdown

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package markdown turns model output into styled terminal text.
package markdown

import (
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
)

// =============================================================================
// SYNTAX HIGHLIGHTING (Chroma-based)
// =============================================================================

// Highlight runs chroma over the code for the declared language and returns
// ANSI-colored output. ok is false when the language is unknown or chroma
// fails; the caller keeps showing the block as plain text.
func Highlight(code, language string) (highlighted string, ok bool) {
	lexer := lexers.Get(language)
	if lexer == nil {
		return code, false
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code, false
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code, false
	}
	return buf.String(), true
}

// =============================================================================
// GENERATION TRACKING
// =============================================================================

// Highlighter hands out generation numbers for asynchronous highlight work.
// Each time a message's content is (re)rendered the caller takes a new
// generation; results tagged with an older generation are stale and must be
// discarded. This is what makes in-flight highlighting restartable.
type Highlighter struct {
	mu         sync.Mutex
	generation int
}

// Next invalidates all outstanding work and returns the new generation.
func (h *Highlighter) Next() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.generation++
	return h.generation
}

// Current reports whether results for the given generation are still wanted.
func (h *Highlighter) Current(generation int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return generation == h.generation
}

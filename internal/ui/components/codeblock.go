// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable pieces of the holachat TUI.
package components

import (
	"time"

	"github.com/atotto/clipboard"

	"github.com/holachat/holachat/internal/markdown"
	"github.com/holachat/holachat/internal/ui/styles"
)

// =============================================================================
// CODE BLOCKS
// =============================================================================

// CopyConfirmDuration is how long the copy confirmation stays visible.
const CopyConfirmDuration = 2 * time.Second

// CopyConfirmText is the flash shown next to a just-copied block.
var CopyConfirmText = styles.CopyConfirm.Render("✓ copied")

// CodeBlock is one fenced block extracted from a rendered message, indexed
// by document order across the whole conversation view.
type CodeBlock struct {
	Index    int
	Code     string
	Language string
}

// CollectBlocks extracts the code blocks from parsed documents in order.
// The index is global across documents so copy targeting and highlight
// results line up with what the conversation view draws.
func CollectBlocks(docs ...*markdown.Node) []CodeBlock {
	var out []CodeBlock
	for _, doc := range docs {
		for _, n := range markdown.CodeBlocks(doc) {
			out = append(out, CodeBlock{
				Index:    len(out),
				Code:     n.Text,
				Language: n.Language,
			})
		}
	}
	return out
}

// Copy places the block's exact original text on the system clipboard.
// Highlighting never touches what gets copied.
func (b CodeBlock) Copy() error {
	return clipboard.WriteAll(b.Code)
}

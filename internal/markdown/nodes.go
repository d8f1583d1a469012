// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package markdown turns model output into styled terminal text.
package markdown

// =============================================================================
// NODE TREE
// =============================================================================

// NodeKind discriminates the node variants produced by Parse.
type NodeKind int

const (
	KindDocument NodeKind = iota
	KindParagraph
	KindHeading
	KindText
	KindStrong
	KindLink
	KindInlineCode
	KindCodeBlock
	KindList
	KindListItem
	KindBlockquote
	KindTable
	KindTableHead
	KindTableBody
	KindTableRow
	KindTableCell
	KindRule
)

// String returns the kind name for debugging and test failure messages.
func (k NodeKind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindParagraph:
		return "paragraph"
	case KindHeading:
		return "heading"
	case KindText:
		return "text"
	case KindStrong:
		return "strong"
	case KindLink:
		return "link"
	case KindInlineCode:
		return "inline-code"
	case KindCodeBlock:
		return "code-block"
	case KindList:
		return "list"
	case KindListItem:
		return "list-item"
	case KindBlockquote:
		return "blockquote"
	case KindTable:
		return "table"
	case KindTableHead:
		return "table-head"
	case KindTableBody:
		return "table-body"
	case KindTableRow:
		return "table-row"
	case KindTableCell:
		return "table-cell"
	case KindRule:
		return "rule"
	default:
		return "unknown"
	}
}

// Node is one element of the parsed tree. Which fields are meaningful
// depends on Kind: Text for text and inline code, Level for headings,
// Ordered for lists, Language and Text for code blocks, Dest for links.
// Everything else carries only Children.
type Node struct {
	Kind     NodeKind
	Text     string
	Level    int
	Ordered  bool
	Language string
	Dest     string
	Children []*Node
}

// CodeBlocks returns every code block in the tree in document order. The UI
// indexes highlight results and copy targets by position in this slice.
func CodeBlocks(root *Node) []*Node {
	var blocks []*Node
	var walk func(*Node)
	walk = func(n *Node) {
		if n.Kind == KindCodeBlock {
			blocks = append(blocks, n)
			return
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(root)
	return blocks
}

// PlainText flattens a node's inline content to an unstyled string.
func PlainText(n *Node) string {
	switch n.Kind {
	case KindText, KindInlineCode, KindCodeBlock:
		return n.Text
	}
	var out string
	for _, child := range n.Children {
		out += PlainText(child)
	}
	return out
}

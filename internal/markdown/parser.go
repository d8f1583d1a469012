// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package markdown turns model output into styled terminal text.
package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// parser is shared; goldmark parsers are safe for concurrent use.
var parser = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Parse converts Markdown source into a node tree. Model output is
// untrusted, so anything goldmark recognizes as HTML comes back as literal
// text rather than markup. Parse never fails; malformed input degrades to
// plain text nodes.
func Parse(source string) *Node {
	src := []byte(source)
	root := parser.Parser().Parse(text.NewReader(src))

	doc := &Node{Kind: KindDocument}
	for child := root.FirstChild(); child != nil; child = child.NextSibling() {
		if n := convert(child, src); n != nil {
			doc.Children = append(doc.Children, n)
		}
	}
	return doc
}

// convert maps one goldmark AST node to the local tree, recursing into
// children. It returns nil for nodes with nothing to show.
func convert(n ast.Node, src []byte) *Node {
	switch v := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		return withChildren(&Node{Kind: KindParagraph}, n, src)

	case *ast.Heading:
		level := v.Level
		// Terminal output only distinguishes three heading weights.
		if level > 3 {
			level = 3
		}
		return withChildren(&Node{Kind: KindHeading, Level: level}, n, src)

	case *ast.Text:
		content := string(v.Segment.Value(src))
		if v.SoftLineBreak() {
			content += " "
		}
		if v.HardLineBreak() {
			content += "\n"
		}
		return &Node{Kind: KindText, Text: content}

	case *ast.String:
		return &Node{Kind: KindText, Text: string(v.Value)}

	case *ast.Emphasis:
		if v.Level >= 2 {
			return withChildren(&Node{Kind: KindStrong}, n, src)
		}
		// Single emphasis carries no weight of its own here; keep the text.
		return withChildren(&Node{Kind: KindParagraph}, n, src)

	case *ast.Link:
		return withChildren(&Node{Kind: KindLink, Dest: string(v.Destination)}, n, src)

	case *ast.AutoLink:
		url := string(v.URL(src))
		return &Node{
			Kind:     KindLink,
			Dest:     url,
			Children: []*Node{{Kind: KindText, Text: url}},
		}

	case *ast.Image:
		// Terminals can't show it; render the alt text and the target.
		return withChildren(&Node{Kind: KindLink, Dest: string(v.Destination)}, n, src)

	case *ast.CodeSpan:
		return &Node{Kind: KindInlineCode, Text: inlineText(n, src)}

	case *ast.FencedCodeBlock:
		return &Node{
			Kind:     KindCodeBlock,
			Language: string(v.Language(src)),
			Text:     blockLines(n, src),
		}

	case *ast.CodeBlock:
		return &Node{Kind: KindCodeBlock, Text: blockLines(n, src)}

	case *ast.List:
		return withChildren(&Node{Kind: KindList, Ordered: v.IsOrdered()}, n, src)

	case *ast.ListItem:
		return withChildren(&Node{Kind: KindListItem}, n, src)

	case *ast.Blockquote:
		return withChildren(&Node{Kind: KindBlockquote}, n, src)

	case *ast.ThematicBreak:
		return &Node{Kind: KindRule}

	case *east.Table:
		return convertTable(v, src)

	case *east.TableRow, *east.TableHeader:
		return withChildren(&Node{Kind: KindTableRow}, n, src)

	case *east.TableCell:
		return withChildren(&Node{Kind: KindTableCell}, n, src)

	case *ast.RawHTML:
		// Untrusted markup stays visible, never interpreted.
		var sb strings.Builder
		for i := 0; i < v.Segments.Len(); i++ {
			seg := v.Segments.At(i)
			sb.Write(seg.Value(src))
		}
		return &Node{Kind: KindText, Text: sb.String()}

	case *ast.HTMLBlock:
		content := blockLines(n, src)
		if v.HasClosure() {
			content += string(v.ClosureLine.Value(src))
		}
		return &Node{Kind: KindParagraph, Children: []*Node{
			{Kind: KindText, Text: strings.TrimRight(content, "\n")},
		}}

	default:
		// Anything unrecognized degrades to its visible children.
		return withChildren(&Node{Kind: KindParagraph}, n, src)
	}
}

// convertTable splits goldmark's flat table (header row, then data rows)
// into explicit head and body sections.
func convertTable(table *east.Table, src []byte) *Node {
	out := &Node{Kind: KindTable}
	head := &Node{Kind: KindTableHead}
	body := &Node{Kind: KindTableBody}

	for child := table.FirstChild(); child != nil; child = child.NextSibling() {
		row := convert(child, src)
		if row == nil {
			continue
		}
		if _, ok := child.(*east.TableHeader); ok {
			head.Children = append(head.Children, row)
		} else {
			body.Children = append(body.Children, row)
		}
	}

	if len(head.Children) > 0 {
		out.Children = append(out.Children, head)
	}
	if len(body.Children) > 0 {
		out.Children = append(out.Children, body)
	}
	return out
}

// withChildren converts n's goldmark children into node.Children.
func withChildren(node *Node, n ast.Node, src []byte) *Node {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if converted := convert(child, src); converted != nil {
			node.Children = append(node.Children, converted)
		}
	}
	return node
}

// inlineText flattens an inline container (a code span) to its raw text.
func inlineText(n ast.Node, src []byte) string {
	var sb strings.Builder
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch v := child.(type) {
		case *ast.Text:
			sb.Write(v.Segment.Value(src))
		case *ast.String:
			sb.Write(v.Value)
		}
	}
	return sb.String()
}

// blockLines joins a block node's line segments into one string.
func blockLines(n ast.Node, src []byte) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(src))
	}
	return sb.String()
}

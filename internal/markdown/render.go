// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package markdown turns model output into styled terminal text.
package markdown

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// =============================================================================
// RENDERER
// =============================================================================

// Renderer walks a node tree and produces ANSI-styled text for a terminal of
// a given width.
//
// Highlight, when set, is consulted for every code block; it returns the
// highlighted form and whether one is available yet. A nil hook or a false
// return leaves the block plain, so a message is always renderable before
// highlighting finishes.
type Renderer struct {
	Width     int
	Highlight func(code, language string) (string, bool)

	// FlashBlock marks one code block (by document order) whose caption
	// shows a copy confirmation. Negative means none.
	FlashBlock int
	FlashText  string

	blockIndex int

	h1        lipgloss.Style
	h2        lipgloss.Style
	h3        lipgloss.Style
	strong    lipgloss.Style
	link      lipgloss.Style
	linkDest  lipgloss.Style
	inline    lipgloss.Style
	quote     lipgloss.Style
	codeBox   lipgloss.Style
	codeLabel lipgloss.Style
	tableHead lipgloss.Style
	muted     lipgloss.Style
}

// NewRenderer creates a renderer for the given terminal width.
func NewRenderer(width int) *Renderer {
	if width < 20 {
		width = 20
	}
	return &Renderer{
		Width:      width,
		FlashBlock: -1,
		h1:         lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("212")),
		h2:         lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		h3:         lipgloss.NewStyle().Bold(true),
		strong:     lipgloss.NewStyle().Bold(true),
		link:       lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("33")),
		linkDest:   lipgloss.NewStyle().Faint(true),
		inline:     lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Background(lipgloss.Color("236")),
		quote:      lipgloss.NewStyle().Faint(true).Italic(true),
		codeBox:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1),
		codeLabel:  lipgloss.NewStyle().Faint(true),
		tableHead:  lipgloss.NewStyle().Bold(true),
		muted:      lipgloss.NewStyle().Faint(true),
	}
}

// Render produces the styled output for a parsed document.
func (r *Renderer) Render(root *Node) string {
	r.blockIndex = 0
	var blocks []string
	for _, child := range root.Children {
		if rendered := r.renderBlock(child, 0); rendered != "" {
			blocks = append(blocks, rendered)
		}
	}
	return strings.Join(blocks, "\n\n")
}

// renderBlock dispatches on every block-level kind. depth tracks list
// nesting for indentation.
func (r *Renderer) renderBlock(n *Node, depth int) string {
	switch n.Kind {
	case KindParagraph:
		return lipgloss.NewStyle().Width(r.Width).Render(r.renderInline(n))

	case KindHeading:
		text := r.renderInline(n)
		switch n.Level {
		case 1:
			return r.h1.Render(text)
		case 2:
			return r.h2.Render(text)
		default:
			return r.h3.Render(text)
		}

	case KindCodeBlock:
		return r.renderCodeBlock(n)

	case KindList:
		return r.renderList(n, depth)

	case KindBlockquote:
		var inner []string
		for _, child := range n.Children {
			inner = append(inner, r.renderBlock(child, depth))
		}
		return prefixLines(r.quote.Render(strings.Join(inner, "\n")), "│ ")

	case KindTable:
		return r.renderTable(n)

	case KindRule:
		return r.muted.Render(strings.Repeat("─", r.Width))

	case KindText, KindStrong, KindLink, KindInlineCode:
		// Inline content surfacing at block level still renders.
		return lipgloss.NewStyle().Width(r.Width).Render(r.renderInline(&Node{Children: []*Node{n}}))

	case KindDocument:
		return r.Render(n)

	case KindListItem, KindTableHead, KindTableBody, KindTableRow, KindTableCell:
		// Structural kinds reached outside their container; render contents.
		var inner []string
		for _, child := range n.Children {
			inner = append(inner, r.renderBlock(child, depth))
		}
		return strings.Join(inner, "\n")

	default:
		return PlainText(n)
	}
}

// renderInline flattens inline children to one styled line.
func (r *Renderer) renderInline(n *Node) string {
	var sb strings.Builder
	for _, child := range n.Children {
		switch child.Kind {
		case KindText:
			sb.WriteString(child.Text)
		case KindStrong:
			sb.WriteString(r.strong.Render(r.renderInline(child)))
		case KindInlineCode:
			sb.WriteString(r.inline.Render(" " + child.Text + " "))
		case KindLink:
			sb.WriteString(r.renderLink(child))
		default:
			sb.WriteString(r.renderInline(child))
		}
	}
	return sb.String()
}

// renderLink shows the link text and, when it differs, the target. The
// target is always visible; nothing here opens it.
func (r *Renderer) renderLink(n *Node) string {
	label := PlainText(n)
	if label == "" || label == n.Dest {
		return r.link.Render(n.Dest)
	}
	return r.link.Render(label) + r.linkDest.Render(" ("+n.Dest+")")
}

// renderCodeBlock draws the code in a bordered box with a language caption.
// The copy of the code shown is exactly what came in, aside from the
// trailing newline every fenced block carries.
func (r *Renderer) renderCodeBlock(n *Node) string {
	index := r.blockIndex
	r.blockIndex++

	code := strings.TrimRight(n.Text, "\n")
	body := code
	if r.Highlight != nil {
		if highlighted, ok := r.Highlight(n.Text, n.Language); ok {
			body = strings.TrimRight(highlighted, "\n")
		}
	}

	caption := ""
	if n.Language != "" {
		caption = r.codeLabel.Render(n.Language)
	}
	if index == r.FlashBlock && r.FlashText != "" {
		caption = strings.TrimSpace(caption + " " + r.FlashText)
	}

	box := r.codeBox.MaxWidth(r.Width).Render(body)
	if caption == "" {
		return box
	}
	return caption + "\n" + box
}

// renderList draws bullets or 1-based numbering, indented two spaces per
// nesting level.
func (r *Renderer) renderList(n *Node, depth int) string {
	indent := strings.Repeat("  ", depth)
	var lines []string
	num := 1
	for _, item := range n.Children {
		if item.Kind != KindListItem {
			continue
		}
		marker := "• "
		if n.Ordered {
			marker = fmt.Sprintf("%d. ", num)
			num++
		}

		var parts []string
		for _, child := range item.Children {
			if child.Kind == KindList {
				parts = append(parts, r.renderList(child, depth+1))
			} else {
				parts = append(parts, r.renderBlock(child, depth+1))
			}
		}
		body := strings.Join(parts, "\n")
		first := true
		for _, line := range strings.Split(body, "\n") {
			if first {
				lines = append(lines, indent+marker+line)
				first = false
			} else if strings.HasPrefix(line, "  ") {
				lines = append(lines, line)
			} else {
				lines = append(lines, indent+strings.Repeat(" ", len(marker))+line)
			}
		}
	}
	return strings.Join(lines, "\n")
}

// renderTable lays out head and body rows with runewidth-aware columns.
func (r *Renderer) renderTable(n *Node) string {
	var headRows, bodyRows [][]string
	for _, section := range n.Children {
		for _, row := range section.Children {
			var cells []string
			for _, cell := range row.Children {
				cells = append(cells, strings.TrimSpace(PlainText(cell)))
			}
			if section.Kind == KindTableHead {
				headRows = append(headRows, cells)
			} else {
				bodyRows = append(bodyRows, cells)
			}
		}
	}

	widths := columnWidths(append(append([][]string{}, headRows...), bodyRows...))
	var lines []string
	for _, row := range headRows {
		lines = append(lines, r.tableHead.Render(formatRow(row, widths)))
	}
	if len(headRows) > 0 && len(bodyRows) > 0 {
		var sep []string
		for _, w := range widths {
			sep = append(sep, strings.Repeat("─", w))
		}
		lines = append(lines, r.muted.Render(strings.Join(sep, "─┼─")))
	}
	for _, row := range bodyRows {
		lines = append(lines, formatRow(row, widths))
	}
	return strings.Join(lines, "\n")
}

// =============================================================================
// HELPERS
// =============================================================================

func columnWidths(rows [][]string) []int {
	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			w := runewidth.StringWidth(cell)
			if i >= len(widths) {
				widths = append(widths, w)
			} else if w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

func formatRow(cells []string, widths []int) string {
	padded := make([]string, len(widths))
	for i := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		padded[i] = runewidth.FillRight(cell, widths[i])
	}
	return strings.Join(padded, " │ ")
}

func prefixLines(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

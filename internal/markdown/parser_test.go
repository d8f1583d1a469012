// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import (
	"strings"
	"testing"
)

func TestParseHeadings(t *testing.T) {
	tests := []struct {
		name      string
		source    string
		wantLevel int
	}{
		{"h1", "# Title", 1},
		{"h2", "## Section", 2},
		{"h3", "### Subsection", 3},
		{"h4 clamps to 3", "#### Deep", 3},
		{"h6 clamps to 3", "###### Deeper", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Parse(tt.source)
			if len(doc.Children) != 1 {
				t.Fatalf("got %d blocks, want 1", len(doc.Children))
			}
			h := doc.Children[0]
			if h.Kind != KindHeading {
				t.Fatalf("kind = %s, want heading", h.Kind)
			}
			if h.Level != tt.wantLevel {
				t.Errorf("level = %d, want %d", h.Level, tt.wantLevel)
			}
		})
	}
}

func TestParseInlineStructure(t *testing.T) {
	doc := Parse("Some **bold** and `code` and [docs](https://example.com/docs).")

	if len(doc.Children) != 1 || doc.Children[0].Kind != KindParagraph {
		t.Fatalf("want a single paragraph, got %+v", doc.Children)
	}

	para := doc.Children[0]
	kinds := make(map[NodeKind]bool)
	for _, child := range para.Children {
		kinds[child.Kind] = true
	}
	for _, want := range []NodeKind{KindText, KindStrong, KindInlineCode, KindLink} {
		if !kinds[want] {
			t.Errorf("paragraph is missing a %s child", want)
		}
	}

	for _, child := range para.Children {
		switch child.Kind {
		case KindStrong:
			if got := PlainText(child); got != "bold" {
				t.Errorf("strong text = %q, want %q", got, "bold")
			}
		case KindInlineCode:
			if child.Text != "code" {
				t.Errorf("inline code = %q, want %q", child.Text, "code")
			}
		case KindLink:
			if child.Dest != "https://example.com/docs" {
				t.Errorf("link dest = %q", child.Dest)
			}
			if got := PlainText(child); got != "docs" {
				t.Errorf("link label = %q, want %q", got, "docs")
			}
		}
	}
}

func TestParseFencedCodeBlock(t *testing.T) {
	source := "```go\nfunc main() {\n\tfmt.Println(\"hi\")\n}\n```"
	doc := Parse(source)

	blocks := CodeBlocks(doc)
	if len(blocks) != 1 {
		t.Fatalf("got %d code blocks, want 1", len(blocks))
	}
	block := blocks[0]
	if block.Language != "go" {
		t.Errorf("language = %q, want go", block.Language)
	}
	// The stored text is the exact fence content; copy depends on this.
	want := "func main() {\n\tfmt.Println(\"hi\")\n}\n"
	if block.Text != want {
		t.Errorf("code = %q, want %q", block.Text, want)
	}
}

func TestParseCodeBlockWithoutLanguage(t *testing.T) {
	doc := Parse("```\nplain contents\n```")
	blocks := CodeBlocks(doc)
	if len(blocks) != 1 {
		t.Fatalf("got %d code blocks, want 1", len(blocks))
	}
	if blocks[0].Language != "" {
		t.Errorf("language = %q, want empty", blocks[0].Language)
	}
}

func TestParseLists(t *testing.T) {
	doc := Parse("- first\n- second\n\n1. one\n2. two")

	if len(doc.Children) != 2 {
		t.Fatalf("got %d blocks, want 2 lists", len(doc.Children))
	}
	bullets, numbered := doc.Children[0], doc.Children[1]
	if bullets.Kind != KindList || bullets.Ordered {
		t.Errorf("first block = %s ordered=%v, want unordered list", bullets.Kind, bullets.Ordered)
	}
	if numbered.Kind != KindList || !numbered.Ordered {
		t.Errorf("second block = %s ordered=%v, want ordered list", numbered.Kind, numbered.Ordered)
	}
	if len(bullets.Children) != 2 || bullets.Children[0].Kind != KindListItem {
		t.Errorf("list items malformed: %+v", bullets.Children)
	}
	if got := PlainText(bullets.Children[1]); got != "second" {
		t.Errorf("second item = %q", got)
	}
}

func TestParseBlockquote(t *testing.T) {
	doc := Parse("> quoted wisdom")
	if len(doc.Children) != 1 || doc.Children[0].Kind != KindBlockquote {
		t.Fatalf("want a blockquote, got %+v", doc.Children)
	}
	if got := PlainText(doc.Children[0]); got != "quoted wisdom" {
		t.Errorf("quote text = %q", got)
	}
}

func TestParseTable(t *testing.T) {
	source := "| Name | Role |\n| --- | --- |\n| ada | engineer |\n| lin | designer |"
	doc := Parse(source)

	if len(doc.Children) != 1 || doc.Children[0].Kind != KindTable {
		t.Fatalf("want a table, got %+v", doc.Children)
	}
	table := doc.Children[0]
	if len(table.Children) != 2 {
		t.Fatalf("table has %d sections, want head and body", len(table.Children))
	}
	head, body := table.Children[0], table.Children[1]
	if head.Kind != KindTableHead || body.Kind != KindTableBody {
		t.Fatalf("sections = %s/%s", head.Kind, body.Kind)
	}
	if len(head.Children) != 1 || len(body.Children) != 2 {
		t.Fatalf("rows = %d head, %d body; want 1 and 2", len(head.Children), len(body.Children))
	}
	row := body.Children[0]
	if row.Kind != KindTableRow || len(row.Children) != 2 {
		t.Fatalf("row malformed: %+v", row)
	}
	if got := PlainText(row.Children[0]); got != "ada" {
		t.Errorf("cell = %q, want ada", got)
	}
}

func TestParseRawHTMLIsLiteralText(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"inline html", "hello <b>world</b> end", "<b>"},
		{"script tag", "before <script>alert(1)</script> after", "<script>"},
		{"html block", "<div class=\"x\">\nboom\n</div>", "<div class=\"x\">"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Parse(tt.source)
			flat := PlainText(doc)
			if !strings.Contains(flat, tt.want) {
				t.Errorf("markup %q should survive as literal text in %q", tt.want, flat)
			}
		})
	}
}

func TestParseAutoLink(t *testing.T) {
	doc := Parse("see https://example.com for more")
	var link *Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.Kind == KindLink {
			link = n
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(doc)

	if link == nil {
		t.Fatal("bare URL should parse as a link")
	}
	if link.Dest != "https://example.com" {
		t.Errorf("dest = %q", link.Dest)
	}
}

func TestCodeBlocksDocumentOrder(t *testing.T) {
	source := "```go\nfirst\n```\n\ntext between\n\n```python\nsecond\n```"
	blocks := CodeBlocks(Parse(source))

	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if blocks[0].Language != "go" || blocks[1].Language != "python" {
		t.Errorf("order = %s, %s; want go, python", blocks[0].Language, blocks[1].Language)
	}
}

func TestParseNeverPanicsOnJunk(t *testing.T) {
	inputs := []string{
		"",
		"````",
		"| broken | table",
		"> > > nested\n> quote",
		"[unclosed](",
		strings.Repeat("#", 50),
		"\x00\x01binary-ish",
	}
	for _, input := range inputs {
		if doc := Parse(input); doc == nil {
			t.Errorf("Parse(%q) returned nil", input)
		}
	}
}

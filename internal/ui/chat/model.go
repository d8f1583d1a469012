// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the conversational TUI.
package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	chatsync "github.com/holachat/holachat/internal/chat"
	"github.com/holachat/holachat/internal/config"
	"github.com/holachat/holachat/internal/markdown"
	"github.com/holachat/holachat/internal/provider"
	"github.com/holachat/holachat/internal/ui/components"
	"github.com/holachat/holachat/internal/ui/styles"
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the root Bubble Tea model for the chat interface.
type Model struct {
	sync     *chatsync.Synchronizer
	provider *provider.Client
	keys     KeyMap
	uiCfg    config.UIConfig

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	sidebar  *components.Sidebar

	renderer   *markdown.Renderer
	hl         *markdown.Highlighter
	highlights map[string]string
	blocks     []components.CodeBlock

	width  int
	height int

	loading     bool
	waiting     bool
	status      string
	copiedBlock int
	quitting    bool
}

// New creates the chat model. The synchronizer must already be wired to its
// store, cache, and gate; Init triggers the initial load.
func New(sync *chatsync.Synchronizer, client *provider.Client, uiCfg config.UIConfig) *Model {
	input := textinput.New()
	input.Placeholder = "Ask anything..."
	input.Prompt = "> "
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Purple)

	return &Model{
		sync:        sync,
		provider:    client,
		keys:        DefaultKeyMap(),
		uiCfg:       uiCfg,
		input:       input,
		spinner:     sp,
		sidebar:     components.NewSidebar(uiCfg.SidebarWidth),
		renderer:    markdown.NewRenderer(60),
		hl:          &markdown.Highlighter{},
		highlights:  make(map[string]string),
		loading:     true,
		copiedBlock: -1,
	}
}

// Init starts the spinner and the initial session load.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		loadSessionsCmd(m.sync),
		m.spinner.Tick,
		textinput.Blink,
	)
}

// =============================================================================
// CONTENT REBUILD
// =============================================================================

// hlKey identifies a highlight result by content, so identical blocks share
// one chroma run regardless of where they appear.
func hlKey(code, language string) string {
	return language + "\x00" + code
}

// refresh re-reads the synchronizer, redraws the conversation, and returns
// commands for any code blocks that still need highlighting.
func (m *Model) refresh() tea.Cmd {
	m.sidebar.SetSessions(m.sync.Sessions(), m.sync.CurrentID())

	sess := m.sync.Current()
	if sess == nil {
		m.blocks = nil
		m.viewport.SetContent("")
		return nil
	}

	m.renderer.Highlight = func(code, language string) (string, bool) {
		text, ok := m.highlights[hlKey(code, language)]
		return text, ok
	}

	var docs []*markdown.Node
	var rendered []string
	blockBase := 0
	for _, msg := range sess.Messages {
		if components.IsErrorMessage(msg) {
			rendered = append(rendered, components.RenderMessage(msg, m.renderer, m.uiCfg.ShowTimestamps))
			continue
		}
		doc := markdown.Parse(msg.Content)
		docs = append(docs, doc)

		// FlashBlock is per message; translate the global copied index.
		m.renderer.FlashBlock = m.copiedBlock - blockBase
		m.renderer.FlashText = components.CopyConfirmText
		rendered = append(rendered, components.RenderMessage(msg, m.renderer, m.uiCfg.ShowTimestamps))
		blockBase += len(markdown.CodeBlocks(doc))
	}
	m.renderer.FlashBlock = -1

	m.blocks = components.CollectBlocks(docs...)
	m.viewport.SetContent(joinBlocks(rendered))
	m.viewport.GotoBottom()

	generation := m.hl.Next()
	var cmds []tea.Cmd
	seen := make(map[string]bool)
	for _, block := range m.blocks {
		key := hlKey(block.Code, block.Language)
		if block.Language == "" || seen[key] {
			continue
		}
		seen[key] = true
		if _, ok := m.highlights[key]; ok {
			continue
		}
		cmds = append(cmds, highlightCmd(generation, key, block.Code, block.Language))
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func joinBlocks(blocks []string) string {
	out := ""
	for i, b := range blocks {
		if i > 0 {
			out += "\n\n"
		}
		out += b
	}
	return out
}

// layout recomputes component sizes after a resize.
func (m *Model) layout() {
	sidebarWidth := m.uiCfg.SidebarWidth
	if sidebarWidth >= m.width {
		sidebarWidth = m.width / 3
	}
	m.sidebar.Width = sidebarWidth

	mainWidth := m.width - sidebarWidth - 1
	if mainWidth < 20 {
		mainWidth = 20
	}
	m.renderer.Width = mainWidth - 2
	m.input.Width = mainWidth - 4

	// Viewport height leaves room for the input and footer lines.
	vpHeight := m.height - 4
	if vpHeight < 3 {
		vpHeight = 3
	}
	m.viewport = viewport.New(mainWidth, vpHeight)
}

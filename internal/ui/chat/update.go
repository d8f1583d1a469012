// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the conversational TUI.
package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles every incoming Bubble Tea message.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, m.refresh()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case SessionsLoadedMsg:
		m.loading = false
		var cmds []tea.Cmd
		if msg.Err != nil {
			m.status = "working offline; some sessions may be stale"
			cmds = append(cmds, statusExpireCmd())
		}
		cmds = append(cmds, m.refresh())
		return m, tea.Batch(cmds...)

	case CollectionChangedMsg:
		return m, m.refresh()

	case PromptSentMsg:
		if msg.Err != nil {
			// The store refused the write; the prompt never became part of
			// the conversation, so don't call the provider.
			m.waiting = false
			m.status = "message not saved"
			return m, tea.Batch(m.refresh(), statusExpireCmd())
		}
		return m, tea.Batch(
			m.refresh(),
			completeCmd(m.sync, m.provider, msg.SessionID, msg.Prompt),
		)

	case CompletionMsg:
		m.waiting = false
		return m, m.refresh()

	case HighlightMsg:
		if !m.hl.Current(msg.Generation) {
			return m, nil
		}
		// Unknown languages come back plain; remember those too so the
		// block is attempted once, not on every redraw.
		m.highlights[msg.Key] = msg.Text
		if !msg.OK {
			return m, nil
		}
		return m, m.refresh()

	case CopiedMsg:
		if msg.Err != nil {
			m.status = "clipboard unavailable"
			return m, statusExpireCmd()
		}
		m.copiedBlock = msg.Block
		return m, tea.Batch(m.refresh(), copyExpireCmd(msg.Block))

	case CopyExpiredMsg:
		if m.copiedBlock == msg.Block {
			m.copiedBlock = -1
			return m, m.refresh()
		}
		return m, nil

	case StatusMsg:
		m.status = msg.Text
		return m, statusExpireCmd()

	case StatusExpiredMsg:
		m.status = ""
		return m, nil

	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

// handleKey routes keyboard input: search mode captures printable keys for
// the query, everything else goes to the bindings and then the input field.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	if m.sidebar.Searching {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submitPrompt()

	case key.Matches(msg, m.keys.NewChat):
		return m, newSessionCmd(m.sync)

	case key.Matches(msg, m.keys.DeleteChat):
		if id := m.sync.CurrentID(); id != "" {
			return m, deleteSessionCmd(m.sync, id)
		}
		return m, nil

	case key.Matches(msg, m.keys.NextChat):
		m.sidebar.MoveDown()
		return m.selectFromSidebar()

	case key.Matches(msg, m.keys.PrevChat):
		m.sidebar.MoveUp()
		return m.selectFromSidebar()

	case key.Matches(msg, m.keys.Search):
		m.sidebar.Searching = true
		m.sidebar.SetQuery("")
		return m, nil

	case key.Matches(msg, m.keys.CopyCode):
		if len(m.blocks) == 0 {
			return m, nil
		}
		return m, copyCmd(m.blocks[len(m.blocks)-1])

	case key.Matches(msg, m.keys.ScrollUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.ScrollDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleSearchKey edits the sidebar query.
func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.sidebar.ClearSearch()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		// Pick the highlighted match and leave search mode.
		m.sidebar.ClearSearch()
		return m.selectFromSidebar()

	case key.Matches(msg, m.keys.NextChat):
		m.sidebar.MoveDown()
		return m, nil

	case key.Matches(msg, m.keys.PrevChat):
		m.sidebar.MoveUp()
		return m, nil
	}

	switch msg.Type {
	case tea.KeyBackspace:
		// Queries may hold multi-byte runes, so trim by rune.
		if q := []rune(m.sidebar.Query); len(q) > 0 {
			m.sidebar.SetQuery(string(q[:len(q)-1]))
		}
	case tea.KeyRunes, tea.KeySpace:
		m.sidebar.SetQuery(m.sidebar.Query + string(msg.Runes))
	}
	return m, nil
}

// selectFromSidebar switches to the session under the sidebar cursor.
// Switching resets pending input and never touches message history.
func (m *Model) selectFromSidebar() (tea.Model, tea.Cmd) {
	target := m.sidebar.Selected()
	if target == nil || target.ID == m.sync.CurrentID() {
		return m, nil
	}
	m.sync.SwitchSession(target.ID)
	m.input.Reset()
	m.copiedBlock = -1
	return m, m.refresh()
}

// submitPrompt sends the pending input as a user message.
func (m *Model) submitPrompt() (tea.Model, tea.Cmd) {
	prompt := strings.TrimSpace(m.input.Value())
	if prompt == "" || m.waiting {
		return m, nil
	}
	sessionID := m.sync.CurrentID()
	if sessionID == "" {
		return m, nil
	}

	m.input.Reset()
	m.waiting = true
	return m, tea.Batch(
		m.spinner.Tick,
		appendUserCmd(m.sync, sessionID, prompt),
	)
}

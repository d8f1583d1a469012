// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"path/filepath"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/holachat/holachat/internal/auth"
	"github.com/holachat/holachat/internal/cache"
	chatsync "github.com/holachat/holachat/internal/chat"
	"github.com/holachat/holachat/internal/config"
	"github.com/holachat/holachat/internal/model"
	"github.com/holachat/holachat/internal/provider"
	"github.com/holachat/holachat/internal/store"
)

// newTestModel wires a real SQLite store and a signed-in gate; the provider
// client is configured but never called in these tests.
func newTestModel(t *testing.T) *Model {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	gate := auth.NewGate(filepath.Join(t.TempDir(), "identity.json"))
	if err := gate.SignIn(auth.Identity{ID: "tester"}); err != nil {
		t.Fatalf("sign in: %v", err)
	}

	sync := chatsync.NewSynchronizer(st, cache.New(t.TempDir()), gate)
	if err := sync.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	client := provider.NewClient(&provider.ClientConfig{APIKey: "test-key"})
	m := New(sync, client, config.Default().UI)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.loading = false
	return m
}

func TestSubmitPromptRequiresInput(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.submitPrompt()
	if cmd != nil || m.waiting {
		t.Error("empty input must not start a round-trip")
	}

	m.input.SetValue("   ")
	_, cmd = m.submitPrompt()
	if cmd != nil || m.waiting {
		t.Error("whitespace input must not start a round-trip")
	}
}

func TestSubmitPromptRoundTrip(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("hello model")

	_, cmd := m.submitPrompt()
	if cmd == nil {
		t.Fatal("submit should produce a command")
	}
	if !m.waiting {
		t.Error("model should be waiting after submit")
	}
	if m.input.Value() != "" {
		t.Error("input should reset on submit")
	}

	// Run the append and feed the result back.
	sent := findMsg[PromptSentMsg](t, cmd())
	if sent.Err != nil {
		t.Fatalf("append failed: %v", sent.Err)
	}
	if sent.Prompt != "hello model" {
		t.Errorf("prompt = %q", sent.Prompt)
	}

	_, next := m.Update(sent)
	if next == nil {
		t.Fatal("a successful append should continue into the provider call")
	}
	if got := m.sync.Current().MessageCount(); got != 1 {
		t.Errorf("session has %d messages, want the user prompt", got)
	}

	// Second submit while waiting is ignored.
	m.input.SetValue("too eager")
	if _, cmd := m.submitPrompt(); cmd != nil {
		t.Error("submits must be ignored while a call is in flight")
	}

	m.Update(CompletionMsg{SessionID: sent.SessionID})
	if m.waiting {
		t.Error("completion should clear the waiting state")
	}
}

func TestSwitchSessionResetsInput(t *testing.T) {
	m := newTestModel(t)

	// Give the first session a message so a second one can be created.
	if err := m.sync.AppendMessage(context.Background(), model.RoleUser, "first"); err != nil {
		t.Fatal(err)
	}
	if err := m.sync.CreateSession(context.Background()); err != nil {
		t.Fatal(err)
	}
	m.refresh()

	m.input.SetValue("half-typed thought")
	m.sidebar.MoveDown()
	m.selectFromSidebar()

	if m.input.Value() != "" {
		t.Error("switching sessions must reset pending input")
	}
}

func TestStaleHighlightDiscarded(t *testing.T) {
	m := newTestModel(t)

	old := m.hl.Next()
	m.hl.Next() // supersede

	m.Update(HighlightMsg{Generation: old, Key: "k", Text: "STALE", OK: true})
	if _, ok := m.highlights["k"]; ok {
		t.Error("stale highlight results must be dropped")
	}

	current := m.hl.Next()
	m.Update(HighlightMsg{Generation: current, Key: "k", Text: "FRESH", OK: true})
	if m.highlights["k"] != "FRESH" {
		t.Error("current-generation results must be stored")
	}
}

func TestUnknownLanguageHighlightedOnce(t *testing.T) {
	m := newTestModel(t)
	content := "```nosuchlang\nplain text body\n```"
	if err := m.sync.AppendMessage(context.Background(), model.RoleUser, content); err != nil {
		t.Fatal(err)
	}

	if cmd := m.refresh(); cmd == nil {
		t.Fatal("a fresh block should schedule a highlight pass")
	}

	// Chroma has no lexer for the declared language; the result comes back
	// plain. That still counts as done for this block.
	key := hlKey("plain text body\n", "nosuchlang")
	m.Update(HighlightMsg{
		Generation: m.hl.Next(),
		Key:        key,
		Text:       "plain text body\n",
		OK:         false,
	})
	if _, ok := m.highlights[key]; !ok {
		t.Fatal("plain results must be remembered")
	}
	if cmd := m.refresh(); cmd != nil {
		t.Error("a settled block must not be re-queued on redraw")
	}
}

func TestCopyConfirmationLifecycle(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(CopiedMsg{Block: 2})
	if m.copiedBlock != 2 {
		t.Errorf("copiedBlock = %d, want 2", m.copiedBlock)
	}
	if cmd == nil {
		t.Error("a copy should schedule its expiry")
	}

	// An expiry for a different block changes nothing.
	m.Update(CopyExpiredMsg{Block: 1})
	if m.copiedBlock != 2 {
		t.Error("mismatched expiry must not clear the confirmation")
	}

	m.Update(CopyExpiredMsg{Block: 2})
	if m.copiedBlock != -1 {
		t.Error("expiry should clear the confirmation")
	}
}

func TestSearchModeNarrowsSidebar(t *testing.T) {
	m := newTestModel(t)
	if err := m.sync.AppendMessage(context.Background(), model.RoleUser, "Trip to Japan plans"); err != nil {
		t.Fatal(err)
	}
	if err := m.sync.CreateSession(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := m.sync.AppendMessage(context.Background(), model.RoleUser, "Ramen recipe ideas"); err != nil {
		t.Fatal(err)
	}
	m.refresh()

	m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlF})
	if !m.sidebar.Searching {
		t.Fatal("ctrl+f should enter search mode")
	}

	for _, r := range "japan" {
		m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	filtered := m.sidebar.Filtered()
	if len(filtered) != 1 {
		t.Fatalf("filtered = %d sessions, want 1", len(filtered))
	}

	m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	if m.sidebar.Searching || m.sidebar.Query != "" {
		t.Error("esc should leave search mode and clear the query")
	}
	if len(m.sidebar.Filtered()) != 2 {
		t.Error("leaving search should restore the full list")
	}
}

func TestSearchBackspaceTrimsRunes(t *testing.T) {
	m := newTestModel(t)
	m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlF})

	for _, r := range "日本" {
		m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	m.handleKey(tea.KeyMsg{Type: tea.KeyBackspace})
	if m.sidebar.Query != "日" {
		t.Fatalf("query = %q, want %q", m.sidebar.Query, "日")
	}
	if !utf8.ValidString(m.sidebar.Query) {
		t.Fatal("query must stay valid UTF-8")
	}

	m.handleKey(tea.KeyMsg{Type: tea.KeyBackspace})
	m.handleKey(tea.KeyMsg{Type: tea.KeyBackspace})
	if m.sidebar.Query != "" {
		t.Errorf("backspace on an empty query should stay empty, got %q", m.sidebar.Query)
	}
}

// findMsg digs a message of type T out of a possibly batched command result.
func findMsg[T tea.Msg](t *testing.T, msg tea.Msg) T {
	t.Helper()
	if typed, ok := msg.(T); ok {
		return typed
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, cmd := range batch {
			if cmd == nil {
				continue
			}
			if typed, ok := cmd().(T); ok {
				return typed
			}
		}
	}
	var zero T
	t.Fatalf("message %T does not contain a %T", msg, zero)
	return zero
}

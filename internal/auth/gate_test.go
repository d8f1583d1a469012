// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestGateStartsLoading(t *testing.T) {
	g := NewGate(filepath.Join(t.TempDir(), "identity.json"))

	if !g.Loading() {
		t.Error("new gate should report loading")
	}
	if g.Current() != nil {
		t.Error("new gate should have no identity")
	}
}

func TestGateLoadMissingFile(t *testing.T) {
	g := NewGate(filepath.Join(t.TempDir(), "identity.json"))

	if err := g.Load(); err != nil {
		t.Fatalf("Load with missing file: %v", err)
	}
	if g.Loading() {
		t.Error("gate should resolve loading after Load")
	}
	if g.Current() != nil {
		t.Error("missing file should resolve to signed-out")
	}
}

func TestGateSignInRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.json")
	g := NewGate(path)

	want := Identity{ID: "user-1", Email: "dana@example.com"}
	if err := g.SignIn(want); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	got := g.Current()
	if got == nil || got.ID != want.ID || got.Email != want.Email {
		t.Errorf("Current() = %+v, want %+v", got, want)
	}

	// A fresh gate should load the persisted identity.
	g2 := NewGate(path)
	if err := g2.Load(); err != nil {
		t.Fatalf("Load persisted identity: %v", err)
	}
	got = g2.Current()
	if got == nil || got.ID != want.ID {
		t.Errorf("persisted identity = %+v, want %+v", got, want)
	}
}

func TestGateSignOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.json")
	g := NewGate(path)

	if err := g.SignIn(Identity{ID: "user-1"}); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if err := g.SignOut(); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if g.Current() != nil {
		t.Error("identity should be nil after sign-out")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("identity file should be removed on sign-out")
	}

	// Signing out again is a no-op.
	if err := g.SignOut(); err != nil {
		t.Fatalf("repeated SignOut: %v", err)
	}
}

func TestGateWatcherTransitions(t *testing.T) {
	g := NewGate(filepath.Join(t.TempDir(), "identity.json"))

	var seen []*Identity
	g.Watch(func(id *Identity) {
		seen = append(seen, id)
	})

	if err := g.SignIn(Identity{ID: "user-1"}); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if err := g.SignOut(); err != nil {
		t.Fatalf("SignOut: %v", err)
	}

	if len(seen) != 2 {
		t.Fatalf("watcher called %d times, want 2", len(seen))
	}
	if seen[0] == nil || seen[0].ID != "user-1" {
		t.Errorf("first notification = %+v, want user-1", seen[0])
	}
	if seen[1] != nil {
		t.Errorf("second notification = %+v, want nil", seen[1])
	}
}

func TestGateLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	g := NewGate(path)
	err := g.Load()
	if err == nil {
		t.Fatal("Load should report corrupt identity file")
	}
	if errors.Is(err, ErrNoIdentity) {
		t.Error("corrupt file is not the same as no identity")
	}
	// The gate still resolves: broken file degrades to signed-out.
	if g.Loading() {
		t.Error("gate should resolve loading even on corrupt file")
	}
	if g.Current() != nil {
		t.Error("corrupt file should resolve to signed-out")
	}
}

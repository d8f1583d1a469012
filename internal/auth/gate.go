// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth supplies the identity gate in front of the synchronizer.
package auth

import (
	"encoding/json"
	"errors"
	"os"
	"sync"

	"github.com/holachat/holachat/internal/util"
)

// =============================================================================
// IDENTITY TYPE
// =============================================================================

// Identity is an authenticated user as delivered by the external auth
// backend.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// ErrNoIdentity is returned when no identity file exists.
var ErrNoIdentity = errors.New("no stored identity")

// =============================================================================
// GATE
// =============================================================================

// Gate holds the current identity and a loading flag. It is safe for
// concurrent use; watchers are invoked without the lock held.
type Gate struct {
	mu       sync.Mutex
	path     string
	identity *Identity
	loading  bool
	watchers []func(*Identity)
}

// NewGate creates a gate backed by the identity file at path. The gate
// starts in the loading state until Load is called.
func NewGate(path string) *Gate {
	return &Gate{
		path:    path,
		loading: true,
	}
}

// Load reads the stored identity from disk and resolves the loading state.
// A missing file resolves to "no identity" without error; any other read or
// parse failure is returned after the state still resolves, so a broken
// identity file degrades to signed-out rather than wedging the gate.
func (g *Gate) Load() error {
	identity, err := readIdentityFile(g.path)

	g.mu.Lock()
	g.identity = identity
	g.loading = false
	watchers := append([]func(*Identity){}, g.watchers...)
	g.mu.Unlock()

	for _, fn := range watchers {
		fn(identity)
	}

	if err != nil && !errors.Is(err, ErrNoIdentity) {
		return err
	}
	return nil
}

// Current returns the authenticated identity, or nil if none.
func (g *Gate) Current() *Identity {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.identity
}

// Loading reports whether the identity is still being resolved.
func (g *Gate) Loading() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.loading
}

// Watch registers a callback invoked on every identity transition,
// including the transition to nil on sign-out.
func (g *Gate) Watch(fn func(*Identity)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.watchers = append(g.watchers, fn)
}

// SignIn stores the identity and notifies watchers.
func (g *Gate) SignIn(identity Identity) error {
	data, err := json.MarshalIndent(identity, "", "  ")
	if err != nil {
		return err
	}
	// Owner-only: the identity file names the account everything else keys on.
	if err := util.AtomicWriteFile(g.path, data, 0o600); err != nil {
		return err
	}

	g.mu.Lock()
	g.identity = &identity
	g.loading = false
	watchers := append([]func(*Identity){}, g.watchers...)
	g.mu.Unlock()

	for _, fn := range watchers {
		fn(&identity)
	}
	return nil
}

// SignOut clears the stored identity and notifies watchers with nil.
// Watchers run synchronously so dependent state (the session collection)
// is torn down before SignOut returns.
func (g *Gate) SignOut() error {
	err := os.Remove(g.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	g.mu.Lock()
	g.identity = nil
	watchers := append([]func(*Identity){}, g.watchers...)
	g.mu.Unlock()

	for _, fn := range watchers {
		fn(nil)
	}
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// readIdentityFile loads and validates the identity file.
func readIdentityFile(path string) (*Identity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoIdentity
		}
		return nil, err
	}

	var identity Identity
	if err := json.Unmarshal(data, &identity); err != nil {
		return nil, err
	}
	if identity.ID == "" {
		return nil, errors.New("identity file has no id")
	}

	return &identity, nil
}

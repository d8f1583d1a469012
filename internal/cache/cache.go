// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cache persists an advisory snapshot of the session collection.
package cache

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/holachat/holachat/internal/model"
	"github.com/holachat/holachat/internal/util"
)

// SnapshotKey namespaces the cached collection inside the snapshot file.
const SnapshotKey = "holachat_sessions_cache"

// ErrNoSnapshot is returned by Read when no snapshot has been written yet.
var ErrNoSnapshot = errors.New("no cached snapshot")

// snapshot is the on-disk envelope. The key guards against a foreign file
// at the same path being mistaken for a snapshot.
type snapshot struct {
	Key      string               `json:"key"`
	Owner    string               `json:"owner"`
	Sessions []*model.ChatSession `json:"sessions"`
}

// =============================================================================
// SNAPSHOT CACHE
// =============================================================================

// SnapshotCache reads and writes the session-collection snapshot file.
type SnapshotCache struct {
	path string
}

// New creates a cache rooted at the given directory.
func New(dir string) *SnapshotCache {
	return &SnapshotCache{
		path: filepath.Join(dir, "sessions.json"),
	}
}

// Path returns the snapshot file path.
func (c *SnapshotCache) Path() string {
	return c.path
}

// Read returns the cached collection for the owner. Any failure — missing
// file, unparsable JSON, wrong namespace key, different owner — returns an
// error; callers log and proceed without the snapshot.
func (c *SnapshotCache) Read(owner string) ([]*model.ChatSession, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSnapshot
		}
		return nil, err
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	if snap.Key != SnapshotKey {
		return nil, errors.New("snapshot has unexpected namespace key")
	}
	if snap.Owner != owner {
		return nil, errors.New("snapshot belongs to a different identity")
	}

	return snap.Sessions, nil
}

// Write persists the collection snapshot atomically. Called on every
// collection change; a failed write is the caller's to log and ignore.
func (c *SnapshotCache) Write(owner string, sessions []*model.ChatSession) error {
	snap := snapshot{
		Key:      SnapshotKey,
		Owner:    owner,
		Sessions: sessions,
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	return util.AtomicWriteFile(c.path, data, 0o600)
}

// Clear removes the snapshot file. Called when identity is lost so a later
// user never sees a previous user's sessions.
func (c *SnapshotCache) Clear() error {
	err := os.Remove(c.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

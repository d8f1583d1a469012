// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for holachat.
package config

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// CONFIG FILE WATCHER
// =============================================================================

// Watcher reloads the config file when it changes on disk. Editors tend to
// fire several events per save, so reloads are debounced; a reload that
// fails validation keeps the previous config and only logs.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	onReload func(*Config)
	cancel   context.CancelFunc
}

// NewWatcher creates a watcher for the config file at path. onReload is
// called with each successfully loaded config.
func NewWatcher(path string, debounce time.Duration, onReload func(*Config)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}
	return &Watcher{
		watcher:  fw,
		path:     path,
		debounce: debounce,
		onReload: onReload,
	}, nil
}

// Start begins watching. Watching the parent directory instead of the file
// itself survives the rename-over-save most editors do.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	go w.loop(ctx)
	return nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	if w.cancel != nil {
		w.cancel()
	}
	return w.watcher.Close()
}

func (w *Watcher) loop(ctx context.Context) {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[config] watch: %v", err)

		case <-fire:
			timer = nil
			fire = nil
			cfg, err := LoadFromPath(w.path)
			if err != nil {
				log.Printf("[config] reload: %v", err)
				continue
			}
			if w.onReload != nil {
				w.onReload(cfg)
			}
		}
	}
}

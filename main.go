// holachat - a terminal chat client for hosted LLMs.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/holachat/holachat/internal/auth"
	"github.com/holachat/holachat/internal/cache"
	chatsync "github.com/holachat/holachat/internal/chat"
	"github.com/holachat/holachat/internal/cli"
	"github.com/holachat/holachat/internal/config"
	"github.com/holachat/holachat/internal/provider"
	"github.com/holachat/holachat/internal/store"
	uichat "github.com/holachat/holachat/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

func main() {
	var (
		askPrompt  = flag.String("ask", "", "one-shot prompt; prints the reply and exits")
		configPath = flag.String("config", "", "config file (default ~/.holachat/config.toml)")
		version    = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *version {
		fmt.Printf("holachat %s (%s)\n", Version, GitCommit)
		return
	}

	if err := run(*askPrompt, *configPath); err != nil {
		fmt.Fprintln(os.Stderr, "holachat:", err)
		os.Exit(1)
	}
}

func run(askPrompt, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	client := provider.NewClient(&provider.ClientConfig{
		BaseURL:           cfg.Provider.BaseURL,
		APIKey:            cfg.Provider.APIKey,
		Model:             cfg.Provider.Model,
		Timeout:           time.Duration(cfg.Provider.TimeoutSecs) * time.Second,
		RequestsPerMinute: cfg.Provider.RequestsPerMinute,
	})

	// One-shot mode never touches sessions or the store.
	if askPrompt != "" {
		return cli.Ask(context.Background(), client, askPrompt, os.Stdout)
	}

	if err := config.EnsureDir(); err != nil {
		return err
	}
	closeLog, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	storePath, err := cfg.StorePath()
	if err != nil {
		return err
	}
	st, err := store.Open(storePath)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer st.Close()

	var snap *cache.SnapshotCache
	if cfg.Cache.Enabled {
		cacheDir, err := cfg.CacheDir()
		if err != nil {
			return err
		}
		snap = cache.New(cacheDir)
	}

	gate, err := resolveIdentity()
	if err != nil {
		return err
	}

	sync := chatsync.NewSynchronizer(st, snap, gate)

	// Tear the collection down the moment the identity goes away, so a
	// later sign-in never sees the previous account's sessions.
	gate.Watch(func(id *auth.Identity) {
		if id == nil {
			sync.Reset()
		}
	})

	model := uichat.New(sync, client, cfg.UI)

	program := tea.NewProgram(model, tea.WithAltScreen())

	// Reload provider settings when the config file changes on disk.
	watchPath, perr := configWatchPath(configPath)
	if perr == nil {
		watcher, werr := config.NewWatcher(watchPath, 0, func(updated *config.Config) {
			log.Printf("[main] config reloaded")
			client.UpdateConfig(&provider.ClientConfig{
				BaseURL:           updated.Provider.BaseURL,
				APIKey:            updated.Provider.APIKey,
				Model:             updated.Provider.Model,
				Timeout:           time.Duration(updated.Provider.TimeoutSecs) * time.Second,
				RequestsPerMinute: updated.Provider.RequestsPerMinute,
			})
		})
		if werr == nil {
			if serr := watcher.Start(); serr == nil {
				defer watcher.Close()
			}
		}
	}

	_, err = program.Run()
	return err
}

// loadConfig reads the config from the given path, or the default location.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

// configWatchPath returns the file the hot-reload watcher should follow:
// the explicit -config path when one was given, the default otherwise.
func configWatchPath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	return config.Path()
}

// resolveIdentity loads the stored identity, creating a local single-user
// identity on first run. Identity provisioning proper (sign-up, tokens)
// lives outside this program; the gate only answers who is signed in.
func resolveIdentity() (*auth.Gate, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	gate := auth.NewGate(filepath.Join(dir, "identity.json"))
	if err := gate.Load(); err != nil {
		log.Printf("[main] identity load: %v", err)
	}
	if gate.Current() == nil {
		host, _ := os.Hostname()
		if host == "" {
			host = "local"
		}
		if err := gate.SignIn(auth.Identity{ID: "local-" + host}); err != nil {
			return nil, fmt.Errorf("create local identity: %w", err)
		}
	}
	return gate, nil
}

// setupLogging sends the standard logger to a file so diagnostics never
// corrupt the TUI.
func setupLogging(cfg *config.Config) (func(), error) {
	logPath, err := cfg.LogPath()
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmsgprefix)
	return func() { f.Close() }, nil
}

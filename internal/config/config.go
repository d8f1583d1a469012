// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for holachat.
//
// Configuration comes from, in order of precedence:
//   - environment variables (HOLACHAT_*)
//   - ~/.holachat/config.toml
//   - built-in defaults
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete holachat configuration.
type Config struct {
	Provider ProviderConfig `toml:"provider"`
	Store    StoreConfig    `toml:"store"`
	Cache    CacheConfig    `toml:"cache"`
	UI       UIConfig       `toml:"ui"`
	Log      LogConfig      `toml:"log"`
}

// ProviderConfig configures the hosted inference API.
type ProviderConfig struct {
	// BaseURL is the OpenAI-compatible API root.
	BaseURL string `toml:"base_url"`
	// APIKey authenticates requests. Usually set via HOLACHAT_API_KEY
	// rather than written to disk.
	APIKey string `toml:"api_key"`
	// Model is the model identifier sent with every completion request.
	Model string `toml:"model"`
	// TimeoutSecs bounds a single completion round-trip.
	TimeoutSecs int `toml:"timeout_secs"`
	// RequestsPerMinute caps outgoing completion calls.
	RequestsPerMinute int `toml:"requests_per_minute"`
}

// StoreConfig configures the authoritative session store.
type StoreConfig struct {
	// Path is the SQLite database file (empty = ~/.holachat/sessions.db).
	Path string `toml:"path"`
}

// CacheConfig configures the advisory session snapshot.
type CacheConfig struct {
	// Enabled toggles the snapshot cache entirely.
	Enabled bool `toml:"enabled"`
	// Dir holds the snapshot file (empty = ~/.holachat/cache).
	Dir string `toml:"dir"`
}

// UIConfig contains presentation settings.
type UIConfig struct {
	// ShowTimestamps renders a timestamp next to each message.
	ShowTimestamps bool `toml:"show_timestamps"`
	// SidebarWidth is the session list width in columns.
	SidebarWidth int `toml:"sidebar_width"`
}

// LogConfig configures diagnostic logging.
type LogConfig struct {
	// Path is the log file (empty = ~/.holachat/holachat.log).
	Path string `toml:"path"`
}

// =============================================================================
// DEFAULTS AND PATHS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Provider: ProviderConfig{
			BaseURL:           "https://api.groq.com/openai/v1",
			Model:             "llama3-8b-8192",
			TimeoutSecs:       60,
			RequestsPerMinute: 30,
		},
		Cache: CacheConfig{Enabled: true},
		UI: UIConfig{
			SidebarWidth: 28,
		},
	}
}

// Dir returns the holachat state directory, creating nothing.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".holachat"), nil
}

// Path returns the config file location.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureDir creates the state directory with owner-only permissions.
func EnsureDir() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o700)
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the config file from the default location, layers environment
// overrides on the defaults, and validates. A missing file is not an error.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath is Load for an explicit file location.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as TOML to the default location.
func Save(cfg *Config) error {
	if err := EnsureDir(); err != nil {
		return err
	}
	path, err := Path()
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// ApplyEnvOverrides layers HOLACHAT_* environment variables over the file
// values. Environment wins.
func (c *Config) ApplyEnvOverrides() {
	if key := os.Getenv("HOLACHAT_API_KEY"); key != "" {
		c.Provider.APIKey = key
	}
	if model := os.Getenv("HOLACHAT_MODEL"); model != "" {
		c.Provider.Model = model
	}
	if base := os.Getenv("HOLACHAT_BASE_URL"); base != "" {
		c.Provider.BaseURL = base
	}
	if path := os.Getenv("HOLACHAT_STORE_PATH"); path != "" {
		c.Store.Path = path
	}
	if timeout := os.Getenv("HOLACHAT_TIMEOUT_SECS"); timeout != "" {
		if secs, err := strconv.Atoi(timeout); err == nil {
			c.Provider.TimeoutSecs = secs
		}
	}
	if cacheOff := os.Getenv("HOLACHAT_NO_CACHE"); cacheOff != "" {
		if off, err := strconv.ParseBool(cacheOff); err == nil && off {
			c.Cache.Enabled = false
		}
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError describes one invalid config field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// Validate checks field values and returns the first problem found.
func (c *Config) Validate() error {
	base := strings.TrimSpace(c.Provider.BaseURL)
	if base == "" {
		return ValidationError{Field: "provider.base_url", Message: "must not be empty"}
	}
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return ValidationError{Field: "provider.base_url", Message: "must be an http(s) URL"}
	}
	if strings.TrimSpace(c.Provider.Model) == "" {
		return ValidationError{Field: "provider.model", Message: "must not be empty"}
	}
	if c.Provider.TimeoutSecs <= 0 {
		return ValidationError{Field: "provider.timeout_secs", Message: "must be positive"}
	}
	if c.Provider.RequestsPerMinute <= 0 {
		return ValidationError{Field: "provider.requests_per_minute", Message: "must be positive"}
	}
	if c.UI.SidebarWidth < 16 {
		return ValidationError{Field: "ui.sidebar_width", Message: "must be at least 16"}
	}
	return nil
}

// =============================================================================
// RESOLVED PATHS
// =============================================================================

// StorePath returns the configured or default SQLite path.
func (c *Config) StorePath() (string, error) {
	if c.Store.Path != "" {
		return c.Store.Path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sessions.db"), nil
}

// CacheDir returns the configured or default snapshot directory.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cache"), nil
}

// LogPath returns the configured or default log file.
func (c *Config) LogPath() (string, error) {
	if c.Log.Path != "" {
		return c.Log.Path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "holachat.log"), nil
}

// Copyright (c) 2024-2025 UniHub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading for unihub.
//
// Sources, in order of precedence:
//   - environment variables (UNIHUB_*)
//   - ~/.unihub/config.toml
//   - a .env file in the working directory, loaded into the environment
//   - built-in defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete unihub configuration.
type Config struct {
	// API settings
	API APIConfig `toml:"api"`

	// Chat settings
	Chat ChatConfig `toml:"chat"`

	// Catalog settings
	Catalog CatalogConfig `toml:"catalog"`

	// UI settings
	UI UIConfig `toml:"ui"`

	// Log settings
	Log LogConfig `toml:"log"`
}

// APIConfig contains backend connection configuration.
type APIConfig struct {
	// BaseURL is the base URL of the UniHub backend API.
	BaseURL string `toml:"base_url"`
	// TimeoutSecs is the chat request timeout in seconds.
	TimeoutSecs int `toml:"timeout_secs"`
	// RatePerMinute caps outbound chat calls (0 = unlimited).
	RatePerMinute int `toml:"rate_per_minute"`
}

// ChatConfig contains conversation configuration.
type ChatConfig struct {
	// WelcomeMessage opens every session. Empty uses the built-in greeting.
	WelcomeMessage string `toml:"welcome_message"`
	// HistoryWindow caps how many messages travel with each request.
	// Zero sends the full history.
	HistoryWindow int `toml:"history_window"`
}

// CatalogConfig contains catalog listing configuration.
type CatalogConfig struct {
	// PageSize is the listing page size.
	PageSize int `toml:"page_size"`
	// CacheEnabled turns the offline snapshot cache on.
	CacheEnabled bool `toml:"cache_enabled"`
	// CachePath overrides the cache database location.
	CachePath string `toml:"cache_path"`
}

// UIConfig contains terminal UI configuration.
type UIConfig struct {
	// Theme selects the color theme: "dark" or "light".
	Theme string `toml:"theme"`
	// Markdown enables rendered markdown for assistant replies.
	Markdown bool `toml:"markdown"`
}

// LogConfig contains diagnostic logging configuration.
type LogConfig struct {
	// Level is the logrus level name: "debug", "info", "warn", "error".
	Level string `toml:"level"`
	// Path overrides the log file location (empty = ~/.unihub/unihub.log).
	Path string `toml:"path"`
}

// =============================================================================
// DEFAULTS AND PATHS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:     "http://localhost:8000/api",
			TimeoutSecs: 60,
		},
		Chat: ChatConfig{
			HistoryWindow: 40,
		},
		Catalog: CatalogConfig{
			PageSize:     20,
			CacheEnabled: true,
		},
		UI: UIConfig{
			Theme:    "dark",
			Markdown: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Dir returns the unihub configuration directory, creating it if needed.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	dir := filepath.Join(home, ".unihub")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return dir, nil
}

// Path returns the TOML config file location.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LogPath resolves the log file location from the config.
func (c *Config) LogPath() (string, error) {
	if c.Log.Path != "" {
		return c.Log.Path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "unihub.log"), nil
}

// CachePath resolves the catalog cache location from the config.
func (c *Config) CachePath() (string, error) {
	if c.Catalog.CachePath != "" {
		return c.Catalog.CachePath, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "catalog.db"), nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load builds the effective configuration: defaults, then the TOML file if
// present, then environment overrides. A malformed file is an error; a
// missing one is not.
func Load() (*Config, error) {
	// .env feeds the environment before overrides are read
	godotenv.Load()

	cfg := Default()

	path, err := Path()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadTOML(cfg, path); err != nil {
				return nil, fmt.Errorf("failed to load config: %w", err)
			}
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	return err
}

// Save writes cfg to the TOML config file.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ApplyEnvOverrides applies UNIHUB_* environment variables over cfg.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("UNIHUB_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("UNIHUB_API_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			c.API.TimeoutSecs = secs
		}
	}
	if v := os.Getenv("UNIHUB_WELCOME"); v != "" {
		c.Chat.WelcomeMessage = v
	}
	if v := os.Getenv("UNIHUB_HISTORY_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Chat.HistoryWindow = n
		}
	}
	if v := os.Getenv("UNIHUB_LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("UNIHUB_CACHE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Catalog.CacheEnabled = b
		}
	}
	if v := os.Getenv("UNIHUB_THEME"); v != "" {
		c.UI.Theme = strings.ToLower(v)
	}
}

// SetDefaults fills zero values with built-in defaults.
func (c *Config) SetDefaults() {
	def := Default()
	if c.API.BaseURL == "" {
		c.API.BaseURL = def.API.BaseURL
	}
	if c.API.TimeoutSecs <= 0 {
		c.API.TimeoutSecs = def.API.TimeoutSecs
	}
	if c.Chat.HistoryWindow < 0 {
		c.Chat.HistoryWindow = def.Chat.HistoryWindow
	}
	if c.Catalog.PageSize <= 0 {
		c.Catalog.PageSize = def.Catalog.PageSize
	}
	if c.UI.Theme == "" {
		c.UI.Theme = def.UI.Theme
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}

// Validate checks the configuration for usable values.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("api.base_url must be an http(s) URL, got %q", c.API.BaseURL)
	}
	switch c.UI.Theme {
	case "dark", "light":
	default:
		return fmt.Errorf("ui.theme must be dark or light, got %q", c.UI.Theme)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level %q is not a known level", c.Log.Level)
	}
	return nil
}

// =============================================================================
// GLOBAL ACCESS
// =============================================================================

var (
	globalMu  sync.RWMutex
	globalCfg *Config
)

// Global returns the process-wide configuration, loading it on first use.
func Global() *Config {
	globalMu.RLock()
	if globalCfg != nil {
		defer globalMu.RUnlock()
		return globalCfg
	}
	globalMu.RUnlock()

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalCfg == nil {
		cfg, err := Load()
		if err != nil {
			cfg = Default()
		}
		globalCfg = cfg
	}
	return globalCfg
}

// SetGlobal replaces the process-wide configuration.
func SetGlobal(cfg *Config) {
	globalMu.Lock()
	globalCfg = cfg
	globalMu.Unlock()
}

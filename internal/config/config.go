// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/morganforge/gemchat-tui/internal/model"
	"github.com/morganforge/gemchat-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete gemchat configuration.
type Config struct {
	// Version of the config schema.
	Version string `toml:"version" json:"version"`

	// DefaultMode is the backend mode selected at startup:
	// "flash", "pro", "web-search", or "agent".
	DefaultMode string `toml:"default_mode" json:"default_mode"`

	// DataDir is where chat history is persisted.
	// Empty means the config directory (~/.gemchat).
	DataDir string `toml:"data_dir" json:"data_dir"`

	// Gemini backend configuration.
	Gemini GeminiConfig `toml:"gemini" json:"gemini"`

	// Webhook (n8n agent) configuration.
	Webhook WebhookConfig `toml:"webhook" json:"webhook"`

	// UI configuration.
	UI UIConfig `toml:"ui" json:"ui"`
}

// GeminiConfig contains Gemini API settings. Model fields left empty
// fall back to the client's built-in model IDs.
type GeminiConfig struct {
	// APIKey is the Gemini API key. Required; normally set through
	// the GEMINI_API_KEY environment variable rather than on disk.
	APIKey string `toml:"api_key" json:"api_key"`

	// FlashModel overrides the fast conversational model ID.
	FlashModel string `toml:"flash_model" json:"flash_model"`
	// ProModel overrides the capable conversational model ID.
	ProModel string `toml:"pro_model" json:"pro_model"`
	// ImageModel overrides the image-edit model ID.
	ImageModel string `toml:"image_model" json:"image_model"`
	// ImagenModel overrides the image-generation model ID.
	ImagenModel string `toml:"imagen_model" json:"imagen_model"`
}

// WebhookConfig contains n8n webhook settings.
type WebhookConfig struct {
	// URL is the initial workflow webhook URL. The value saved from
	// inside the app takes precedence once one has been set.
	URL string `toml:"url" json:"url"`
	// TimeoutSecs is the HTTP timeout for webhook calls.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme"`
	// ShowSidebar shows the chat list sidebar on startup.
	ShowSidebar bool `toml:"show_sidebar" json:"show_sidebar"`
	// CompactMode uses a more compact UI layout.
	CompactMode bool `toml:"compact_mode" json:"compact_mode"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version:     "1.0.0",
		DefaultMode: "flash",

		Gemini: GeminiConfig{},

		Webhook: WebhookConfig{
			URL:         "",
			TimeoutSecs: 60,
		},

		UI: UIConfig{
			Theme:       "dark",
			ShowSidebar: true,
			CompactMode: false,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the gemchat configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".gemchat"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ensureSecurePermissions checks and fixes permissions on config
// files. Config files should be 0600 since they may hold the API key.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()

	if tomlPath, err := ConfigPathTOML(); err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				return nil, fmt.Errorf("failed to load TOML config: %w", err)
			}
			return finish(cfg)
		}
	}

	if jsonPath, err := ConfigPathJSON(); err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				return nil, fmt.Errorf("failed to load JSON config: %w", err)
			}
			return finish(cfg)
		}
	}

	return finish(cfg)
}

// LoadFromPath loads configuration from a specific file path with full
// validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	return finish(cfg)
}

// finish applies env overrides, fills defaults, and validates.
func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// fillDefaults fills in any missing values with defaults.
func (c *Config) fillDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.DefaultMode == "" {
		c.DefaultMode = defaults.DefaultMode
	}
	if c.Webhook.TimeoutSecs <= 0 {
		c.Webhook.TimeoutSecs = defaults.Webhook.TimeoutSecs
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides. Variables
// take precedence over values loaded from disk.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv("GEMCHAT_FLASH_MODEL"); v != "" {
		c.Gemini.FlashModel = v
	}
	if v := os.Getenv("GEMCHAT_PRO_MODEL"); v != "" {
		c.Gemini.ProModel = v
	}
	if v := os.Getenv("GEMCHAT_IMAGE_MODEL"); v != "" {
		c.Gemini.ImageModel = v
	}
	if v := os.Getenv("GEMCHAT_IMAGEN_MODEL"); v != "" {
		c.Gemini.ImagenModel = v
	}
	if v := os.Getenv("GEMCHAT_DEFAULT_MODE"); v != "" {
		c.DefaultMode = v
	}
	if v := os.Getenv("GEMCHAT_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("GEMCHAT_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("N8N_WEBHOOK_URL"); v != "" {
		c.Webhook.URL = v
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ErrMissingAPIKey is returned when no Gemini API key is configured.
// The application must not start without one.
var ErrMissingAPIKey = errors.New("no Gemini API key configured: set GEMINI_API_KEY or gemini.api_key in the config file")

// Validate checks the configuration for invalid values. The API key is
// checked separately through RequireAPIKey so commands that never call
// the API (version, help) still run.
func (c *Config) Validate() error {
	if _, err := model.ParseMode(c.DefaultMode); err != nil {
		return fmt.Errorf("invalid default_mode %q", c.DefaultMode)
	}

	switch c.UI.Theme {
	case "dark", "light", "auto":
	default:
		return fmt.Errorf("invalid theme %q (valid: dark, light, auto)", c.UI.Theme)
	}

	if c.Webhook.TimeoutSecs <= 0 {
		return fmt.Errorf("webhook timeout_secs must be positive, got %d", c.Webhook.TimeoutSecs)
	}
	if c.Webhook.URL != "" {
		u, err := url.Parse(c.Webhook.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid webhook url %q", c.Webhook.URL)
		}
	}

	return nil
}

// RequireAPIKey fails when no Gemini API key is configured.
func (c *Config) RequireAPIKey() error {
	if strings.TrimSpace(c.Gemini.APIKey) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// Mode returns the parsed default backend mode. Validate has already
// established that the value parses.
func (c *Config) Mode() model.Mode {
	m, _ := model.ParseMode(c.DefaultMode)
	return m
}

// ResolveDataDir returns the directory chat history is persisted in,
// creating it when necessary.
func (c *Config) ResolveDataDir() (string, error) {
	dir := c.DataDir
	if dir == "" {
		d, err := ConfigDir()
		if err != nil {
			return "", err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return dir, nil
}

// =============================================================================
// SAVE
// =============================================================================

// Save writes the configuration to the TOML config file atomically.
// The credential lives in this file, so both the file and its
// directory are owner-only.
func (c *Config) Save() error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return util.AtomicWriteFileWithDir(path, buf.Bytes(), 0600, 0700)
}

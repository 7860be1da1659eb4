// ============================================================================
// propkit - Properties Toolkit
// ============================================================================
//
// Package:     config
// Description: TOML configuration for propctl and embedding applications
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/BurntSushi/toml"

	mdwerror "github.com/msto63/propkit/foundation/core/error"
)

// EnvConfigPath names the environment variable holding the config path
const EnvConfigPath = "PROPKIT_CONFIG"

// Config holds the complete application configuration
type Config struct {
	General     GeneralConfig     `toml:"general"`
	Format      FormatConfig      `toml:"format"`
	Directories DirectoriesConfig `toml:"directories"`
	Store       StoreConfig       `toml:"store"`
	Watch       WatchConfig       `toml:"watch"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	Name      string `toml:"name"`
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

// FormatConfig holds the property file syntax
type FormatConfig struct {
	Separator        string `toml:"separator"`
	Comment          string `toml:"comment"`
	CommentsPosition string `toml:"comments_position"`
}

// DirectoriesConfig lists directories loaded into the registry at startup
type DirectoriesConfig struct {
	Paths     []string `toml:"paths"`
	Extension string   `toml:"extension"`
}

// StoreConfig holds snapshot store settings
type StoreConfig struct {
	Type string `toml:"type"`
	Path string `toml:"path"`
}

// WatchConfig holds directory watcher settings
type WatchConfig struct {
	Enabled  bool     `toml:"enabled"`
	Debounce Duration `toml:"debounce"`
}

// Duration wraps time.Duration for TOML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML file
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, mdwerror.New("config file not found").
			WithCode(mdwerror.CodeNotFound).
			WithOperation("config.Load").
			WithDetail("path", path)
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, mdwerror.Wrap(err, "failed to parse config").
			WithCode(mdwerror.CodeConfigError).
			WithOperation("config.Load").
			WithDetail("path", path)
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv loads configuration from the PROPKIT_CONFIG environment
// variable or the first default location that exists
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		defaultPaths := []string{
			"./configs/propkit.toml",
			"./propkit.toml",
			filepath.Join(os.Getenv("HOME"), ".config/propkit/propkit.toml"),
		}
		for _, p := range defaultPaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return nil, mdwerror.New("no config file found, set PROPKIT_CONFIG or create configs/propkit.toml").
			WithCode(mdwerror.CodeNotFound).
			WithOperation("config.LoadFromEnv")
	}

	return Load(path)
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.Name == "" {
		c.General.Name = "propkit"
	}
	if c.General.LogLevel == "" {
		c.General.LogLevel = "warn"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "text"
	}

	// Format
	if c.Format.Separator == "" {
		c.Format.Separator = "="
	}
	if c.Format.Comment == "" {
		c.Format.Comment = "#"
	}
	if c.Format.CommentsPosition == "" {
		c.Format.CommentsPosition = "top"
	}

	// Directories
	if c.Directories.Extension == "" {
		c.Directories.Extension = ".properties"
	}

	// Store
	if c.Store.Type == "" {
		c.Store.Type = "sqlite"
	}
	if c.Store.Path == "" {
		c.Store.Path = "./data/snapshots.db"
	}

	// Watch
	if c.Watch.Debounce.Duration == 0 {
		c.Watch.Debounce.Duration = 500 * time.Millisecond
	}
}

// expandEnvVars expands environment variables in path values
func (c *Config) expandEnvVars() {
	c.Store.Path = os.ExpandEnv(c.Store.Path)
	for i, p := range c.Directories.Paths {
		c.Directories.Paths[i] = os.ExpandEnv(p)
	}
}

// Validate checks values the property parser cannot work with
func (c *Config) Validate() error {
	if utf8.RuneCountInString(c.Format.Separator) != 1 {
		return invalid("format.separator must be a single character", c.Format.Separator)
	}
	if utf8.RuneCountInString(c.Format.Comment) != 1 {
		return invalid("format.comment must be a single character", c.Format.Comment)
	}
	if c.Format.Separator == c.Format.Comment {
		return invalid("format.separator and format.comment must differ", c.Format.Separator)
	}

	switch strings.ToLower(c.Format.CommentsPosition) {
	case "top", "bottom":
	default:
		return invalid("format.comments_position must be top or bottom", c.Format.CommentsPosition)
	}

	switch strings.ToLower(c.Store.Type) {
	case "sqlite", "bolt":
	default:
		return invalid("store.type must be sqlite or bolt", c.Store.Type)
	}
	return nil
}

// SeparatorRune returns the configured separator
func (c *Config) SeparatorRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Format.Separator)
	return r
}

// CommentRune returns the configured comment marker
func (c *Config) CommentRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Format.Comment)
	return r
}

func invalid(message, value string) error {
	return mdwerror.New(message).
		WithCode(mdwerror.CodeConfigError).
		WithOperation("config.Validate").
		WithDetail("value", value)
}

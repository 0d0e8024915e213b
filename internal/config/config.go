// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/phar

// Package config loads pharx settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/woozymasta/phar"
)

// EnvPath overrides the config file location.
const EnvPath = "PHARX_CONFIG"

// Config holds command-line defaults.
type Config struct {
	// ExtractRoot holds one output directory per archive base name.
	ExtractRoot string `toml:"extract_root"`
	// Pattern overrides the end-of-stub pattern.
	Pattern string `toml:"pattern"`
	// OpenPattern selects the CRLF-terminated pattern when Pattern is empty.
	OpenPattern bool `toml:"open_pattern"`
	// VerifySignature requires a valid signature trailer before extraction.
	VerifySignature bool `toml:"verify_signature"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
	// NoColor disables colored output.
	NoColor bool `toml:"no_color"`
}

// DefaultConfig returns built-in settings.
func DefaultConfig() *Config {
	return &Config{
		ExtractRoot: filepath.Join(os.TempDir(), phar.DefaultExtractSubdir),
		LogLevel:    "warn",
	}
}

// DefaultPath returns $PHARX_CONFIG or <user config dir>/pharx/config.toml.
func DefaultPath() string {
	if path := os.Getenv(EnvPath); path != "" {
		return path
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}

	return filepath.Join(dir, "pharx", "config.toml")
}

// Load reads path over defaults. Empty path means DefaultPath.
// A missing file yields defaults; a malformed one is an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	if _, err := cfg.Level(); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	if err := cfg.validateExtractRoot(); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes cfg to path, creating parent directories.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	return f.Close()
}

// Level parses LogLevel. Empty means warn.
func (c *Config) Level() (slog.Level, error) {
	if c.LogLevel == "" {
		return slog.LevelWarn, nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}

	return level, nil
}

// validateExtractRoot rejects empty and relative roots.
func (c *Config) validateExtractRoot() error {
	switch {
	case c.ExtractRoot == "":
		return errors.New("extract_root: must not be empty")
	case !filepath.IsAbs(c.ExtractRoot):
		return fmt.Errorf("extract_root: %q is not an absolute path", c.ExtractRoot)
	default:
		return nil
	}
}

// StubPattern returns the end-of-stub pattern selected by settings.
func (c *Config) StubPattern() []byte {
	switch {
	case c.Pattern != "":
		return []byte(c.Pattern)
	case c.OpenPattern:
		return []byte(phar.OpenPattern)
	default:
		return []byte(phar.DefaultPattern)
	}
}

// ExtractDir returns the output directory for archivePath under ExtractRoot.
func (c *Config) ExtractDir(archivePath string) string {
	return filepath.Join(c.ExtractRoot, filepath.Base(archivePath))
}

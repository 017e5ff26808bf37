// Package config loads and saves helix-anywhere settings.
//
// Settings live in $XDG_CONFIG_HOME/helix-anywhere/config.toml (falling back
// to ~/.config). A missing file is created with defaults on first load.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all configurable helix-anywhere settings.
type Config struct {
	Editor   string   `toml:"editor"` // binary name or absolute path
	Hotkey   Hotkey   `toml:"hotkey"`
	Terminal Terminal `toml:"terminal"`
}

// Hotkey is the stored form of the global chord.
type Hotkey struct {
	Modifiers []string `toml:"modifiers"` // cmd, shift, option, control (and aliases)
	Key       string   `toml:"key"`
}

// Terminal selects the terminal profile and its window size in cells.
type Terminal struct {
	Name   string `toml:"name"`
	Width  uint   `toml:"width"`
	Height uint   `toml:"height"`
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	return Config{
		Editor: "hx",
		Hotkey: Hotkey{
			Modifiers: []string{"cmd", "shift"},
			Key:       "semicolon",
		},
		Terminal: Terminal{
			Name:   "ghostty",
			Width:  100,
			Height: 30,
		},
	}
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	out := c
	out.Hotkey.Modifiers = append([]string(nil), c.Hotkey.Modifiers...)
	return out
}

// Dir returns the helix-anywhere config directory.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "helix-anywhere"), nil
}

// Path returns the config file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file at the default path, writing defaults first if
// it does not exist.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}
	return LoadOrCreate(path)
}

// LoadOrCreate reads the config file at path, writing defaults first if it
// does not exist.
func LoadOrCreate(path string) (*Config, error) {
	cfg, err := LoadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		d := Defaults()
		if err := SaveFile(path, &d); err != nil {
			return nil, err
		}
		return &d, nil
	}
	return cfg, err
}

// LoadFile reads and parses a TOML config file at path. Keys absent from the
// file keep their default values. A missing file yields an error wrapping
// os.ErrNotExist.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Defaults()
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Save writes cfg to the default config path.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return fmt.Errorf("resolving config path: %w", err)
	}
	return SaveFile(path, cfg)
}

// SaveFile encodes cfg as TOML and writes it atomically via a temp file +
// os.Rename, creating the directory if needed.
func SaveFile(path string, cfg *Config) (err error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "config-*.toml.tmp")
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up the temp file on any error path.
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Package config loads the labnote configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration.
type Config struct {
	// DBPath is the SQLite database location.
	DBPath string `yaml:"dbPath"`
	// ExportDir is where PDF reports are written.
	ExportDir string `yaml:"exportDir"`
	// Columns is the word-wrap budget for report text.
	Columns int `yaml:"columns"`
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "labnote", "config.yaml")
}

// Default returns the built-in configuration.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DBPath:    filepath.Join(home, ".labnote", "labnote.db"),
		ExportDir: filepath.Join(home, "Desktop"),
		Columns:   80,
	}
}

// Load reads the config file at path, merging it over the defaults. A
// missing file is not an error; the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Columns <= 0 {
		cfg.Columns = Default().Columns
	}
	return cfg, nil
}

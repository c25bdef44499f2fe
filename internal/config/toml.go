// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Calc   CalcConfig   `toml:"calc"`
	Habits HabitsConfig `toml:"habits"`
	Store  StoreConfig  `toml:"store"`
}

// CalcConfig maps grade calculator settings.
type CalcConfig struct {
	PreviousCGPA    *float64 `toml:"previous-cgpa"`
	PreviousCredits *int     `toml:"previous-credits"`
	Formula         *bool    `toml:"formula"`
}

// HabitsConfig maps habit tracker settings.
type HabitsConfig struct {
	ExportDir *string `toml:"export-dir"`
}

// StoreConfig maps storage settings.
type StoreConfig struct {
	Path *string `toml:"path"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// DBPath returns the configured database path or the default one.
func (c FileConfig) DBPath() string {
	if c.Store.Path != nil && *c.Store.Path != "" {
		return expandHome(*c.Store.Path)
	}
	return DefaultDBPath()
}

// ExportDir returns the configured export directory, or "" for the working directory.
func (c FileConfig) ExportDir() string {
	if c.Habits.ExportDir == nil {
		return ""
	}
	return expandHome(*c.Habits.ExportDir)
}

// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

const appName = "studykit"

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultDBPath returns the path of the SQLite database. STUDYKIT_DB overrides it.
func DefaultDBPath() string {
	if v := os.Getenv("STUDYKIT_DB"); v != "" {
		return v
	}
	return filepath.Join(XDGDataHome(), appName, appName+".db")
}

// DefaultSessionPath returns the path of the saved login session.
func DefaultSessionPath() string {
	return filepath.Join(XDGDataHome(), appName, "session.toml")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appName, "config.toml")
}

// DefaultExportPath returns where a habit workbook is written when no
// output path is given.
func DefaultExportPath(dir string) string {
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, "habit-tracker.xlsx")
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing config, got %v", err)
	}
	if cfg.Calc.PreviousCGPA != nil || cfg.Store.Path != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[calc]
previous-cgpa = 8.25
previous-credits = 60

[habits]
export-dir = "/tmp/exports"

[store]
path = "/tmp/studykit.db"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Calc.PreviousCGPA == nil || *cfg.Calc.PreviousCGPA != 8.25 {
		t.Fatalf("unexpected previous cgpa: %v", cfg.Calc.PreviousCGPA)
	}
	if cfg.Calc.PreviousCredits == nil || *cfg.Calc.PreviousCredits != 60 {
		t.Fatalf("unexpected previous credits: %v", cfg.Calc.PreviousCredits)
	}
	if cfg.ExportDir() != "/tmp/exports" {
		t.Fatalf("unexpected export dir: %q", cfg.ExportDir())
	}
	if cfg.DBPath() != "/tmp/studykit.db" {
		t.Fatalf("unexpected db path: %q", cfg.DBPath())
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[calc]\nprevious-gpa = 3\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestDefaultDBPathEnvOverride(t *testing.T) {
	t.Setenv("STUDYKIT_DB", "/tmp/override.db")
	if got := DefaultDBPath(); got != "/tmp/override.db" {
		t.Fatalf("unexpected db path: %q", got)
	}
}

func TestDefaultPathsUseXDG(t *testing.T) {
	t.Setenv("STUDYKIT_DB", "")
	t.Setenv("XDG_DATA_HOME", "/data")
	t.Setenv("XDG_CONFIG_HOME", "/conf")
	if got := DefaultDBPath(); got != filepath.Join("/data", "studykit", "studykit.db") {
		t.Fatalf("unexpected db path: %q", got)
	}
	if got := DefaultConfigPath(); got != filepath.Join("/conf", "studykit", "config.toml") {
		t.Fatalf("unexpected config path: %q", got)
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("STUDYKIT_TEST_VALUE=from-dotenv\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("STUDYKIT_TEST_VALUE", "")
	if err := os.Unsetenv("STUDYKIT_TEST_VALUE"); err != nil {
		t.Fatalf("unset: %v", err)
	}
	if err := LoadEnv(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("load env: %v", err)
	}
	if got := os.Getenv("STUDYKIT_TEST_VALUE"); got != "from-dotenv" {
		t.Fatalf("unexpected env value: %q", got)
	}
}

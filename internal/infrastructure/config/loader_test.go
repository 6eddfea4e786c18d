package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadWritesDefaultsOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	loader := NewFileLoader(path)

	cfg, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Preferences.Language != "pl" {
		t.Errorf("default language = %q, want pl", cfg.Preferences.Language)
	}
	if !cfg.Preferences.AutoDetectLanguage {
		t.Error("auto language detection disabled by default")
	}
	if !cfg.History.Enabled {
		t.Error("history disabled by default")
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("default config not written: %v", err)
	}
}

func TestLoadExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `config_format_version: "1"
preferences:
  language: de
  verbose: true
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewFileLoader(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Preferences.Language != "de" {
		t.Errorf("language = %q, want de", cfg.Preferences.Language)
	}
	if !cfg.Preferences.Verbose {
		t.Error("verbose flag lost")
	}
	// Unset numeric fields are hydrated, not left zero.
	if cfg.Preferences.TimeoutSeconds != 60 {
		t.Errorf("timeout = %d, want hydrated 60", cfg.Preferences.TimeoutSeconds)
	}
	if cfg.Voice.SilenceDurationMS != 1500 {
		t.Errorf("silence duration = %d, want hydrated 1500", cfg.Voice.SilenceDurationMS)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(":\n\t- broken"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := NewFileLoader(path).Load(context.Background()); err == nil {
		t.Fatal("malformed YAML accepted")
	}
}

func TestEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	t.Setenv("VERBA_CONFIG", path)

	if _, err := NewFileLoader("").Load(context.Background()); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config not created at VERBA_CONFIG path: %v", err)
	}
}

// Package config loads YAML configuration from the user's home directory.
package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mwiatr/verba/internal/domain"
	"github.com/mwiatr/verba/internal/pkg/filesystem"
	"github.com/mwiatr/verba/internal/ports"
)

// FileLoader loads YAML configuration from ~/.verba/config.yaml
// (overridable via VERBA_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader. An empty path uses the default
// resolution order.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider. A missing file is created with
// defaults on first run.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.resolvePath()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := defaultConfig()
			if err := writeDefault(path, cfg); err != nil {
				return domain.Config{}, err
			}
			return cfg, nil
		}
		return domain.Config{}, err
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, err
	}
	return hydrateDefaults(cfg), nil
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return l.overridePath
	}
	if custom := os.Getenv("VERBA_CONFIG"); custom != "" {
		return filesystem.ExpandHome(custom)
	}
	return filepath.Join(filesystem.UserHomeDir(), ".verba", "config.yaml")
}

func ensureConfigDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

func writeDefault(path string, cfg domain.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}

func defaultConfig() domain.Config {
	return domain.Config{
		ConfigFormatVersion: "1",
		Preferences: domain.Preferences{
			Language:           "pl",
			AutoDetectLanguage: true,
			Verbose:            false,
			AutoConfirm:        false,
			TimeoutSeconds:     60,
		},
		Voice: domain.VoiceConfig{
			Enabled:           false,
			SilenceDurationMS: 1500,
		},
		Security: domain.Security{
			RulesFile: filepath.Join(filesystem.UserHomeDir(), ".verba", "guardrail.yaml"),
		},
		History: domain.History{
			Enabled: true,
		},
	}
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.Preferences.Language == "" {
		cfg.Preferences.Language = "pl"
	}
	if cfg.Preferences.TimeoutSeconds == 0 {
		cfg.Preferences.TimeoutSeconds = 60
	}
	if cfg.Voice.SilenceDurationMS == 0 {
		cfg.Voice.SilenceDurationMS = 1500
	}
	return cfg
}

var _ ports.ConfigProvider = (*FileLoader)(nil)

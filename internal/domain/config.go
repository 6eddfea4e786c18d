package domain

// Config is the YAML configuration loaded from ~/.verba/config.yaml.
type Config struct {
	ConfigFormatVersion string      `yaml:"config_format_version"`
	Preferences         Preferences `yaml:"preferences"`
	Voice               VoiceConfig `yaml:"voice"`
	Security            Security    `yaml:"security"`
	History             History     `yaml:"history"`
}

// Preferences holds session-level defaults.
type Preferences struct {
	// Language is the session language tag: "pl", "de" or "en".
	Language string `yaml:"language"`

	// AutoDetectLanguage scores indicator words per utterance and switches
	// the active language when another one wins.
	AutoDetectLanguage bool `yaml:"auto_detect_language"`

	Verbose        bool `yaml:"verbose"`
	AutoConfirm    bool `yaml:"auto_confirm"`
	TimeoutSeconds int  `yaml:"timeout_seconds"`
}

// VoiceConfig controls the optional live-audio collaborator.
type VoiceConfig struct {
	Enabled bool `yaml:"enabled"`

	// SilenceDurationMS is the trailing-silence length that ends an utterance.
	SilenceDurationMS int `yaml:"silence_duration_ms"`
}

// Security points at the guardrail rules file.
type Security struct {
	RulesFile string `yaml:"rules_file"`
}

// History controls persistent execution-outcome storage.
type History struct {
	Enabled bool `yaml:"enabled"`
}

// Package security blocks destructive shell commands before execution.
package security

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mwiatr/verba/internal/pkg/filesystem"
	"github.com/mwiatr/verba/internal/ports"
)

// Guardrail evaluates commands against regex block rules.
type Guardrail struct {
	patterns []compiledPattern
}

type compiledPattern struct {
	re   *regexp.Regexp
	rule DangerPattern
}

// DangerPattern describes one regex-based block rule.
type DangerPattern struct {
	Pattern string `yaml:"pattern"`
	Message string `yaml:"message"`
}

// RulesFile is the YAML schema root.
type RulesFile struct {
	Rules struct {
		DangerPatterns []DangerPattern `yaml:"danger_patterns"`
	} `yaml:"rules"`
}

// NewGuardrail loads rules from disk, falling back to the built-in set when
// the file is missing or empty.
func NewGuardrail(path string) (*Guardrail, error) {
	rules, err := loadRules(path)
	if err != nil {
		return nil, err
	}

	var compiled []compiledPattern
	for _, pattern := range rules.Rules.DangerPatterns {
		re, err := regexp.Compile(pattern.Pattern)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, compiledPattern{re: re, rule: pattern})
	}
	return &Guardrail{patterns: compiled}, nil
}

// Evaluate reports whether command matches a block rule. The first matching
// rule's message is the reason.
func (g *Guardrail) Evaluate(command string) (bool, string) {
	for _, pattern := range g.patterns {
		if pattern.re.MatchString(command) {
			return true, pattern.rule.Message
		}
	}
	return false, ""
}

func loadRules(path string) (RulesFile, error) {
	var rules RulesFile
	path = expandPath(path)
	data, err := os.ReadFile(path)
	if err != nil {
		rules.Rules.DangerPatterns = defaultPatterns()
		return rules, nil
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return RulesFile{}, err
	}
	if len(rules.Rules.DangerPatterns) == 0 {
		rules.Rules.DangerPatterns = defaultPatterns()
	}
	return rules, nil
}

func expandPath(path string) string {
	if path == "" {
		return filepath.Join(filesystem.UserHomeDir(), ".verba", "guardrail.yaml")
	}
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(filesystem.UserHomeDir(), path[2:])
	}
	return filepath.Join(filesystem.UserHomeDir(), path)
}

func defaultPatterns() []DangerPattern {
	return []DangerPattern{
		{Pattern: `rm\s+-rf\s+/\s*$`, Message: "Deleting root directory"},
		{Pattern: `rm\s+-rf\s+/\*`, Message: "Deleting root directory contents"},
		{Pattern: `rm\s+-rf\s+\$HOME`, Message: "Deleting home directory"},
		{Pattern: `:\(\)\{\s*:\|:\s*&\s*\};:`, Message: "Fork bomb"},
		{Pattern: `dd\s+if=/dev/zero\s+of=/dev/sd`, Message: "Raw disk writing"},
		{Pattern: `mkfs\.`, Message: "Formatting filesystem"},
		{Pattern: `> /dev/(sd[a-z]|nvme)`, Message: "Writing to block device"},
	}
}

var _ ports.Guardrail = (*Guardrail)(nil)

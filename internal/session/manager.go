package session

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mwiatr/verba/internal/domain"
)

const executionHistoryLimit = 100

// naturalTargets maps classifier verbs to candidate build-file targets, in
// preference order.
var naturalTargets = map[string][]string{
	"build":   {"build", "all", "compile"},
	"test":    {"test", "tests", "check"},
	"clean":   {"clean", "distclean"},
	"install": {"install"},
	"run":     {"run", "start", "serve"},
	"lint":    {"lint", "check", "style"},
	"docs":    {"docs", "doc", "documentation"},
}

// Manager owns the project snapshot and conversation state of one session.
// All shared mutable state belongs to exactly one Manager; concurrent
// sessions must use independent instances.
type Manager struct {
	id         string
	workingDir string
	project    domain.ProjectContext
	state      domain.ConversationState
	history    []domain.ExecutionOutcome
}

// NewManager detects the project at dir (the process working directory when
// empty) and starts a fresh conversation.
func NewManager(dir string) *Manager {
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	now := time.Now()
	m := &Manager{
		id:         uuid.NewString(),
		workingDir: abs,
		state: domain.ConversationState{
			StartedAt:    now,
			LastActivity: now,
			Variables:    map[string]string{},
		},
	}
	m.Refresh()
	return m
}

// ID returns the session identifier.
func (m *Manager) ID() string { return m.id }

// WorkingDir returns the current working directory.
func (m *Manager) WorkingDir() string { return m.workingDir }

// Project returns the current project snapshot.
func (m *Manager) Project() domain.ProjectContext { return m.project }

// State returns a copy of the conversation state.
func (m *Manager) State() domain.ConversationState { return m.state }

// Refresh re-runs project detection against the working directory.
func (m *Manager) Refresh() {
	m.project = DetectProject(m.workingDir)
}

// ChangeDirectory resolves path against the working directory and, if it is
// an existing directory, switches to it and re-detects the project
// synchronously. It returns false for a nonexistent target and never errors.
func (m *Manager) ChangeDirectory(path string) bool {
	next := path
	if !filepath.IsAbs(next) {
		next = filepath.Join(m.workingDir, next)
	}
	next = filepath.Clean(next)
	if !dirExists(next) {
		return false
	}
	m.workingDir = next
	m.Refresh()
	return true
}

// UpdateState records a completed command.
func (m *Manager) UpdateState(kind domain.IntentKind, target string) {
	m.state.LastActivity = time.Now()
	m.state.CommandCount++
	m.state.LastKind = kind
	m.state.LastTarget = target
}

// RecordOutcome appends an execution outcome, dropping the oldest entries
// beyond the cap.
func (m *Manager) RecordOutcome(outcome domain.ExecutionOutcome) {
	m.history = append(m.history, outcome)
	if len(m.history) > executionHistoryLimit {
		m.history = m.history[len(m.history)-executionHistoryLimit:]
	}
}

// History returns the retained outcomes, oldest first.
func (m *Manager) History() []domain.ExecutionOutcome {
	return append([]domain.ExecutionOutcome(nil), m.history...)
}

// LastOutcome returns the most recent outcome, if any.
func (m *Manager) LastOutcome() (domain.ExecutionOutcome, bool) {
	if len(m.history) == 0 {
		return domain.ExecutionOutcome{}, false
	}
	return m.history[len(m.history)-1], true
}

// SetPending stores an action awaiting confirmation, replacing any prior one.
func (m *Manager) SetPending(action string, details map[string]string) {
	m.state.Pending = &domain.PendingConfirmation{
		Action:  action,
		Details: details,
		SetAt:   time.Now(),
	}
}

// ClearPending drops the pending confirmation, if any.
func (m *Manager) ClearPending() {
	m.state.Pending = nil
}

// Pending returns the stored confirmation, or nil.
func (m *Manager) Pending() *domain.PendingConfirmation {
	return m.state.Pending
}

// SetVariable stores a free-form session variable.
func (m *Manager) SetVariable(name, value string) {
	m.state.Variables[name] = value
}

// Variable reads a session variable.
func (m *Manager) Variable(name string) (string, bool) {
	v, ok := m.state.Variables[name]
	return v, ok
}

// ResolveTarget maps a natural verb onto a detected build-file target:
// direct match first, then the natural-verb table, then a substring fuzzy
// match. Empty result means no target could be resolved.
func (m *Manager) ResolveTarget(word string) string {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return ""
	}
	for _, t := range m.project.MakeTargets {
		if t == word {
			return t
		}
	}
	for _, candidate := range naturalTargets[word] {
		for _, t := range m.project.MakeTargets {
			if t == candidate {
				return t
			}
		}
	}
	for _, t := range m.project.MakeTargets {
		if strings.Contains(t, word) || strings.Contains(word, t) {
			return t
		}
	}
	return ""
}

// ContextualOptions derives the available options from the current project
// and conversation snapshot, one ordered group per detected backend.
func (m *Manager) ContextualOptions() []domain.OptionGroup {
	var groups []domain.OptionGroup

	if m.project.HasMakefile {
		opts := make([]string, 0, 5)
		for _, t := range m.project.MakeTargets {
			if len(opts) == 5 {
				break
			}
			opts = append(opts, "make "+t)
		}
		groups = append(groups, domain.OptionGroup{Category: "make", Options: opts})
	}

	if m.project.HasGit {
		opts := []string{"status", "pull", "push", "commit"}
		if m.project.GitBranch != "" {
			opts = append([]string{"branch: " + m.project.GitBranch}, opts...)
		}
		groups = append(groups, domain.OptionGroup{Category: "git", Options: opts})
	}

	if m.project.HasDockerfile || m.project.HasCompose {
		var opts []string
		if m.project.HasDockerfile {
			opts = append(opts, "docker build", "docker run")
		}
		if m.project.HasCompose {
			opts = append(opts, "compose up", "compose down")
			for i, svc := range m.project.ComposeServices {
				if i == 3 {
					break
				}
				opts = append(opts, "compose logs "+svc)
			}
		}
		groups = append(groups, domain.OptionGroup{Category: "docker", Options: opts})
	}

	if m.project.HasPython {
		opts := []string{"pytest", "pip install -r requirements.txt"}
		if m.project.PythonVenv != "" {
			opts = append([]string{"venv: active"}, opts...)
		}
		groups = append(groups, domain.OptionGroup{Category: "python", Options: opts})
	}

	if len(groups) == 0 {
		groups = append(groups, domain.OptionGroup{
			Category: "general",
			Options:  []string{"cd <directory>", "pwd", "ls"},
		})
	}

	switch m.state.LastKind {
	case domain.KindBuild:
		if m.state.LastTarget != "" {
			groups = append(groups, domain.OptionGroup{
				Category: "continuation",
				Options: []string{
					fmt.Sprintf("repeat %s", m.state.LastTarget),
					"next target",
					"clean and build",
				},
			})
		}
	case domain.KindGit:
		groups = append(groups, domain.OptionGroup{
			Category: "continuation",
			Options:  []string{"push", "status", "log"},
		})
	}

	return groups
}

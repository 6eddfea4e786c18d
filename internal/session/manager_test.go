package session

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/mwiatr/verba/internal/domain"
)

func newManagerWithMakefile(t *testing.T, targets string) *Manager {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Makefile"), []byte(targets), 0o644); err != nil {
		t.Fatal(err)
	}
	return NewManager(dir)
}

const standardMakefile = `all:
	@echo all
build:
	@echo build
test:
	@echo test
clean:
	@echo clean
`

func TestResolveTarget(t *testing.T) {
	m := newManagerWithMakefile(t, standardMakefile)

	tests := []struct {
		word string
		want string
	}{
		{"build", "build"},
		{"test", "test"},
		{"tests", "test"},
		{"clean", "clean"},
		{"check", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := m.ResolveTarget(tt.word); got != tt.want {
			t.Errorf("ResolveTarget(%q) = %q, want %q", tt.word, got, tt.want)
		}
	}
}

func TestResolveTargetNaturalVerbFallback(t *testing.T) {
	// Without a literal "build" target the natural-verb table should land
	// on "all".
	m := newManagerWithMakefile(t, "all:\n\t@echo all\ncompile:\n\t@echo c\n")

	if got := m.ResolveTarget("build"); got != "all" {
		t.Errorf("ResolveTarget(build) = %q, want all", got)
	}
}

func TestResolveTargetFuzzySubstring(t *testing.T) {
	m := newManagerWithMakefile(t, "test-unit:\n\t@echo u\n")

	if got := m.ResolveTarget("test"); got != "test-unit" {
		t.Errorf("ResolveTarget(test) = %q, want test-unit", got)
	}
}

func TestPendingConfirmationLastWriteWins(t *testing.T) {
	m := NewManager(t.TempDir())

	m.SetPending("execute", map[string]string{"command": "make all"})
	m.SetPending("execute", map[string]string{"command": "make clean"})

	pending := m.Pending()
	if pending == nil {
		t.Fatal("pending is nil")
	}
	if pending.Details["command"] != "make clean" {
		t.Errorf("pending command = %q, want the later write", pending.Details["command"])
	}

	m.ClearPending()
	if m.Pending() != nil {
		t.Error("pending survived ClearPending")
	}
}

func TestExecutionHistoryCap(t *testing.T) {
	m := NewManager(t.TempDir())
	for i := 0; i < 110; i++ {
		m.RecordOutcome(domain.ExecutionOutcome{Command: fmt.Sprintf("cmd-%d", i), Success: true})
	}

	history := m.History()
	if len(history) != 100 {
		t.Fatalf("history length = %d, want 100", len(history))
	}
	if history[0].Command != "cmd-10" {
		t.Errorf("oldest = %q, want cmd-10", history[0].Command)
	}
	last, ok := m.LastOutcome()
	if !ok || last.Command != "cmd-109" {
		t.Errorf("last = %q (%t), want cmd-109", last.Command, ok)
	}
}

func TestChangeDirectory(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "Makefile"), []byte("deploy:\n\t@echo d\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewManager(root)
	if m.Project().HasMakefile {
		t.Fatal("root should have no Makefile")
	}

	if !m.ChangeDirectory("sub") {
		t.Fatal("ChangeDirectory failed for existing directory")
	}
	if !m.Project().HasMakefile {
		t.Error("project not refreshed after directory change")
	}

	if m.ChangeDirectory("does-not-exist") {
		t.Error("ChangeDirectory succeeded for missing directory")
	}
	if m.WorkingDir() != sub {
		t.Errorf("working dir = %q, want unchanged %q", m.WorkingDir(), sub)
	}
}

func TestContextualOptionsFallback(t *testing.T) {
	m := NewManager(t.TempDir())

	groups := m.ContextualOptions()
	if len(groups) != 1 || groups[0].Category != "general" {
		t.Fatalf("groups = %+v, want single general group", groups)
	}
}

func TestContextualOptionsContinuation(t *testing.T) {
	m := newManagerWithMakefile(t, standardMakefile)
	m.UpdateState(domain.KindBuild, "all")

	groups := m.ContextualOptions()
	last := groups[len(groups)-1]
	if last.Category != "continuation" {
		t.Fatalf("last group = %q, want continuation", last.Category)
	}
}

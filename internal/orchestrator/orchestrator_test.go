package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/mwiatr/verba/internal/classifier"
	"github.com/mwiatr/verba/internal/domain"
	"github.com/mwiatr/verba/internal/session"
	"github.com/mwiatr/verba/internal/suggest"
)

type fakeBuild struct {
	targets []string
	outcome domain.ExecutionOutcome
}

func (f *fakeBuild) Available() bool { return true }
func (f *fakeBuild) Run(_ context.Context, target string) domain.ExecutionOutcome {
	f.targets = append(f.targets, target)
	out := f.outcome
	out.Command = strings.TrimSpace("make " + target)
	return out
}

type fakeShell struct {
	commands []string
	outcome  domain.ExecutionOutcome
}

func (f *fakeShell) Translate(natural string) string { return natural }
func (f *fakeShell) Run(_ context.Context, command string) domain.ExecutionOutcome {
	f.commands = append(f.commands, command)
	out := f.outcome
	out.Command = command
	return out
}

type fakeGit struct {
	repo     bool
	naturals []string
	outcome  domain.ExecutionOutcome
}

func (f *fakeGit) IsRepo() bool { return f.repo }
func (f *fakeGit) RunNatural(_ context.Context, text string) domain.ExecutionOutcome {
	f.naturals = append(f.naturals, text)
	return f.outcome
}

type fakeDocker struct {
	available bool
	outcome   domain.ExecutionOutcome
}

func (f *fakeDocker) Available() bool { return f.available }
func (f *fakeDocker) RunNatural(_ context.Context, _ string) domain.ExecutionOutcome {
	return f.outcome
}

type fakePython struct {
	outcome domain.ExecutionOutcome
}

func (f *fakePython) RunNatural(_ context.Context, _ string) domain.ExecutionOutcome {
	return f.outcome
}

func okOutcome() domain.ExecutionOutcome {
	return domain.ExecutionOutcome{Success: true, Stdout: "done", Duration: 10 * time.Millisecond}
}

func newTestOrchestrator(t *testing.T, dir string) (*Orchestrator, *fakeBuild, *fakeShell, *fakeGit) {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	build := &fakeBuild{outcome: okOutcome()}
	shell := &fakeShell{outcome: okOutcome()}
	git := &fakeGit{repo: true, outcome: okOutcome()}
	o := &Orchestrator{
		Classifier: classifier.New("en", false),
		Session:    session.NewManager(dir),
		Engine:     suggest.NewEngine(),
		Build:      build,
		Shell:      shell,
		Git:        git,
		Docker:     &fakeDocker{available: true, outcome: okOutcome()},
		Python:     &fakePython{outcome: okOutcome()},
	}
	return o, build, shell, git
}

func dirWithMakefile(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	content := "all:\n\t@echo all\nbuild:\n\t@echo b\ntest:\n\t@echo t\nclean:\n\t@echo c\n"
	if err := os.WriteFile(filepath.Join(dir, "Makefile"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestBuildTargetResolution(t *testing.T) {
	o, build, _, _ := newTestOrchestrator(t, dirWithMakefile(t))

	resp := o.Process(context.Background(), "run the tests")
	if !resp.Success {
		t.Fatalf("response failed: %s", resp.Message)
	}
	if len(build.targets) != 1 || build.targets[0] != "test" {
		t.Fatalf("build targets = %v, want [test]", build.targets)
	}
}

func TestBuildExplicitMakeTarget(t *testing.T) {
	o, build, _, _ := newTestOrchestrator(t, dirWithMakefile(t))

	o.Process(context.Background(), "make clean")
	if len(build.targets) != 1 || build.targets[0] != "clean" {
		t.Fatalf("build targets = %v, want [clean]", build.targets)
	}
}

func TestBuildWithoutMakefileFails(t *testing.T) {
	o, build, _, _ := newTestOrchestrator(t, "")

	resp := o.Process(context.Background(), "build the project")
	if resp.Success {
		t.Fatal("build succeeded without a Makefile")
	}
	if !strings.Contains(resp.Message, "Makefile") {
		t.Errorf("message = %q, want a Makefile explanation", resp.Message)
	}
	if len(build.targets) != 0 {
		t.Error("backend was invoked despite missing Makefile")
	}
}

func TestGitWithoutRepositoryFails(t *testing.T) {
	o, _, _, git := newTestOrchestrator(t, "")
	git.repo = false

	resp := o.Process(context.Background(), "push")
	if resp.Success {
		t.Fatal("git command succeeded outside a repository")
	}
	if !strings.Contains(resp.Message, "repository") {
		t.Errorf("message = %q, want a repository explanation", resp.Message)
	}
}

func TestShellFallbackExecutes(t *testing.T) {
	o, _, shell, _ := newTestOrchestrator(t, "")

	resp := o.Process(context.Background(), "frobnicate the widget")
	if !resp.Success {
		t.Fatalf("fallback failed: %s", resp.Message)
	}
	if len(shell.commands) != 1 {
		t.Fatalf("shell commands = %v, want one invocation", shell.commands)
	}
}

func TestErrorSuggestionsAfterFailure(t *testing.T) {
	o, _, shell, _ := newTestOrchestrator(t, "")
	shell.outcome = domain.ExecutionOutcome{
		Success:  false,
		Stderr:   "sh: /opt/tool: Permission denied",
		ExitCode: 126,
	}

	resp := o.Process(context.Background(), "run /opt/tool")
	if resp.Success {
		t.Fatal("expected failure")
	}
	found := false
	for _, s := range resp.Suggestions {
		if s.Command == "sudo !!" {
			found = true
			if s.Score != 1.0 {
				t.Errorf("sudo score = %v, want boosted 1.0", s.Score)
			}
		}
	}
	if !found {
		t.Error("no elevated-privilege suggestion after permission denial")
	}
}

func TestNextConfirmCycle(t *testing.T) {
	o, _, shell, _ := newTestOrchestrator(t, "")
	ctx := context.Background()

	o.Process(ctx, "run alpha")
	o.Process(ctx, "run beta")
	o.Process(ctx, "run alpha")

	resp := o.Process(ctx, "next")
	if !resp.NeedsConfirmation {
		t.Fatalf("next did not request confirmation: %+v", resp)
	}
	if !strings.Contains(resp.ConfirmationPrompt, "run beta") {
		t.Errorf("prompt = %q, want the learned follow-up", resp.ConfirmationPrompt)
	}
	if o.Session.Pending() == nil {
		t.Fatal("no pending confirmation stored")
	}

	before := len(shell.commands)
	confirm := o.Process(ctx, "yes")
	if !confirm.Success {
		t.Fatalf("confirmation failed: %s", confirm.Message)
	}
	if len(shell.commands) != before+1 || shell.commands[before] != "beta" {
		t.Fatalf("shell commands after confirm = %v, want beta appended", shell.commands)
	}
	if o.Session.Pending() != nil {
		t.Error("pending not cleared after confirmation")
	}
}

func TestDenyClearsPending(t *testing.T) {
	o, _, shell, _ := newTestOrchestrator(t, "")
	ctx := context.Background()

	o.Process(ctx, "run alpha")
	o.Process(ctx, "run beta")
	o.Process(ctx, "run alpha")
	o.Process(ctx, "next")

	before := len(shell.commands)
	resp := o.Process(ctx, "no")
	if resp.Message != "Cancelled." {
		t.Errorf("message = %q, want Cancelled.", resp.Message)
	}
	if o.Session.Pending() != nil {
		t.Error("pending survived denial")
	}
	if len(shell.commands) != before {
		t.Error("denied command was executed")
	}
}

func TestConfirmWithoutPending(t *testing.T) {
	o, _, _, _ := newTestOrchestrator(t, "")

	resp := o.Process(context.Background(), "yes")
	if !resp.Success {
		t.Fatal("bare confirmation should not fail")
	}
	if !strings.Contains(resp.Message, "Nothing") {
		t.Errorf("message = %q, want a nothing-pending note", resp.Message)
	}
}

func TestRepeatReinvokesLastInput(t *testing.T) {
	o, _, shell, _ := newTestOrchestrator(t, "")
	ctx := context.Background()

	o.Process(ctx, "run alpha")
	o.Process(ctx, "again")

	if len(shell.commands) != 2 || shell.commands[1] != "alpha" {
		t.Fatalf("shell commands = %v, want alpha twice", shell.commands)
	}
}

func TestRepeatWithoutHistory(t *testing.T) {
	o, _, _, _ := newTestOrchestrator(t, "")

	resp := o.Process(context.Background(), "again")
	if resp.Success {
		t.Fatal("repeat with no prior command should fail")
	}
	if !strings.Contains(resp.Message, "No previous command") {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestUndoUnsupported(t *testing.T) {
	o, _, _, _ := newTestOrchestrator(t, "")

	resp := o.Process(context.Background(), "undo")
	if resp.Success {
		t.Fatal("undo should report as unsupported")
	}
	if !strings.Contains(resp.Message, "not supported") {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestQueryIsReadOnly(t *testing.T) {
	o, build, shell, git := newTestOrchestrator(t, dirWithMakefile(t))

	resp := o.Process(context.Background(), "what can i do")
	if !resp.Success {
		t.Fatalf("query failed: %s", resp.Message)
	}
	if !strings.Contains(resp.Message, "make") {
		t.Errorf("options message = %q, want make targets listed", resp.Message)
	}
	if len(build.targets)+len(shell.commands)+len(git.naturals) != 0 {
		t.Error("query invoked a backend")
	}
	if o.Session.State().CommandCount != 0 {
		t.Error("query mutated conversation state")
	}
}

func TestStatusQuery(t *testing.T) {
	o, _, _, _ := newTestOrchestrator(t, dirWithMakefile(t))

	resp := o.Process(context.Background(), "what is the status")
	if !resp.Success {
		t.Fatalf("status query failed: %s", resp.Message)
	}
	if !strings.Contains(resp.Message, "Makefile: 4 targets") {
		t.Errorf("status = %q, want Makefile target count", resp.Message)
	}
}

func TestVerboseTrace(t *testing.T) {
	o, _, _, _ := newTestOrchestrator(t, "")
	o.Verbose = true

	resp := o.Process(context.Background(), "run alpha")
	if !strings.Contains(resp.Message, "TRACE:") {
		t.Errorf("verbose response has no trace block: %q", resp.Message)
	}
}

func TestTruncateTrimsAtRuneBoundary(t *testing.T) {
	long := strings.Repeat("ż", 120)
	got := truncate(long, 201)
	if !utf8.ValidString(got) {
		t.Fatalf("truncated output is not valid UTF-8: %q", got)
	}
	if want := strings.Repeat("ż", 100) + "..."; got != want {
		t.Errorf("truncate = %q, want %q", got, want)
	}
	if got := truncate("short\n", 200); got != "short" {
		t.Errorf("truncate = %q, want short", got)
	}
}

func TestSelectSuggestion(t *testing.T) {
	suggestions := []domain.Suggestion{
		{Text: "check status", Command: "git status"},
		{Text: "pull changes", Command: "git pull", Shortcut: "p"},
	}

	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"1", "git status", true},
		{"[2]", "git pull", true},
		{"2.", "git pull", true},
		{"p", "git pull", true},
		{"3", "", false},
		{"0", "", false},
		{"2x", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := SelectSuggestion(tt.input, suggestions)
		if ok != tt.ok || (ok && got.Command != tt.want) {
			t.Errorf("SelectSuggestion(%q) = %q/%t, want %q/%t", tt.input, got.Command, ok, tt.want, tt.ok)
		}
	}
}

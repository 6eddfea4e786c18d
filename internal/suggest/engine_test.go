package suggest

import (
	"testing"

	"github.com/mwiatr/verba/internal/domain"
)

func TestSuggestionsFromContext(t *testing.T) {
	e := NewEngine()
	ctx := domain.ProjectContext{HasMakefile: true, HasGit: true}

	got := e.Suggestions("", ctx, nil, 5)
	if len(got) == 0 {
		t.Fatal("no suggestions for make+git project")
	}
	if got[0].Command != "git status" {
		t.Errorf("top suggestion = %q, want git status (highest base score)", got[0].Command)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Fatalf("suggestions not sorted by score at %d", i)
		}
	}
}

func TestComposePreferredOverDockerfile(t *testing.T) {
	e := NewEngine()
	ctx := domain.ProjectContext{HasCompose: true, HasDockerfile: true}

	got := e.Suggestions("", ctx, nil, 10)
	for _, s := range got {
		if s.Command == "docker ps" {
			t.Error("plain docker suggestions offered despite compose file")
		}
	}
}

func TestErrorSuggestionBoost(t *testing.T) {
	e := NewEngine()
	outcome := &domain.ExecutionOutcome{
		Success: false,
		Stderr:  "bash: /usr/local/bin/tool: Permission denied",
	}

	got := e.Suggestions("", domain.ProjectContext{}, outcome, 5)
	found := false
	for _, s := range got {
		if s.Command == "sudo !!" {
			found = true
			if s.Score != 0.8+errorBoost {
				t.Errorf("sudo score = %v, want %v", s.Score, 0.8+errorBoost)
			}
		}
	}
	if !found {
		t.Fatal("permission-denied error produced no sudo suggestion")
	}
}

func TestSuccessfulOutcomeNoErrorSuggestions(t *testing.T) {
	e := NewEngine()
	outcome := &domain.ExecutionOutcome{Success: true, Stdout: "permission denied is in the logs"}

	got := e.Suggestions("", domain.ProjectContext{}, outcome, 5)
	for _, s := range got {
		if s.Command == "sudo !!" {
			t.Error("error suggestions generated from a successful outcome")
		}
	}
}

func TestDeduplicationKeepsFirstOccurrence(t *testing.T) {
	e := NewEngine()
	// Frequency source would also produce "make all"; the context entry
	// must win and appear exactly once.
	e.Record("make all")
	ctx := domain.ProjectContext{HasMakefile: true}

	got := e.Suggestions("", ctx, nil, 10)
	count := 0
	for _, s := range got {
		if s.Command == "make all" {
			count++
			if s.Category != "make" {
				t.Errorf("kept occurrence category = %q, want the context entry", s.Category)
			}
		}
	}
	if count != 1 {
		t.Fatalf("make all appeared %d times, want 1", count)
	}
}

func TestPartialFilterAndPrefixBump(t *testing.T) {
	e := NewEngine()
	ctx := domain.ProjectContext{HasGit: true}

	got := e.Suggestions("push", ctx, nil, 5)
	if len(got) != 1 {
		t.Fatalf("got %d suggestions, want 1", len(got))
	}
	if got[0].Command != "git push" {
		t.Errorf("command = %q, want git push", got[0].Command)
	}
	// "push changes" starts with the partial, so the base 0.8 gets the bump.
	if got[0].Score != 0.8+prefixBoost {
		t.Errorf("score = %v, want %v", got[0].Score, 0.8+prefixBoost)
	}
}

func TestNextLikelyFollowsSequences(t *testing.T) {
	e := NewEngine()
	e.Record("a")
	e.Record("b")
	e.Record("c")
	e.Record("a")

	if got := e.NextLikely(); got != "b" {
		t.Errorf("NextLikely = %q, want b", got)
	}
}

func TestNextLikelyTieKeepsEarliestLearned(t *testing.T) {
	e := NewEngine()
	e.Record("x")
	e.Record("first")
	e.Record("x")
	e.Record("second")
	e.Record("x")

	if got := e.NextLikely(); got != "first" {
		t.Errorf("NextLikely = %q, want the earliest-learned successor", got)
	}
}

func TestNextLikelyEmptyEngine(t *testing.T) {
	e := NewEngine()
	if got := e.NextLikely(); got != "" {
		t.Errorf("NextLikely on empty engine = %q, want empty", got)
	}
}

func TestPatternCandidatesScoreCapped(t *testing.T) {
	e := NewEngine()
	for i := 0; i < 10; i++ {
		e.Record("a")
		e.Record("b")
	}
	e.Record("a")

	got := e.Suggestions("", domain.ProjectContext{}, nil, 10)
	for _, s := range got {
		if s.Category == "pattern" && s.Score > 0.9 {
			t.Errorf("pattern score %v exceeds cap", s.Score)
		}
		if s.Category == "history" && s.Score > 0.7 {
			t.Errorf("frequency score %v exceeds cap", s.Score)
		}
	}
}

func TestFrequencyTopThree(t *testing.T) {
	e := NewEngine()
	for _, cmd := range []string{"one", "one", "one", "two", "two", "three", "four"} {
		e.Record(cmd)
	}

	got := e.Suggestions("", domain.ProjectContext{}, nil, 10)
	freq := 0
	for _, s := range got {
		if s.Category == "history" {
			freq++
		}
	}
	if freq > 3 {
		t.Errorf("frequency suggestions = %d, want at most 3", freq)
	}
}

func TestCompletion(t *testing.T) {
	e := NewEngine()
	e.Record("make test")
	e.Record("make test")
	e.Record("make all")

	if got := e.Completion("make"); got != "make test" {
		t.Errorf("Completion(make) = %q, want the most frequent command", got)
	}
	if got := e.Completion("git st"); got != "git status" {
		t.Errorf("Completion(git st) = %q, want the static table entry", got)
	}
	if got := e.Completion("zzz"); got != "" {
		t.Errorf("Completion(zzz) = %q, want empty", got)
	}
}

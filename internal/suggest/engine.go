// Package suggest ranks follow-up recommendations from project context,
// error signals and learned usage patterns. All state is in-memory and
// session-scoped; nothing is persisted.
package suggest

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mwiatr/verba/internal/domain"
)

const (
	errorBoost     = 0.2
	prefixBoost    = 0.1
	windowLimit    = 10
	maxSequenceLen = 3
)

// Engine learns command sequences and frequencies and produces ranked,
// deduplicated suggestions. It is owned by one session and not safe for
// concurrent use.
type Engine struct {
	// patterns keeps insertion order so tie-breaks during scans are
	// deterministic; index maps a joined sequence key to its entry.
	patterns []*domain.UsagePattern
	index    map[string]*domain.UsagePattern

	frequency map[string]int
	window    []string
}

// NewEngine returns an empty engine.
func NewEngine() *Engine {
	return &Engine{
		index:     map[string]*domain.UsagePattern{},
		frequency: map[string]int{},
	}
}

// Suggestions generates candidates from every source, filters them by the
// partial input, deduplicates by command string keeping the first occurrence
// in generation order, and returns the top maxN by score.
func (e *Engine) Suggestions(partial string, ctx domain.ProjectContext, lastOutcome *domain.ExecutionOutcome, maxN int) []domain.Suggestion {
	var candidates []domain.Suggestion
	candidates = append(candidates, e.contextCandidates(ctx)...)
	if lastOutcome != nil && !lastOutcome.Success {
		candidates = append(candidates, e.errorCandidates(lastOutcome.Stderr)...)
	}
	candidates = append(candidates, e.patternCandidates()...)
	candidates = append(candidates, e.frequencyCandidates()...)

	if partial != "" {
		candidates = filterByInput(candidates, partial)
	}

	seen := make(map[string]struct{}, len(candidates))
	unique := candidates[:0]
	for _, c := range candidates {
		if _, ok := seen[c.Command]; ok {
			continue
		}
		seen[c.Command] = struct{}{}
		unique = append(unique, c)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].Score > unique[j].Score
	})
	if len(unique) > maxN {
		unique = unique[:maxN]
	}
	return unique
}

func (e *Engine) contextCandidates(ctx domain.ProjectContext) []domain.Suggestion {
	var out []domain.Suggestion
	if ctx.HasMakefile {
		out = append(out, contextSuggestions["make"]...)
	}
	if ctx.HasGit {
		out = append(out, contextSuggestions["git"]...)
	}
	if ctx.HasCompose {
		out = append(out, contextSuggestions["compose"]...)
	} else if ctx.HasDockerfile {
		out = append(out, contextSuggestions["docker"]...)
	}
	if ctx.HasPython {
		out = append(out, contextSuggestions["python"]...)
	}
	return out
}

func (e *Engine) errorCandidates(errText string) []domain.Suggestion {
	lower := strings.ToLower(errText)
	var out []domain.Suggestion
	for _, pattern := range errorPatternOrder {
		if !strings.Contains(lower, pattern) {
			continue
		}
		for _, s := range errorSuggestions[pattern] {
			boosted := s
			boosted.Score += errorBoost
			out = append(out, boosted)
		}
	}
	return out
}

func (e *Engine) patternCandidates() []domain.Suggestion {
	if len(e.window) == 0 {
		return nil
	}
	last := e.window[len(e.window)-1]

	var out []domain.Suggestion
	for _, p := range e.patterns {
		if len(p.Sequence) < 2 || p.Sequence[0] != last {
			continue
		}
		next := p.Sequence[1]
		score := 0.5 + float64(p.Count)*0.1
		if score > 0.9 {
			score = 0.9
		}
		out = append(out, domain.Suggestion{
			Text:        "next: " + next,
			Command:     next,
			Category:    "pattern",
			Score:       score,
			Description: fmt.Sprintf("Used %dx", p.Count),
		})
	}
	return out
}

func (e *Engine) frequencyCandidates() []domain.Suggestion {
	type entry struct {
		cmd   string
		count int
	}
	entries := make([]entry, 0, len(e.frequency))
	for cmd, count := range e.frequency {
		entries = append(entries, entry{cmd, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].cmd < entries[j].cmd
	})
	if len(entries) > 3 {
		entries = entries[:3]
	}

	var out []domain.Suggestion
	for _, en := range entries {
		score := 0.3 + float64(en.count)*0.05
		if score > 0.7 {
			score = 0.7
		}
		out = append(out, domain.Suggestion{
			Text:        "frequently used: " + en.cmd,
			Command:     en.cmd,
			Category:    "history",
			Score:       score,
			Description: fmt.Sprintf("Used %dx", en.count),
		})
	}
	return out
}

func filterByInput(candidates []domain.Suggestion, partial string) []domain.Suggestion {
	lower := strings.ToLower(partial)
	var out []domain.Suggestion
	for _, s := range candidates {
		text := strings.ToLower(s.Text)
		cmd := strings.ToLower(s.Command)
		if !strings.Contains(text, lower) && !strings.Contains(cmd, lower) {
			continue
		}
		if strings.HasPrefix(text, lower) {
			s.Score += prefixBoost
		}
		out = append(out, s)
	}
	return out
}

// Record learns from an executed command: bumps its frequency and, for every
// suffix of the trailing window, the corresponding 2-3 element sequence
// ending in command.
func (e *Engine) Record(command string) {
	e.frequency[command]++

	for i := range e.window {
		seq := append(append([]string(nil), e.window[i:]...), command)
		if len(seq) > maxSequenceLen {
			continue
		}
		key := strings.Join(seq, "\x1f")
		if p, ok := e.index[key]; ok {
			p.Count++
			p.LastUsed = time.Now()
			continue
		}
		p := &domain.UsagePattern{Sequence: seq, Count: 1, LastUsed: time.Now()}
		e.patterns = append(e.patterns, p)
		e.index[key] = p
	}

	e.window = append(e.window, command)
	if len(e.window) > windowLimit {
		e.window = e.window[len(e.window)-windowLimit:]
	}
}

// NextLikely predicts the most probable next command: among learned
// sequences starting with the most recent command, the second element of the
// one with the highest use-count. Ties keep the earliest-learned sequence.
func (e *Engine) NextLikely() string {
	if len(e.window) == 0 {
		return ""
	}
	last := e.window[len(e.window)-1]

	best := ""
	bestCount := 0
	for _, p := range e.patterns {
		if len(p.Sequence) < 2 || p.Sequence[0] != last {
			continue
		}
		if p.Count > bestCount {
			best = p.Sequence[1]
			bestCount = p.Count
		}
	}
	return best
}

// Completion returns the single best completion for a partial input, first
// from the most frequent recorded commands, then from the static tables.
func (e *Engine) Completion(partial string) string {
	lower := strings.ToLower(partial)

	type entry struct {
		cmd   string
		count int
	}
	entries := make([]entry, 0, len(e.frequency))
	for cmd, count := range e.frequency {
		entries = append(entries, entry{cmd, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].cmd < entries[j].cmd
	})
	for _, en := range entries {
		if strings.HasPrefix(strings.ToLower(en.cmd), lower) {
			return en.cmd
		}
	}

	for _, category := range []string{"make", "git", "docker", "compose", "python"} {
		for _, s := range contextSuggestions[category] {
			if strings.HasPrefix(strings.ToLower(s.Text), lower) {
				return s.Text
			}
			if strings.HasPrefix(strings.ToLower(s.Command), lower) {
				return s.Command
			}
		}
	}
	return ""
}

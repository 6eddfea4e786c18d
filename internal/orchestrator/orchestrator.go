// Package orchestrator ties the classifier, session context, suggestion
// engine and execution backends into one request pipeline.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/mwiatr/verba/internal/classifier"
	"github.com/mwiatr/verba/internal/domain"
	"github.com/mwiatr/verba/internal/ports"
	"github.com/mwiatr/verba/internal/session"
	"github.com/mwiatr/verba/internal/suggest"
)

const maxSuggestions = 5

// Orchestrator routes classified commands to backends and records outcomes.
// A single mutex serializes foreground calls against voice-callback
// re-entry; everything below it is single-threaded.
type Orchestrator struct {
	mu sync.Mutex

	Classifier *classifier.Classifier
	Session    *session.Manager
	Engine     *suggest.Engine

	Build  ports.BuildRunner
	Shell  ports.ShellRunner
	Git    ports.GitRunner
	Docker ports.DockerRunner
	Python ports.PythonRunner

	History ports.HistoryRepository
	Logger  ports.Logger

	Verbose bool

	lastInput string
}

// Process classifies input and runs the full pipeline. It is the single
// entry point for both interactive and voice-originated calls.
func (o *Orchestrator) Process(ctx context.Context, input string) domain.Response {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.process(ctx, input)
}

func (o *Orchestrator) process(ctx context.Context, input string) domain.Response {
	cmd := o.Classifier.Classify(input)

	o.debug("parsed", map[string]interface{}{
		"input":      input,
		"kind":       cmd.Kind,
		"action":     cmd.Action,
		"target":     cmd.Target,
		"confidence": cmd.Confidence,
		"language":   cmd.Language,
	})

	if cmd.Kind == domain.KindConversational {
		return o.handleConversational(ctx, cmd)
	}
	if cmd.Kind == domain.KindQuery {
		return o.handleQuery(cmd)
	}

	// Side-effect order for execution intents is fixed: backend invocation,
	// context update, suggestion-engine update, response assembly.
	resp := o.route(ctx, cmd)

	o.Session.UpdateState(cmd.Kind, cmd.Target)
	o.Engine.Record(input)
	o.lastInput = input

	var last *domain.ExecutionOutcome
	if outcome, ok := o.Session.LastOutcome(); ok {
		last = &outcome
	}
	resp.Suggestions = o.Engine.Suggestions("", o.Session.Project(), last, maxSuggestions)

	return resp
}

// Suggest exposes classifier prefix completion to interactive frontends.
func (o *Orchestrator) Suggest(prefix string) []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.Classifier.Suggest(prefix)
}

func (o *Orchestrator) handleConversational(ctx context.Context, cmd domain.ParsedCommand) domain.Response {
	switch cmd.Action {
	case domain.ActionConfirm:
		pending := o.Session.Pending()
		if pending == nil {
			return domain.Response{Success: true, Message: "Nothing awaiting confirmation."}
		}
		o.Session.ClearPending()
		return o.process(ctx, pending.Details["command"])

	case domain.ActionDeny, domain.ActionCancel:
		o.Session.ClearPending()
		return domain.Response{Success: true, Message: "Cancelled."}

	case domain.ActionNext:
		next := o.Engine.NextLikely()
		if next == "" {
			return domain.Response{Success: true, Message: "No suggestion for a next step."}
		}
		o.Session.SetPending("execute", map[string]string{"command": next})
		return domain.Response{
			Success:            true,
			Message:            "Suggested: " + next,
			NeedsConfirmation:  true,
			ConfirmationPrompt: fmt.Sprintf("Run %q?", next),
		}

	case domain.ActionRepeat:
		if o.lastInput != "" {
			return o.process(ctx, o.lastInput)
		}
		return domain.Response{Success: false, Message: "No previous command to repeat."}

	case domain.ActionUndo:
		return domain.Response{Success: false, Message: "Undo is not supported."}

	default:
		return domain.Response{Success: false, Message: fmt.Sprintf("Unknown conversational action: %s", cmd.Action)}
	}
}

func (o *Orchestrator) route(ctx context.Context, cmd domain.ParsedCommand) domain.Response {
	switch cmd.Kind {
	case domain.KindBuild:
		return o.executeBuild(ctx, cmd)
	case domain.KindGit:
		return o.executeGit(ctx, cmd)
	case domain.KindDocker:
		return o.executeDocker(ctx, cmd)
	case domain.KindPython:
		return o.executePython(ctx, cmd)
	default:
		// Shell, compound and anything unrecognized goes to the shell.
		return o.executeShell(ctx, cmd)
	}
}

func (o *Orchestrator) executeBuild(ctx context.Context, cmd domain.ParsedCommand) domain.Response {
	if !o.Session.Project().HasMakefile {
		return domain.Response{Success: false, Message: "No Makefile in the current directory."}
	}

	target := cmd.Target
	raw := strings.TrimSpace(cmd.Raw)
	switch {
	case strings.HasPrefix(strings.ToLower(raw), "make"):
		if fields := strings.Fields(raw); len(fields) >= 2 {
			target = fields[1]
		}
	case target == "" && cmd.Action != domain.ActionInferred && cmd.Action != domain.ActionUnknown:
		target = o.Session.ResolveTarget(string(cmd.Action))
	}
	if target == "" && len(cmd.Args) > 0 {
		target = o.Session.ResolveTarget(cmd.Args[0])
	}

	o.debug("exec.make", map[string]interface{}{"target": target})
	outcome := o.Build.Run(ctx, target)
	o.record(cmd, outcome)

	label := target
	if label == "" {
		label = "default"
	}
	var message string
	if outcome.Success {
		message = fmt.Sprintf("make %s: success (%dms)", label, outcome.Duration.Milliseconds())
	} else {
		message = fmt.Sprintf("make %s: failed\n%s", label, truncate(outcome.Stderr, 200))
	}
	message = o.withTrace(message, cmd, outcome)

	return domain.Response{Success: outcome.Success, Message: message, Outcome: &outcome}
}

func (o *Orchestrator) executeShell(ctx context.Context, cmd domain.ParsedCommand) domain.Response {
	var shellCmd string
	switch {
	case cmd.Action == domain.ActionRun && cmd.Target != "":
		shellCmd = cmd.Target
	case len(cmd.Args) > 0:
		shellCmd = strings.Join(cmd.Args, " ")
	default:
		shellCmd = o.Shell.Translate(cmd.Raw)
	}

	o.debug("exec.shell", map[string]interface{}{"command": shellCmd})
	outcome := o.Shell.Run(ctx, shellCmd)
	o.record(cmd, outcome)

	return domain.Response{
		Success: outcome.Success,
		Message: o.withTrace(outcomeMessage(outcome), cmd, outcome),
		Outcome: &outcome,
	}
}

func (o *Orchestrator) executeGit(ctx context.Context, cmd domain.ParsedCommand) domain.Response {
	if !o.Git.IsRepo() {
		return domain.Response{Success: false, Message: "Not inside a git repository."}
	}

	natural := cmd.Raw
	switch {
	case cmd.Action == domain.ActionStatus:
		natural = "status"
	case cmd.Action == domain.ActionCommit && cmd.Target != "":
		natural = "commit " + cmd.Target
	}

	o.debug("exec.git", map[string]interface{}{"natural": natural})
	outcome := o.Git.RunNatural(ctx, natural)
	o.record(cmd, outcome)

	return domain.Response{
		Success: outcome.Success,
		Message: o.withTrace(outcomeMessage(outcome), cmd, outcome),
		Outcome: &outcome,
	}
}

func (o *Orchestrator) executeDocker(ctx context.Context, cmd domain.ParsedCommand) domain.Response {
	if !o.Docker.Available() {
		return domain.Response{Success: false, Message: "Docker is not installed or not available."}
	}

	o.debug("exec.docker", map[string]interface{}{"natural": cmd.Raw})
	outcome := o.Docker.RunNatural(ctx, cmd.Raw)
	o.record(cmd, outcome)

	return domain.Response{
		Success: outcome.Success,
		Message: o.withTrace(outcomeMessage(outcome), cmd, outcome),
		Outcome: &outcome,
	}
}

func (o *Orchestrator) executePython(ctx context.Context, cmd domain.ParsedCommand) domain.Response {
	o.debug("exec.python", map[string]interface{}{"natural": cmd.Raw})
	outcome := o.Python.RunNatural(ctx, cmd.Raw)
	o.record(cmd, outcome)

	return domain.Response{
		Success: outcome.Success,
		Message: o.withTrace(outcomeMessage(outcome), cmd, outcome),
		Outcome: &outcome,
	}
}

// record appends the outcome to the session history and, when a repository
// is configured, persists it. Backend failures are never retried.
func (o *Orchestrator) record(cmd domain.ParsedCommand, outcome domain.ExecutionOutcome) {
	o.Session.RecordOutcome(outcome)
	if o.History == nil {
		return
	}
	rec := domain.HistoryRecord{
		Timestamp:  time.Now(),
		SessionID:  o.Session.ID(),
		Input:      cmd.Raw,
		Command:    outcome.Command,
		Kind:       cmd.Kind,
		Success:    outcome.Success,
		ExitCode:   outcome.ExitCode,
		DurationMS: outcome.Duration.Milliseconds(),
	}
	if err := o.History.Save(rec); err != nil && o.Logger != nil {
		o.Logger.Warn("history save failed", map[string]interface{}{"error": err.Error()})
	}
}

func outcomeMessage(outcome domain.ExecutionOutcome) string {
	if outcome.Success {
		if preview := truncate(outcome.Stdout, 500); preview != "" {
			return preview
		}
		return "OK"
	}
	return "Error: " + truncate(outcome.Stderr, 200)
}

func truncate(text string, limit int) string {
	t := strings.Trim(text, "\n")
	if len(t) <= limit {
		return t
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(t[cut]) {
		cut--
	}
	return t[:cut] + "..."
}

func (o *Orchestrator) withTrace(message string, cmd domain.ParsedCommand, outcome domain.ExecutionOutcome) string {
	if !o.Verbose {
		return message
	}
	lines := []string{
		message,
		"",
		fmt.Sprintf("TRACE: kind=%s action=%s target=%s confidence=%.2f", cmd.Kind, cmd.Action, cmd.Target, cmd.Confidence),
		fmt.Sprintf("TRACE: EXEC=%s", outcome.Command),
		fmt.Sprintf("TRACE: SUCCESS=%t EXIT=%d", outcome.Success, outcome.ExitCode),
	}
	if preview := truncate(outcome.Stdout, 800); preview != "" {
		lines = append(lines, "TRACE: STDOUT:", preview)
	}
	if preview := truncate(outcome.Stderr, 800); preview != "" {
		lines = append(lines, "TRACE: STDERR:", preview)
	}
	return strings.Join(lines, "\n")
}

func (o *Orchestrator) debug(event string, fields map[string]interface{}) {
	if o.Logger != nil {
		o.Logger.Debug(event, fields)
	}
}

// SelectSuggestion resolves interactive input against the displayed
// suggestion list: a bare index (optionally bracketed) or a shortcut key.
func SelectSuggestion(input string, suggestions []domain.Suggestion) (domain.Suggestion, bool) {
	cleaned := strings.TrimSpace(input)
	if cleaned == "" {
		return domain.Suggestion{}, false
	}
	cleaned = strings.TrimSuffix(strings.TrimPrefix(cleaned, "["), "]")
	cleaned = strings.TrimSuffix(cleaned, ".")
	cleaned = strings.TrimSpace(cleaned)

	if idx, err := parseIndex(cleaned); err == nil {
		if idx >= 1 && idx <= len(suggestions) {
			return suggestions[idx-1], true
		}
		return domain.Suggestion{}, false
	}

	lower := strings.ToLower(cleaned)
	for _, s := range suggestions {
		if s.Shortcut != "" && lower == strings.ToLower(s.Shortcut) {
			return s, true
		}
	}
	return domain.Suggestion{}, false
}

func parseIndex(s string) (int, error) {
	var idx int
	_, err := fmt.Sscanf(s, "%d", &idx)
	if err != nil {
		return 0, err
	}
	// Reject mixed input like "2x".
	if fmt.Sprintf("%d", idx) != s {
		return 0, fmt.Errorf("not an index: %s", s)
	}
	return idx, nil
}

package orchestrator

import (
	"fmt"
	"strings"

	"github.com/mwiatr/verba/internal/domain"
)

// handleQuery answers informational questions from the session snapshot.
// Query handlers are read-only: no backend runs, no state mutates.
func (o *Orchestrator) handleQuery(cmd domain.ParsedCommand) domain.Response {
	switch cmd.Action {
	case domain.ActionOptions:
		return o.answerOptions()
	case domain.ActionStatus:
		return o.answerStatus()
	case domain.ActionHelp:
		return o.answerHelp()
	default:
		return domain.Response{
			Success: true,
			Message: "I can run builds, shell commands, git, docker and python tasks. Ask \"what can I do\" for the options here.",
		}
	}
}

func (o *Orchestrator) answerOptions() domain.Response {
	groups := o.Session.ContextualOptions()

	var b strings.Builder
	b.WriteString("Available here:\n")
	for _, g := range groups {
		fmt.Fprintf(&b, "\n[%s]\n", g.Category)
		for _, opt := range g.Options {
			fmt.Fprintf(&b, "  %s\n", opt)
		}
	}

	var last *domain.ExecutionOutcome
	if outcome, ok := o.Session.LastOutcome(); ok {
		last = &outcome
	}
	return domain.Response{
		Success:     true,
		Message:     strings.TrimRight(b.String(), "\n"),
		Suggestions: o.Engine.Suggestions("", o.Session.Project(), last, maxSuggestions),
	}
}

func (o *Orchestrator) answerStatus() domain.Response {
	project := o.Session.Project()
	state := o.Session.State()

	var lines []string
	if project.HasMakefile || project.HasGit || project.HasDockerfile || project.HasCompose || project.HasPython {
		lines = append(lines, fmt.Sprintf("Project: %s (%s)", project.Name, project.Path))
		if project.HasMakefile {
			lines = append(lines, fmt.Sprintf("Makefile: %d targets", len(project.MakeTargets)))
		}
		if project.HasGit {
			branch := project.GitBranch
			if branch == "" {
				branch = "detached"
			}
			lines = append(lines, "Git: "+branch)
		}
		if project.HasCompose {
			lines = append(lines, fmt.Sprintf("Docker Compose: %d services", len(project.ComposeServices)))
		} else if project.HasDockerfile {
			lines = append(lines, "Docker: Dockerfile present")
		}
		if project.HasPython {
			if project.PythonVenv != "" {
				lines = append(lines, "Python: venv at "+project.PythonVenv)
			} else {
				lines = append(lines, "Python: detected")
			}
		}
	} else {
		lines = append(lines, "No active project in "+project.Path)
	}
	lines = append(lines, fmt.Sprintf("Session: %d commands since %s", state.CommandCount, state.StartedAt.Format("15:04:05")))
	if outcome, ok := o.Session.LastOutcome(); ok {
		result := "ok"
		if !outcome.Success {
			result = fmt.Sprintf("failed (exit %d)", outcome.ExitCode)
		}
		lines = append(lines, fmt.Sprintf("Last command: %s, %s", outcome.Command, result))
	}

	return domain.Response{Success: true, Message: strings.Join(lines, "\n")}
}

func (o *Orchestrator) answerHelp() domain.Response {
	const help = `Say what you want in plain words, for example:
  build the project        runs the matching make target
  run the tests            make test or pytest, whichever fits
  commit with message "x"  git commit
  start the containers     docker compose up
  show files               plain shell

Conversational: yes / no / next / repeat / cancel.
Questions: "what can I do", "status", "help".`
	return domain.Response{Success: true, Message: help}
}

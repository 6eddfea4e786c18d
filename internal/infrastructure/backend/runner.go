// Package backend contains the execution adapters: make, shell, git,
// docker and python. Each one turns a natural or resolved command into a
// process run and reports a domain.ExecutionOutcome.
package backend

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/mwiatr/verba/internal/domain"
)

// runCommand executes name with args in dir under a deadline and captures
// the outcome. Process errors are folded into the outcome, never returned.
func runCommand(ctx context.Context, dir string, timeout time.Duration, name string, args ...string) domain.ExecutionOutcome {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	c := exec.CommandContext(ctx, name, args...)
	c.Dir = dir
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	start := time.Now()
	err := c.Run()
	duration := time.Since(start)

	outcome := domain.ExecutionOutcome{
		Success:  err == nil,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Command:  strings.TrimSpace(name + " " + strings.Join(args, " ")),
		Duration: duration,
	}
	switch e := err.(type) {
	case nil:
	case *exec.ExitError:
		outcome.ExitCode = e.ExitCode()
	default:
		// Start failures (binary missing, context cancelled) have no exit
		// code; surface the error text where stderr would be.
		outcome.ExitCode = -1
		if outcome.Stderr == "" {
			outcome.Stderr = err.Error()
		}
	}
	if ctx.Err() == context.DeadlineExceeded {
		outcome.Success = false
		outcome.Stderr = "timeout: " + outcome.Command
	}
	return outcome
}

// failedOutcome builds a non-executed failure result.
func failedOutcome(command, reason string) domain.ExecutionOutcome {
	return domain.ExecutionOutcome{
		Success:  false,
		Stderr:   reason,
		ExitCode: -1,
		Command:  command,
	}
}

// natural is one ordered natural-phrase to command mapping. Tables are
// slices, not maps, so lookup order is stable.
type natural struct {
	phrase  string
	command string
}

// lookupNatural matches input against a table: exact phrase first, then
// phrase as a prefix with a trailing argument. The matched command and the
// remainder come back separately.
func lookupNatural(table []natural, input string) (command, rest string, ok bool) {
	lower := strings.ToLower(strings.TrimSpace(input))
	for _, n := range table {
		if lower == n.phrase {
			return n.command, "", true
		}
		if strings.HasPrefix(lower, n.phrase+" ") {
			return n.command, strings.TrimSpace(lower[len(n.phrase):]), true
		}
	}
	return "", "", false
}

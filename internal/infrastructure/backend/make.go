package backend

import (
	"context"
	"os/exec"
	"time"

	"github.com/mwiatr/verba/internal/domain"
	"github.com/mwiatr/verba/internal/ports"
)

const makeTimeout = 5 * time.Minute

// MakeRunner drives make in a fixed working directory.
type MakeRunner struct {
	dir string
}

// NewMakeRunner builds a runner rooted at dir.
func NewMakeRunner(dir string) *MakeRunner {
	return &MakeRunner{dir: dir}
}

// Available reports whether make is on PATH.
func (r *MakeRunner) Available() bool {
	_, err := exec.LookPath("make")
	return err == nil
}

// Run invokes make with the given target, or the default target when empty.
func (r *MakeRunner) Run(ctx context.Context, target string) domain.ExecutionOutcome {
	if !r.Available() {
		return failedOutcome("make", "make is not installed")
	}
	args := []string{}
	if target != "" {
		args = append(args, target)
	}
	return runCommand(ctx, r.dir, makeTimeout, "make", args...)
}

var _ ports.BuildRunner = (*MakeRunner)(nil)

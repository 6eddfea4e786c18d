package backend

import (
	"context"
	"os"
	"time"

	"github.com/mwiatr/verba/internal/domain"
	"github.com/mwiatr/verba/internal/ports"
)

const shellTimeout = 60 * time.Second

// shellNaturals translates spoken phrases into plain shell commands.
// Order matters: longer, more specific phrases come before their prefixes.
var shellNaturals = []natural{
	{"show files", "ls -la"},
	{"list files", "ls -la"},
	{"pokaż pliki", "ls -la"},
	{"lista plików", "ls -la"},
	{"zeige dateien", "ls -la"},
	{"show directory", "pwd"},
	{"where am i", "pwd"},
	{"pokaż katalog", "pwd"},
	{"gdzie jestem", "pwd"},
	{"wo bin ich", "pwd"},
	{"create directory", "mkdir -p"},
	{"utwórz katalog", "mkdir -p"},
	{"show processes", "ps aux"},
	{"pokaż procesy", "ps aux"},
	{"zeige prozesse", "ps aux"},
	{"disk space", "df -h"},
	{"miejsce na dysku", "df -h"},
	{"speicherplatz", "df -h"},
	{"memory", "free -h"},
	{"pamięć", "free -h"},
	{"search in files", "grep -r"},
	{"szukaj w plikach", "grep -r"},
	{"show file", "cat"},
	{"pokaż plik", "cat"},
	{"zeige datei", "cat"},
	{"last lines", "tail -n 20"},
	{"ostatnie linie", "tail -n 20"},
	{"find", "find . -name"},
	{"znajdź", "find . -name"},
}

// ShellExecutor runs arbitrary commands through the system shell after a
// guardrail check.
type ShellExecutor struct {
	dir   string
	shell string
	guard ports.Guardrail
}

// NewShellExecutor builds an executor rooted at dir. The shell defaults to
// $SHELL, then /bin/sh.
func NewShellExecutor(dir string, guard ports.Guardrail) *ShellExecutor {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	return &ShellExecutor{dir: dir, shell: shell, guard: guard}
}

// Translate maps a natural phrase onto a shell command. Unknown input comes
// back unchanged and is treated as a literal command.
func (e *ShellExecutor) Translate(naturalInput string) string {
	cmd, rest, ok := lookupNatural(shellNaturals, naturalInput)
	if !ok {
		return naturalInput
	}
	if rest != "" {
		return cmd + " " + rest
	}
	return cmd
}

// Run executes command via the shell. Guardrail-blocked commands never
// reach the process layer.
func (e *ShellExecutor) Run(ctx context.Context, command string) domain.ExecutionOutcome {
	if e.guard != nil {
		if blocked, reason := e.guard.Evaluate(command); blocked {
			return failedOutcome(command, "blocked: "+reason)
		}
	}
	outcome := runCommand(ctx, e.dir, shellTimeout, e.shell, "-c", command)
	outcome.Command = command
	return outcome
}

var _ ports.ShellRunner = (*ShellExecutor)(nil)

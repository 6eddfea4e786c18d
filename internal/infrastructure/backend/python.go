package backend

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/mwiatr/verba/internal/domain"
	"github.com/mwiatr/verba/internal/ports"
)

const pythonTimeout = 5 * time.Minute

var pythonNaturals = []natural{
	{"tests", "pytest"},
	{"testy", "pytest"},
	{"run the tests", "pytest"},
	{"uruchom testy", "pytest"},
	{"führe die tests aus", "pytest"},
	{"lint", "flake8 ."},
	{"sprawdź styl", "flake8 ."},
	{"format", "black ."},
	{"formatuj", "black ."},
	{"formatiere", "black ."},
	{"types", "mypy ."},
	{"typy", "mypy ."},
	{"sprawdź typy", "mypy ."},
	{"packages", "pip list"},
	{"pakiety", "pip list"},
	{"lista pakietów", "pip list"},
	{"freeze", "pip freeze"},
	{"zamrożone", "pip freeze"},
	{"requirements", "pip install -r requirements.txt"},
	{"wymagania", "pip install -r requirements.txt"},
	{"install dependencies", "pip install -r requirements.txt"},
	{"zainstaluj zależności", "pip install -r requirements.txt"},
	{"create venv", "python -m venv venv"},
	{"utwórz venv", "python -m venv venv"},
}

type pythonPattern struct {
	expr *regexp.Regexp
	args func(m []string) []string
}

var pythonPatterns = []pythonPattern{
	{regexp.MustCompile(`^(?:uruchom|run|starte) (.+\.py)$`), func(m []string) []string { return []string{m[1]} }},
	{regexp.MustCompile(`^(?:zainstaluj|install|installiere) (.+)$`), func(m []string) []string { return append([]string{"-m", "pip", "install"}, strings.Fields(m[1])...) }},
	{regexp.MustCompile(`^(?:odinstaluj|uninstall) (.+)$`), func(m []string) []string { return append([]string{"-m", "pip", "uninstall", "-y"}, strings.Fields(m[1])...) }},
	{regexp.MustCompile(`^(?:testy|tests) (.+)$`), func(m []string) []string { return []string{"-m", "pytest", m[1]} }},
	{regexp.MustCompile(`^(?:formatuj|format) (.+)$`), func(m []string) []string { return []string{"-m", "black", m[1]} }},
}

// PythonExecutor runs python tooling, preferring a project venv interpreter
// when one exists.
type PythonExecutor struct {
	dir         string
	interpreter string
}

// NewPythonExecutor builds an executor rooted at dir. venv may be empty.
func NewPythonExecutor(dir, venv string) *PythonExecutor {
	interpreter := "python3"
	if venv != "" {
		interpreter = filepath.Join(venv, "bin", "python")
	}
	return &PythonExecutor{dir: dir, interpreter: interpreter}
}

// RunNatural resolves a python phrase and executes it through the resolved
// interpreter so venv tooling is picked up.
func (e *PythonExecutor) RunNatural(ctx context.Context, text string) domain.ExecutionOutcome {
	lower := strings.ToLower(strings.TrimSpace(text))

	if cmd, rest, ok := lookupNatural(pythonNaturals, lower); ok {
		args := e.moduleArgs(cmd)
		if rest != "" {
			args = append(args, rest)
		}
		return runCommand(ctx, e.dir, pythonTimeout, e.interpreter, args...)
	}

	for _, p := range pythonPatterns {
		if m := p.expr.FindStringSubmatch(lower); m != nil {
			return runCommand(ctx, e.dir, pythonTimeout, e.interpreter, p.args(m)...)
		}
	}

	if strings.HasSuffix(lower, ".py") {
		return runCommand(ctx, e.dir, pythonTimeout, e.interpreter, lower)
	}

	return failedOutcome("python", "unrecognized python request: "+text)
}

// moduleArgs rewrites a bare tool invocation as a python -m call.
func (e *PythonExecutor) moduleArgs(cmd string) []string {
	fields := strings.Fields(cmd)
	switch fields[0] {
	case "python":
		return fields[1:]
	default:
		return append([]string{"-m"}, fields...)
	}
}

var _ ports.PythonRunner = (*PythonExecutor)(nil)

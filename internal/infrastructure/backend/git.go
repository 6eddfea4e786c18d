package backend

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/mwiatr/verba/internal/domain"
	"github.com/mwiatr/verba/internal/ports"
)

const gitTimeout = 60 * time.Second

// gitNaturals covers the plain phrases; anything needing an argument is
// handled by gitPatterns below.
var gitNaturals = []natural{
	{"status", "git status"},
	{"stan", "git status"},
	{"sprawdź status", "git status"},
	{"check status", "git status"},
	{"pull", "git pull"},
	{"pobierz", "git pull"},
	{"push", "git push"},
	{"wypchnij", "git push"},
	{"add everything", "git add -A"},
	{"dodaj wszystko", "git add -A"},
	{"alles hinzufügen", "git add -A"},
	{"branches", "git branch -a"},
	{"gałęzie", "git branch -a"},
	{"zweige", "git branch -a"},
	{"history", "git log --oneline -10"},
	{"historia", "git log --oneline -10"},
	{"log", "git log --oneline -10"},
	{"diff", "git diff"},
	{"differences", "git diff"},
	{"różnice", "git diff"},
	{"stash", "git stash"},
	{"schowaj", "git stash"},
	{"odłóż", "git stash"},
}

type gitPattern struct {
	expr *regexp.Regexp
	args func(m []string) []string
}

var gitPatterns = []gitPattern{
	{regexp.MustCompile(`^zatwierdź z komentarzem (.+)$`), func(m []string) []string { return []string{"commit", "-am", m[1]} }},
	{regexp.MustCompile(`^commit (?:with message )?(.+)$`), func(m []string) []string { return []string{"commit", "-am", strings.Trim(m[1], `"'`)} }},
	{regexp.MustCompile(`^zatwierdź (.+)$`), func(m []string) []string { return []string{"commit", "-am", m[1]} }},
	{regexp.MustCompile(`^(?:przełącz na|switch to|checkout|wechsle zu) (.+)$`), func(m []string) []string { return []string{"checkout", m[1]} }},
	{regexp.MustCompile(`^(?:utwórz gałąź|create branch|neuer zweig) (.+)$`), func(m []string) []string { return []string{"checkout", "-b", m[1]} }},
	{regexp.MustCompile(`^(?:dodaj|add) (.+)$`), func(m []string) []string { return []string{"add", m[1]} }},
}

// GitExecutor runs git against the repository that contains its working
// directory.
type GitExecutor struct {
	workDir string
	repoDir string
}

// NewGitExecutor walks from dir toward the filesystem root looking for a
// .git directory. When found, git runs from the repository root.
func NewGitExecutor(dir string) *GitExecutor {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	e := &GitExecutor{workDir: abs}
	for current := abs; ; current = filepath.Dir(current) {
		if info, err := os.Stat(filepath.Join(current, ".git")); err == nil && info.IsDir() {
			e.repoDir = current
			break
		}
		if current == filepath.Dir(current) {
			break
		}
	}
	return e
}

// IsRepo reports whether a repository was found.
func (e *GitExecutor) IsRepo() bool {
	return e.repoDir != ""
}

// RunNatural resolves a natural git phrase and executes it: plain phrases
// first, then argument patterns, then a raw "git ..." passthrough.
func (e *GitExecutor) RunNatural(ctx context.Context, text string) domain.ExecutionOutcome {
	if !e.IsRepo() {
		return failedOutcome("git", "not a git repository")
	}
	lower := strings.ToLower(strings.TrimSpace(text))

	if cmd, rest, ok := lookupNatural(gitNaturals, lower); ok {
		args := strings.Fields(strings.TrimPrefix(cmd, "git "))
		if rest != "" {
			args = append(args, rest)
		}
		return e.run(ctx, args...)
	}

	for _, p := range gitPatterns {
		if m := p.expr.FindStringSubmatch(lower); m != nil {
			return e.run(ctx, p.args(m)...)
		}
	}

	if strings.HasPrefix(lower, "git ") {
		return e.run(ctx, strings.Fields(lower)[1:]...)
	}

	return failedOutcome("git", "unrecognized git request: "+text)
}

func (e *GitExecutor) run(ctx context.Context, args ...string) domain.ExecutionOutcome {
	return runCommand(ctx, e.repoDir, gitTimeout, "git", args...)
}

var _ ports.GitRunner = (*GitExecutor)(nil)

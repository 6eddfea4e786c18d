// Package session owns per-session state: the detected project context, the
// conversation record, and the capped execution history.
package session

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mwiatr/verba/internal/domain"
)

var (
	makefileNames = []string{"Makefile", "makefile", "GNUmakefile"}
	composeNames  = []string{"docker-compose.yml", "docker-compose.yaml", "compose.yml", "compose.yaml"}
	pythonMarkers = []string{"setup.py", "pyproject.toml", "requirements.txt"}
	venvDirs      = []string{"venv", ".venv", "env", ".env"}
)

// DetectProject scans dir non-recursively for project markers and extracts
// supplementary data. Read errors on individual files are treated as the
// feature being absent, never propagated.
func DetectProject(dir string) domain.ProjectContext {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	ctx := domain.ProjectContext{Path: abs, Name: filepath.Base(abs)}

	for _, name := range makefileNames {
		path := filepath.Join(abs, name)
		if fileExists(path) {
			ctx.HasMakefile = true
			ctx.MakeTargets = parseMakeTargets(path)
			break
		}
	}

	ctx.HasDockerfile = fileExists(filepath.Join(abs, "Dockerfile"))

	for _, name := range composeNames {
		path := filepath.Join(abs, name)
		if fileExists(path) {
			ctx.HasCompose = true
			ctx.ComposeServices = parseComposeServices(path)
			break
		}
	}

	if dirExists(filepath.Join(abs, ".git")) {
		ctx.HasGit = true
		ctx.GitBranch = readGitBranch(abs)
	}

	for _, marker := range pythonMarkers {
		if fileExists(filepath.Join(abs, marker)) {
			ctx.HasPython = true
			break
		}
	}
	for _, venv := range venvDirs {
		if fileExists(filepath.Join(abs, venv, "bin", "python")) {
			ctx.PythonVenv = filepath.Join(abs, venv)
			break
		}
	}

	return ctx
}

// parseMakeTargets extracts target names: unindented lines containing a
// colon but no assignment, trimmed at the first colon, skipping special
// dot-targets.
func parseMakeTargets(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var targets []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "\t") || strings.HasPrefix(line, " ") {
			continue
		}
		if !strings.Contains(line, ":") || strings.Contains(line, "=") {
			continue
		}
		target := strings.TrimSpace(line[:strings.Index(line, ":")])
		if target == "" || strings.HasPrefix(target, ".") {
			continue
		}
		targets = append(targets, target)
	}
	return targets
}

// parseComposeServices reads service names from a compose document,
// falling back to a line-oriented scan when the YAML does not parse.
func parseComposeServices(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var doc struct {
		Services yaml.Node `yaml:"services"`
	}
	if err := yaml.Unmarshal(data, &doc); err == nil && doc.Services.Kind == yaml.MappingNode {
		var services []string
		// Mapping node content alternates key, value.
		for i := 0; i+1 < len(doc.Services.Content); i += 2 {
			services = append(services, doc.Services.Content[i].Value)
		}
		return services
	}

	var services []string
	inServices := false
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "services:" {
			inServices = true
			continue
		}
		if !inServices {
			continue
		}
		if strings.HasPrefix(line, "  ") && len(line) > 2 && line[2] != ' ' && strings.Contains(line, ":") {
			services = append(services, strings.TrimSpace(line[:strings.Index(line, ":")]))
		} else if !strings.HasPrefix(line, " ") && strings.TrimSpace(line) != "" {
			break
		}
	}
	return services
}

// readGitBranch reads .git/HEAD and strips the ref prefix. Detached HEADs
// and read errors yield an empty branch.
func readGitBranch(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, ".git", "HEAD"))
	if err != nil {
		return ""
	}
	content := strings.TrimSpace(string(data))
	const refPrefix = "ref: refs/heads/"
	if strings.HasPrefix(content, refPrefix) {
		return strings.TrimPrefix(content, refPrefix)
	}
	return ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

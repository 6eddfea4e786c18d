// Package doctor runs environment diagnostics: configuration, guardrail,
// backend tool availability and project detection.
package doctor

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/mwiatr/verba/internal/domain"
	"github.com/mwiatr/verba/internal/ports"
	"github.com/mwiatr/verba/internal/session"
)

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	Guardrail      ports.Guardrail
	WorkingDir     string
}

// backendTools lists the binaries each backend needs.
var backendTools = []struct {
	name   string
	binary string
}{
	{"Build backend", "make"},
	{"Git backend", "git"},
	{"Docker backend", "docker"},
	{"Python backend", "python3"},
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("format %s, language %s", cfg.ConfigFormatVersion, cfg.Preferences.Language)))

	if s.Guardrail != nil {
		if blocked, _ := s.Guardrail.Evaluate("ls"); blocked {
			checks = append(checks, warn("Guardrail", "rules block harmless commands"))
		} else {
			checks = append(checks, ok("Guardrail", "rules loaded"))
		}
	} else {
		checks = append(checks, warn("Guardrail", "not initialized"))
	}

	for _, tool := range backendTools {
		if _, err := exec.LookPath(tool.binary); err == nil {
			checks = append(checks, ok(tool.name, tool.binary+" on PATH"))
		} else {
			checks = append(checks, warn(tool.name, tool.binary+" not found"))
		}
	}

	project := session.DetectProject(s.WorkingDir)
	detail := "no project markers"
	if project.HasMakefile || project.HasGit || project.HasDockerfile || project.HasCompose || project.HasPython {
		detail = fmt.Sprintf("%s (make=%t git=%t docker=%t python=%t)",
			project.Name, project.HasMakefile, project.HasGit,
			project.HasDockerfile || project.HasCompose, project.HasPython)
	}
	checks = append(checks, ok("Project detection", detail))

	return domain.HealthReport{Checks: checks}, nil
}

func ok(name, detail string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Detail: detail}
}

func warn(name, detail string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Detail: detail}
}

func fail(name, detail string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthFail, Detail: detail}
}

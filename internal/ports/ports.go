// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// The application core (classifier, session, suggestion engine, orchestrator)
// depends only on these abstractions; concrete adapters live in the
// infrastructure layer. Backends are synchronous, timeout-bounded and report
// failures as ExecutionOutcome values rather than errors.
package ports

import (
	"context"
	"time"

	"github.com/mwiatr/verba/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.verba/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// BuildRunner invokes the build tool for a resolved target.
type BuildRunner interface {
	Available() bool
	Run(ctx context.Context, target string) domain.ExecutionOutcome
}

// ShellRunner translates natural fragments to shell commands and runs them.
type ShellRunner interface {
	Translate(natural string) string
	Run(ctx context.Context, command string) domain.ExecutionOutcome
}

// GitRunner executes natural-language version-control requests.
type GitRunner interface {
	IsRepo() bool
	RunNatural(ctx context.Context, text string) domain.ExecutionOutcome
}

// DockerRunner executes natural-language container requests.
type DockerRunner interface {
	Available() bool
	RunNatural(ctx context.Context, text string) domain.ExecutionOutcome
}

// PythonRunner executes natural-language language-runtime requests
// (scripts, package manager, test runner).
type PythonRunner interface {
	RunNatural(ctx context.Context, text string) domain.ExecutionOutcome
}

// Guardrail evaluates a shell command before execution and may block it.
type Guardrail interface {
	Evaluate(command string) (blocked bool, reason string)
}

// VoiceGateway is the alternate input/output channel. The core never
// inspects audio data; recognized text arrives through the callback.
// Start/Stop are idempotent and Stop joins the worker with a bounded timeout.
type VoiceGateway interface {
	Speak(text string) error
	Listen(timeout time.Duration) (string, bool)
	StartListening(callback func(text string)) error
	StopListening() error
}

// HistoryRepository persists execution outcomes for inspection and export.
type HistoryRepository interface {
	Save(domain.HistoryRecord) error
	Records(limit int, search string) ([]domain.HistoryRecord, error)
	Clear() error
}

// Logger provides structured logging abstraction for the application layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}

package domain

import "time"

// ProjectContext is a snapshot of the working directory. It is rebuilt as a
// whole whenever the directory changes, never partially updated.
type ProjectContext struct {
	Path string
	Name string

	HasMakefile   bool
	HasDockerfile bool
	HasCompose    bool
	HasGit        bool
	HasPython     bool

	MakeTargets     []string
	GitBranch       string
	ComposeServices []string
	PythonVenv      string
}

// PendingConfirmation is a single stored action awaiting an explicit yes/no.
// Setting a new one replaces the prior one.
type PendingConfirmation struct {
	Action  string
	Details map[string]string
	SetAt   time.Time
}

// ConversationState is the session-scoped mutable record.
type ConversationState struct {
	StartedAt    time.Time
	LastActivity time.Time
	CommandCount int
	LastKind     IntentKind
	LastTarget   string
	Pending      *PendingConfirmation
	Variables    map[string]string
}

// ExecutionOutcome is the normalized record produced by any backend
// invocation: success flag, captured streams, return code and duration.
type ExecutionOutcome struct {
	Success  bool
	Stdout   string
	Stderr   string
	ExitCode int
	Command  string
	Duration time.Duration
}

// OptionGroup is one category of contextual options, in display order.
type OptionGroup struct {
	Category string
	Options  []string
}

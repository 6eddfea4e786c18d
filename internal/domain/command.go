// Package domain defines core entities and value objects for verba.
//
// This file contains the classified-command model. The domain layer is
// independent of infrastructure concerns and represents pure data structures
// shared by the classifier, the session manager and the orchestrator.
package domain

// IntentKind is the closed category a classified command belongs to.
type IntentKind string

const (
	KindBuild          IntentKind = "build"
	KindShell          IntentKind = "shell"
	KindGit            IntentKind = "git"
	KindDocker         IntentKind = "docker"
	KindPython         IntentKind = "python"
	KindConversational IntentKind = "conversational"
	KindQuery          IntentKind = "query"

	// KindCompound is reserved for chained commands ("build and test").
	// The current classifier never emits it.
	KindCompound IntentKind = "compound"
)

// Action is a validated verb tag attached to a classified command.
type Action string

const (
	// Build actions.
	ActionBuild   Action = "build"
	ActionTarget  Action = "target"
	ActionClean   Action = "clean"
	ActionInstall Action = "install"
	ActionTest    Action = "test"

	// Shell actions.
	ActionRun  Action = "run"
	ActionList Action = "ls"
	ActionShow Action = "cat"

	// Git actions.
	ActionCommit   Action = "commit"
	ActionPush     Action = "push"
	ActionPull     Action = "pull"
	ActionStatus   Action = "status"
	ActionBranch   Action = "branch"
	ActionCheckout Action = "checkout"

	// Docker actions.
	ActionStop    Action = "stop"
	ActionPS      Action = "ps"
	ActionCompose Action = "compose"

	// Python actions.
	ActionPip Action = "pip"

	// Conversational actions.
	ActionNext    Action = "next"
	ActionUndo    Action = "undo"
	ActionRepeat  Action = "repeat"
	ActionCancel  Action = "cancel"
	ActionConfirm Action = "confirm"
	ActionDeny    Action = "deny"

	// Query actions.
	ActionOptions Action = "options"
	ActionHelp    Action = "help"
	ActionQuery   Action = "query"

	// ActionInferred marks keyword-overlap classification, ActionUnknown
	// the total fallback.
	ActionInferred Action = "inferred"
	ActionUnknown  Action = "unknown"
)

var actionsByKind = map[IntentKind][]Action{
	KindBuild:          {ActionBuild, ActionTarget, ActionClean, ActionInstall, ActionTest, ActionRun, ActionInferred},
	KindShell:          {ActionRun, ActionList, ActionShow, ActionInferred, ActionUnknown},
	KindGit:            {ActionCommit, ActionPush, ActionPull, ActionStatus, ActionBranch, ActionCheckout, ActionInferred},
	KindDocker:         {ActionBuild, ActionRun, ActionStop, ActionPS, ActionCompose, ActionInferred},
	KindPython:         {ActionRun, ActionPip, ActionTest, ActionInferred},
	KindConversational: {ActionNext, ActionUndo, ActionRepeat, ActionCancel, ActionConfirm, ActionDeny, ActionInferred},
	KindQuery:          {ActionOptions, ActionStatus, ActionHelp, ActionQuery, ActionInferred},
	KindCompound:       {ActionInferred},
}

// ValidAction reports whether action belongs to the action set of kind.
// Classifier tables are validated against this at startup so that invalid
// kind/action pairs cannot be constructed downstream.
func ValidAction(kind IntentKind, action Action) bool {
	for _, a := range actionsByKind[kind] {
		if a == action {
			return true
		}
	}
	return false
}

// Classification confidence levels. These are fixed policy constants, not
// computed probabilities.
const (
	ConfidenceExact    = 1.0  // exact shortcut match
	ConfidenceRepeat   = 0.95 // repeat shortcut resolved against a prior command
	ConfidenceQuery    = 0.9  // interrogative detected
	ConfidencePattern  = 0.85 // structural pattern match
	ConfidenceKeyword  = 0.6  // keyword-overlap inference
	ConfidenceFallback = 0.3  // nothing matched
)

// ParsedCommand is the immutable result of classifying one utterance.
type ParsedCommand struct {
	Kind       IntentKind
	Action     Action
	Target     string
	Args       []string
	Flags      map[string]string
	Raw        string
	Confidence float64

	// Alternatives is reserved for disambiguation and currently always empty.
	Alternatives []ParsedCommand

	// Language is the language tag the command was classified under.
	Language string
}

// Clone returns a deep copy so that repeat can re-issue a prior command
// without sharing slices or maps with history entries.
func (c ParsedCommand) Clone() ParsedCommand {
	out := c
	if c.Args != nil {
		out.Args = append([]string(nil), c.Args...)
	}
	if c.Flags != nil {
		out.Flags = make(map[string]string, len(c.Flags))
		for k, v := range c.Flags {
			out.Flags[k] = v
		}
	}
	out.Alternatives = nil
	return out
}

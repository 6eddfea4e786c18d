package domain

// Response is the shape returned to any caller (CLI, voice loop, embedding
// application). Message is always populated, including on failure.
type Response struct {
	Success            bool
	Message            string
	Outcome            *ExecutionOutcome
	Suggestions        []Suggestion
	NeedsConfirmation  bool
	ConfirmationPrompt string
}

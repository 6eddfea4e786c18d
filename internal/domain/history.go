package domain

import "time"

// HistoryRecord is one persisted execution outcome. Learned suggestion state
// is deliberately never persisted; only backend invocations are.
type HistoryRecord struct {
	Timestamp  time.Time  `json:"timestamp"`
	SessionID  string     `json:"session_id"`
	Input      string     `json:"input"`
	Command    string     `json:"command"`
	Kind       IntentKind `json:"kind"`
	Success    bool       `json:"success"`
	ExitCode   int        `json:"exit_code"`
	DurationMS int64      `json:"duration_ms"`
}

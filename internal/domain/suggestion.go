package domain

import "time"

// Suggestion is a ranked recommendation shown (or spoken) after a command.
// Suggestions sharing the same Command string are considered duplicates.
type Suggestion struct {
	Text        string
	Command     string
	Category    string
	Score       float64
	Description string
	Shortcut    string
}

// UsagePattern is a learned sequence of 2-3 consecutive command strings.
type UsagePattern struct {
	Sequence []string
	Count    int
	LastUsed time.Time
}

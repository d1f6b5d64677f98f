package storage

import (
	"errors"
	"time"
)

// ErrCorruptHistory is returned when a stored history document cannot be
// decoded as an ordered list of exchanges.
var ErrCorruptHistory = errors.New("corrupt history document")

// Exchange is one user message and the persona's reply.
// Exchanges are appended in chronological order and never rewritten.
type Exchange struct {
	Timestamp time.Time `json:"timestamp"`
	User      string    `json:"user"`
	Bot       string    `json:"bot"`
}

// HistoryLog persists exchanges per persona.
// Load returns exchanges in insertion order and an empty slice when nothing
// was recorded yet. Append must leave the previous document intact if it fails.
// Implementations must be safe for concurrent use.
type HistoryLog interface {
	Load(persona string) ([]Exchange, error)
	Append(persona string, ex Exchange) error
}

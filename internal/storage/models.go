package storage

import "time"

// Session kinds as stored in session_history.kind.
const (
	KindTomato = "TOMATO"
	KindFlow   = "FLOW"
)

// SessionRecord is one finished (or interrupted) focus interval.
// Records are immutable once appended.
type SessionRecord struct {
	ID              string
	Timestamp       time.Time
	Kind            string
	DurationMinutes int
	Completed       bool
}

// UnlockedAchievement marks a catalog entry as earned. An id appears at
// most once; the set only grows.
type UnlockedAchievement struct {
	ID         string
	UnlockedAt time.Time
}

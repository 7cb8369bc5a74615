package engine

// Signal is a typed outcome surfaced to the presentation layer. Signals
// are advisories, never errors: the state machine has no fatal paths.
type Signal string

const (
	// SignalEncourage fires once per focus session when two minutes
	// remain.
	SignalEncourage Signal = "ENCOURAGE"

	// SignalStreakLost fires when the protection window lapses or is
	// cancelled.
	SignalStreakLost Signal = "STREAK_LOST"

	// SignalQuotaExceeded fires when the daily limit refuses a start or
	// swallows a completion.
	SignalQuotaExceeded Signal = "QUOTA_EXCEEDED"

	// SignalInterrupted fires when a session past the threshold is
	// cancelled and logged as broken.
	SignalInterrupted Signal = "INTERRUPTED"

	// SignalPersistError fires when an append could not be made durable.
	// The in-memory ledger still holds the record.
	SignalPersistError Signal = "PERSIST_ERROR"
)

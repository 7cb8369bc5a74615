package engine

const (
	// TomatoDurationMinutes is the nominal length of one focus session.
	TomatoDurationMinutes = 25

	// Rest formula: N*base + max(0, N-1)*bonus minutes for N credited
	// sessions. Larger uninterrupted batches earn super-linear rest.
	BaseRestMinutes  = 5
	BonusRestMinutes = 5

	OneMinuteSeconds = 60

	// InterruptionThresholdSeconds: below this, a cancelled session is
	// discarded entirely instead of logged as interrupted.
	InterruptionThresholdSeconds = 120

	// StreakProtectionSeconds is the grace window after rest during which
	// starting again keeps the streak alive.
	StreakProtectionSeconds = 120

	// FlowTomatoThresholdMinutes: in flow mode, every full block of this
	// many minutes converts to one completed session on cancel.
	FlowTomatoThresholdMinutes = 25

	// EncourageRemainingSeconds is the countdown threshold that fires the
	// one-shot encouragement signal.
	EncourageRemainingSeconds = 120

	// DailyLimit caps completed tomato records per calendar day.
	DailyLimit = 57

	MinBatchSize = 1
	MaxBatchSize = 8
)

// RestMinutes computes the rest owed for n credited sessions.
func RestMinutes(n int) int {
	if n < 1 {
		return 0
	}
	return n*BaseRestMinutes + (n-1)*BonusRestMinutes
}

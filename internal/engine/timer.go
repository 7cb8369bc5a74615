package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"pomofriends/internal/logger"
	"pomofriends/internal/storage"
)

type Mode string

const (
	ModeCountdown Mode = "COUNTDOWN"
	ModeFlow      Mode = "FLOW"
)

type Status string

const (
	StatusIdle       Status = "IDLE"
	StatusRunning    Status = "RUNNING"
	StatusPaused     Status = "PAUSED"
	StatusResting    Status = "RESTING"
	StatusProtection Status = "STREAK_PROTECTION"
)

// Replicator is offered every appended record for best-effort remote
// replication. Implementations log failures and never block the append.
type Replicator interface {
	Offer(ctx context.Context, rec storage.SessionRecord)
}

type NopReplicator struct{}

func (NopReplicator) Offer(context.Context, storage.SessionRecord) {}

// CompletionResult reports credited sessions after a natural completion
// or a cancel that earned full sessions.
type CompletionResult struct {
	Credited      int
	RestMinutes   int
	NewlyUnlocked []AchievementDef
}

type StartResult struct {
	Started bool
	Signals []Signal
}

type TickResult struct {
	Completed *CompletionResult
	Signals   []Signal
}

type CancelResult struct {
	Completed *CompletionResult
	Signals   []Signal
}

// Snapshot is the plain-data view handed to the presentation layer.
type Snapshot struct {
	Mode           Mode
	Status         Status
	BatchSize      int
	SecondsDisplay int // remaining for countdown phases, elapsed for flow
	TotalSeconds   int // denominator for progress rendering
	UnitIndex      int // 1-based index of the in-progress session
	RestMinutes    int
}

// Timer is the central state machine. It owns the live mode/status,
// recomputes remaining/elapsed from wall-clock anchors on every tick,
// writes session records to the ledger and triggers achievement
// re-evaluation. Single-threaded by design: commands and ticks are
// interleaved callbacks, never concurrent, and a cancel issued in the
// same instant as a pending completion is simply the call that runs
// first.
type Timer struct {
	clock        Clock
	ledger       *Ledger
	achievements *Achievements
	replicator   Replicator

	mode      Mode
	status    Status
	batchSize int
	restPhase bool

	// Anchors. Countdown/rest/protection derive remaining time from
	// targetEnd; flow derives elapsed time from segmentStart plus the
	// accumulated seconds of earlier segments. Exactly one strategy is
	// live depending on mode.
	targetEnd       time.Time
	pausedRemaining int
	segmentStart    time.Time
	accumulated     int

	restMinutes    int
	encourageFired bool
	display        int
}

func NewTimer(clock Clock, ledger *Ledger, achievements *Achievements, replicator Replicator) *Timer {
	if replicator == nil {
		replicator = NopReplicator{}
	}
	t := &Timer{
		clock:        clock,
		ledger:       ledger,
		achievements: achievements,
		replicator:   replicator,
		mode:         ModeCountdown,
		status:       StatusIdle,
		batchSize:    MinBatchSize,
	}
	t.display = t.batchTotalSeconds()
	return t
}

func (t *Timer) Mode() Mode      { return t.mode }
func (t *Timer) Status() Status  { return t.status }
func (t *Timer) BatchSize() int  { return t.batchSize }
func (t *Timer) Ledger() *Ledger { return t.ledger }

// SetBatchSize adjusts the configured batch while idle (streak
// protection counts as idle for configuration). Out-of-range values are
// clamped; calls in any other state are ignored.
func (t *Timer) SetBatchSize(n int) {
	if t.status != StatusIdle && t.status != StatusProtection {
		return
	}
	if n < MinBatchSize {
		n = MinBatchSize
	}
	if n > MaxBatchSize {
		n = MaxBatchSize
	}
	t.batchSize = n
	if t.mode == ModeCountdown {
		t.display = t.batchTotalSeconds()
	}
}

// SwitchMode changes the timer behavior. Only permitted while Idle or in
// streak protection; otherwise a silent no-op.
func (t *Timer) SwitchMode(m Mode) {
	if t.status != StatusIdle && t.status != StatusProtection {
		return
	}
	if m != ModeCountdown && m != ModeFlow {
		return
	}
	t.mode = m
	t.accumulated = 0
	if m == ModeCountdown {
		t.display = t.batchTotalSeconds()
	} else {
		t.display = 0
	}
}

// Start begins or resumes the timer. Valid from Idle, Paused and
// StreakProtection (starting inside the window preserves the streak);
// anything else is a no-op. Refuses with a quota signal when today's
// completed count has hit the daily limit.
func (t *Timer) Start(ctx context.Context) StartResult {
	switch t.status {
	case StatusRunning, StatusResting:
		return StartResult{}
	}

	now := t.clock.Now()
	if QuotaRemaining(t.ledger.All(), now) == 0 {
		return StartResult{Signals: []Signal{SignalQuotaExceeded}}
	}

	if t.status == StatusPaused {
		if t.mode == ModeCountdown {
			t.targetEnd = now.Add(time.Duration(t.pausedRemaining) * time.Second)
			t.display = t.pausedRemaining
		} else {
			t.segmentStart = now
		}
		t.pausedRemaining = 0
		t.status = StatusRunning
		return StartResult{Started: true}
	}

	// Fresh start from Idle or StreakProtection.
	if t.mode == ModeCountdown {
		t.restPhase = false
		seconds := t.batchTotalSeconds()
		t.display = seconds
		t.targetEnd = now.Add(time.Duration(seconds) * time.Second)
		t.encourageFired = false
	} else {
		t.accumulated = 0
		t.display = 0
		t.segmentStart = now
	}
	t.status = StatusRunning
	return StartResult{Started: true}
}

// Pause suspends a running countdown, remembering the remaining seconds.
// Not available in flow mode or any other state.
func (t *Timer) Pause() {
	if t.status != StatusRunning || t.mode != ModeCountdown || t.restPhase {
		return
	}
	t.pausedRemaining = t.remainingAt(t.clock.Now())
	t.display = t.pausedRemaining
	t.status = StatusPaused
}

// Tick recomputes the displayed time from the anchors and handles
// zero-crossings. It is driven on a ~1 second cadence by an external
// scheduler, and additionally fired once on entering a running phase and
// once on regaining foreground; since it only recomputes from anchors,
// back-to-back calls are idempotent.
func (t *Timer) Tick(ctx context.Context) TickResult {
	now := t.clock.Now()

	switch t.status {
	case StatusProtection:
		remaining := t.remainingAt(now)
		t.display = remaining
		if remaining <= 0 {
			t.resetToIdle()
			return TickResult{Signals: []Signal{SignalStreakLost}}
		}
		return TickResult{}

	case StatusResting:
		remaining := t.remainingAt(now)
		t.display = remaining
		if remaining <= 0 {
			t.enterProtection(now)
		}
		return TickResult{}

	case StatusRunning:
		if t.mode == ModeFlow {
			t.display = t.flowElapsedAt(now)
			return TickResult{}
		}

		remaining := t.remainingAt(now)
		t.display = remaining

		var signals []Signal
		if !t.encourageFired && remaining > 0 && remaining <= EncourageRemainingSeconds {
			t.encourageFired = true
			signals = append(signals, SignalEncourage)
		}
		if remaining <= 0 {
			res := t.completeBatch(ctx, now)
			res.Signals = append(signals, res.Signals...)
			return res
		}
		return TickResult{Signals: signals}

	default:
		return TickResult{}
	}
}

// Cancel interrupts the current phase. Unconditional: it always leaves
// Running/Resting/StreakProtection, and takes precedence over a pending
// tick-driven completion requested in the same instant.
func (t *Timer) Cancel(ctx context.Context) CancelResult {
	now := t.clock.Now()

	switch t.status {
	case StatusIdle:
		return CancelResult{}

	case StatusProtection:
		// Giving up is the same as letting the window expire.
		t.resetToIdle()
		return CancelResult{Signals: []Signal{SignalStreakLost}}

	case StatusResting:
		// Forgo the rest, keep the chance to protect the streak.
		t.enterProtection(now)
		return CancelResult{}
	}

	if t.mode == ModeFlow {
		return t.cancelFlow(ctx, now)
	}
	return t.cancelCountdown(ctx, now)
}

func (t *Timer) cancelFlow(ctx context.Context, now time.Time) CancelResult {
	elapsed := t.flowElapsedAt(now)
	flowMinutes := elapsed / OneMinuteSeconds

	// Too short to count at all.
	if elapsed < InterruptionThresholdSeconds {
		t.resetToIdle()
		return CancelResult{}
	}

	// Long enough to have earned whole sessions.
	if flowMinutes >= FlowTomatoThresholdMinutes {
		earned := flowMinutes / FlowTomatoThresholdMinutes
		space := QuotaRemaining(t.ledger.All(), now)
		if space == 0 {
			t.resetToIdle()
			return CancelResult{Signals: []Signal{SignalQuotaExceeded}}
		}
		credited := earned
		if credited > space {
			credited = space
		}
		res, signals := t.credit(ctx, now, credited)
		t.enterRest(now, credited)
		res.RestMinutes = t.restMinutes
		return CancelResult{Completed: res, Signals: signals}
	}

	// Past the threshold but short of a full session: interrupted.
	signals := t.appendInterrupted(ctx, now, flowMinutes)
	t.resetToIdle()
	return CancelResult{Signals: append(signals, SignalInterrupted)}
}

func (t *Timer) cancelCountdown(ctx context.Context, now time.Time) CancelResult {
	total := t.batchTotalSeconds()
	var remaining int
	if t.status == StatusPaused {
		remaining = t.pausedRemaining
	} else {
		remaining = t.remainingAt(now)
	}
	elapsed := total - remaining
	if elapsed < 0 {
		elapsed = 0
	}

	if elapsed < InterruptionThresholdSeconds {
		t.resetToIdle()
		return CancelResult{}
	}

	unitSeconds := TomatoDurationMinutes * OneMinuteSeconds
	fullUnits := elapsed / unitSeconds
	space := QuotaRemaining(t.ledger.All(), now)
	credited := fullUnits
	if credited > space {
		credited = space
	}

	var res *CompletionResult
	var signals []Signal
	if credited > 0 {
		res, signals = t.credit(ctx, now, credited)
	}

	remainder := elapsed % unitSeconds
	if remainder >= InterruptionThresholdSeconds {
		signals = append(signals, t.appendInterrupted(ctx, now, remainder/OneMinuteSeconds)...)
	}

	t.resetToIdle()
	return CancelResult{Completed: res, Signals: append(signals, SignalInterrupted)}
}

// completeBatch handles the natural zero-crossing of a focus countdown.
func (t *Timer) completeBatch(ctx context.Context, now time.Time) TickResult {
	space := QuotaRemaining(t.ledger.All(), now)
	if space == 0 {
		// Quota filled up during the batch: nothing is credited.
		t.resetToIdle()
		return TickResult{Signals: []Signal{SignalQuotaExceeded}}
	}

	credited := t.batchSize
	if credited > space {
		credited = space
	}
	res, signals := t.credit(ctx, now, credited)
	t.enterRest(now, credited)
	res.RestMinutes = t.restMinutes
	return TickResult{Completed: res, Signals: signals}
}

// credit appends one completed record per credited session, offers each
// for replication, and re-evaluates achievements against the full new
// snapshot. The append commits all records before evaluation reads them.
func (t *Timer) credit(ctx context.Context, now time.Time, units int) (*CompletionResult, []Signal) {
	records := make([]storage.SessionRecord, units)
	for i := range records {
		records[i] = t.newRecord(now, TomatoDurationMinutes, true)
	}

	snapshot, err := t.ledger.Append(ctx, records...)
	var signals []Signal
	if err != nil {
		logger.Logger.Warn("session records not persisted", "err", err)
		signals = append(signals, SignalPersistError)
	}
	for _, rec := range records {
		t.replicator.Offer(ctx, rec)
	}

	unlocked := t.achievements.Evaluate(ctx, snapshot)
	return &CompletionResult{Credited: units, NewlyUnlocked: unlocked}, signals
}

func (t *Timer) appendInterrupted(ctx context.Context, now time.Time, minutes int) []Signal {
	rec := t.newRecord(now, minutes, false)
	snapshot, err := t.ledger.Append(ctx, rec)
	var signals []Signal
	if err != nil {
		logger.Logger.Warn("session record not persisted", "err", err)
		signals = append(signals, SignalPersistError)
	}
	t.replicator.Offer(ctx, rec)
	t.achievements.Evaluate(ctx, snapshot)
	return signals
}

func (t *Timer) newRecord(now time.Time, minutes int, completed bool) storage.SessionRecord {
	return storage.SessionRecord{
		ID:              uuid.NewString(),
		Timestamp:       now,
		Kind:            storage.KindTomato,
		DurationMinutes: minutes,
		Completed:       completed,
	}
}

func (t *Timer) enterRest(now time.Time, credited int) {
	t.restPhase = true
	t.restMinutes = RestMinutes(credited)
	seconds := t.restMinutes * OneMinuteSeconds
	t.display = seconds
	t.targetEnd = now.Add(time.Duration(seconds) * time.Second)
	t.status = StatusResting
}

func (t *Timer) enterProtection(now time.Time) {
	t.restPhase = false
	t.display = StreakProtectionSeconds
	t.targetEnd = now.Add(StreakProtectionSeconds * time.Second)
	t.status = StatusProtection
}

func (t *Timer) resetToIdle() {
	t.status = StatusIdle
	t.restPhase = false
	t.accumulated = 0
	t.pausedRemaining = 0
	t.targetEnd = time.Time{}
	t.segmentStart = time.Time{}
	if t.mode == ModeCountdown {
		t.display = t.batchTotalSeconds()
	} else {
		t.display = 0
	}
}

func (t *Timer) batchTotalSeconds() int {
	return t.batchSize * TomatoDurationMinutes * OneMinuteSeconds
}

// remainingAt derives the countdown value from the anchor; never from a
// decremented counter, so gaps between ticks collapse in one call.
func (t *Timer) remainingAt(now time.Time) int {
	d := t.targetEnd.Sub(now)
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

func (t *Timer) flowElapsedAt(now time.Time) int {
	segment := int(now.Sub(t.segmentStart) / time.Second)
	if segment < 0 {
		segment = 0
	}
	return t.accumulated + segment
}

// Snapshot returns the plain-data view for rendering.
func (t *Timer) Snapshot() Snapshot {
	total := t.batchTotalSeconds()
	switch t.status {
	case StatusProtection:
		total = StreakProtectionSeconds
	case StatusResting:
		total = t.restMinutes * OneMinuteSeconds
	default:
		if t.mode == ModeFlow {
			total = 0
		}
	}
	return Snapshot{
		Mode:           t.mode,
		Status:         t.status,
		BatchSize:      t.batchSize,
		SecondsDisplay: t.display,
		TotalSeconds:   total,
		UnitIndex:      t.unitIndex(),
		RestMinutes:    t.restMinutes,
	}
}

func (t *Timer) unitIndex() int {
	if t.mode == ModeFlow || t.status == StatusIdle {
		return 1
	}
	total := t.batchTotalSeconds()
	spent := total - t.display
	idx := spent/(TomatoDurationMinutes*OneMinuteSeconds) + 1
	if idx > t.batchSize {
		idx = t.batchSize
	}
	if idx < 1 {
		idx = 1
	}
	return idx
}

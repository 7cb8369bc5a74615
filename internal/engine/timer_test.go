package engine

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"pomofriends/internal/storage"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

// Tuesday, mid-morning. Keeps habit and weekend rules out of the way
// unless a test opts in.
var testBase = time.Date(2026, time.March, 10, 10, 0, 0, 0, time.Local)

func newTestService(t *testing.T, opts ...ServiceOption) (*Service, *fakeClock) {
	t.Helper()
	ctx := context.Background()

	clk := &fakeClock{now: testBase}
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := storage.Open(ctx, path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	svc, err := NewService(ctx, db, append([]ServiceOption{WithClock(clk)}, opts...)...)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, clk
}

func seedCompleted(t *testing.T, svc *Service, at time.Time, n int) {
	t.Helper()
	records := make([]storage.SessionRecord, n)
	for i := range records {
		records[i] = storage.SessionRecord{
			ID:              uuid.NewString(),
			Timestamp:       at,
			Kind:            storage.KindTomato,
			DurationMinutes: TomatoDurationMinutes,
			Completed:       true,
		}
	}
	if _, err := svc.History().Append(context.Background(), records...); err != nil {
		t.Fatalf("seed history: %v", err)
	}
}

func hasSignal(signals []Signal, want Signal) bool {
	for _, s := range signals {
		if s == want {
			return true
		}
	}
	return false
}

func TestCountdownCompletesBatch(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	tm := svc.Timer()

	res := tm.Start(ctx)
	if !res.Started {
		t.Fatalf("start refused: %+v", res)
	}
	if tm.Status() != StatusRunning {
		t.Fatalf("status=%s, want RUNNING", tm.Status())
	}

	clk.advance(25 * time.Minute)
	tick := tm.Tick(ctx)
	if tick.Completed == nil {
		t.Fatalf("expected completion, got %+v", tick)
	}
	if tick.Completed.Credited != 1 {
		t.Fatalf("credited=%d, want 1", tick.Completed.Credited)
	}
	if tick.Completed.RestMinutes != 5 {
		t.Fatalf("rest=%d, want 5", tick.Completed.RestMinutes)
	}
	if tm.Status() != StatusResting {
		t.Fatalf("status=%s, want RESTING", tm.Status())
	}

	records := svc.History().All()
	if len(records) != 1 {
		t.Fatalf("len(records)=%d, want 1", len(records))
	}
	r := records[0]
	if !r.Completed || r.DurationMinutes != 25 || r.Kind != storage.KindTomato {
		t.Fatalf("unexpected record: %+v", r)
	}
}

func TestBatchRestIsSuperLinear(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	tm := svc.Timer()

	tm.SetBatchSize(3)
	tm.Start(ctx)
	clk.advance(75 * time.Minute)
	tick := tm.Tick(ctx)
	if tick.Completed == nil || tick.Completed.Credited != 3 {
		t.Fatalf("expected 3 credited, got %+v", tick.Completed)
	}
	// 3*5 + 2*5
	if tick.Completed.RestMinutes != 25 {
		t.Fatalf("rest=%d, want 25", tick.Completed.RestMinutes)
	}
	if got := svc.History().Len(); got != 3 {
		t.Fatalf("len(records)=%d, want 3", got)
	}
}

func TestRestExpiryEntersProtection(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	tm := svc.Timer()

	tm.Start(ctx)
	clk.advance(25 * time.Minute)
	tm.Tick(ctx)

	clk.advance(5 * time.Minute)
	tm.Tick(ctx)
	if tm.Status() != StatusProtection {
		t.Fatalf("status=%s, want STREAK_PROTECTION", tm.Status())
	}
	if got := tm.Snapshot().SecondsDisplay; got != StreakProtectionSeconds {
		t.Fatalf("display=%d, want %d", got, StreakProtectionSeconds)
	}
}

func TestProtectionExpiryLosesStreak(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	tm := svc.Timer()

	tm.Start(ctx)
	clk.advance(25 * time.Minute)
	tm.Tick(ctx)
	clk.advance(5 * time.Minute)
	tm.Tick(ctx)

	clk.advance(StreakProtectionSeconds * time.Second)
	tick := tm.Tick(ctx)
	if !hasSignal(tick.Signals, SignalStreakLost) {
		t.Fatalf("expected streak-lost signal, got %+v", tick.Signals)
	}
	if tm.Status() != StatusIdle {
		t.Fatalf("status=%s, want IDLE", tm.Status())
	}
	// Expiry never touches the history.
	if got := svc.History().Len(); got != 1 {
		t.Fatalf("len(records)=%d, want 1", got)
	}
}

func TestProtectionCancelLosesStreak(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	tm := svc.Timer()

	tm.Start(ctx)
	clk.advance(25 * time.Minute)
	tm.Tick(ctx)
	clk.advance(5 * time.Minute)
	tm.Tick(ctx)

	res := tm.Cancel(ctx)
	if !hasSignal(res.Signals, SignalStreakLost) {
		t.Fatalf("expected streak-lost signal, got %+v", res.Signals)
	}
	if tm.Status() != StatusIdle {
		t.Fatalf("status=%s, want IDLE", tm.Status())
	}
}

func TestRestCancelEntersProtection(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	tm := svc.Timer()

	tm.Start(ctx)
	clk.advance(25 * time.Minute)
	tm.Tick(ctx)

	res := tm.Cancel(ctx)
	if len(res.Signals) != 0 {
		t.Fatalf("unexpected signals: %+v", res.Signals)
	}
	if tm.Status() != StatusProtection {
		t.Fatalf("status=%s, want STREAK_PROTECTION", tm.Status())
	}
}

func TestStartFromProtectionBeginsFreshBatch(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	tm := svc.Timer()

	tm.Start(ctx)
	clk.advance(25 * time.Minute)
	tm.Tick(ctx)
	clk.advance(5 * time.Minute)
	tm.Tick(ctx)

	res := tm.Start(ctx)
	if !res.Started {
		t.Fatalf("start from protection refused: %+v", res)
	}
	if tm.Status() != StatusRunning {
		t.Fatalf("status=%s, want RUNNING", tm.Status())
	}
	if got := tm.Snapshot().SecondsDisplay; got != 25*60 {
		t.Fatalf("display=%d, want %d", got, 25*60)
	}
}

func TestCountdownCancelEarlyDiscards(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	tm := svc.Timer()

	tm.Start(ctx)
	clk.advance(90 * time.Second)
	res := tm.Cancel(ctx)
	if len(res.Signals) != 0 || res.Completed != nil {
		t.Fatalf("expected silent discard, got %+v", res)
	}
	if tm.Status() != StatusIdle {
		t.Fatalf("status=%s, want IDLE", tm.Status())
	}
	if got := svc.History().Len(); got != 0 {
		t.Fatalf("len(records)=%d, want 0", got)
	}
}

func TestCountdownCancelLogsInterrupted(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	tm := svc.Timer()

	tm.Start(ctx)
	clk.advance(10 * time.Minute)
	res := tm.Cancel(ctx)
	if !hasSignal(res.Signals, SignalInterrupted) {
		t.Fatalf("expected interrupted signal, got %+v", res.Signals)
	}
	records := svc.History().All()
	if len(records) != 1 {
		t.Fatalf("len(records)=%d, want 1", len(records))
	}
	if records[0].Completed || records[0].DurationMinutes != 10 {
		t.Fatalf("unexpected record: %+v", records[0])
	}
}

func TestCountdownCancelCreditsFullSessions(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	tm := svc.Timer()

	tm.SetBatchSize(3)
	tm.Start(ctx)
	clk.advance(29 * time.Minute)
	res := tm.Cancel(ctx)

	if res.Completed == nil || res.Completed.Credited != 1 {
		t.Fatalf("expected 1 credited, got %+v", res.Completed)
	}
	if !hasSignal(res.Signals, SignalInterrupted) {
		t.Fatalf("expected interrupted signal, got %+v", res.Signals)
	}
	records := svc.History().All()
	if len(records) != 2 {
		t.Fatalf("len(records)=%d, want 2", len(records))
	}
	if !records[0].Completed || records[0].DurationMinutes != 25 {
		t.Fatalf("unexpected credited record: %+v", records[0])
	}
	if records[1].Completed || records[1].DurationMinutes != 4 {
		t.Fatalf("unexpected remainder record: %+v", records[1])
	}
	if tm.Status() != StatusIdle {
		t.Fatalf("status=%s, want IDLE", tm.Status())
	}
}

func TestCountdownCancelRemainderBelowThresholdDropped(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	tm := svc.Timer()

	tm.SetBatchSize(2)
	tm.Start(ctx)
	// 26 minutes: one full session plus a 60s remainder.
	clk.advance(26 * time.Minute)
	res := tm.Cancel(ctx)
	if res.Completed == nil || res.Completed.Credited != 1 {
		t.Fatalf("expected 1 credited, got %+v", res.Completed)
	}
	if got := svc.History().Len(); got != 1 {
		t.Fatalf("len(records)=%d, want 1", got)
	}
}

func TestPauseResume(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	tm := svc.Timer()

	tm.Start(ctx)
	clk.advance(5 * time.Minute)
	tm.Tick(ctx)
	tm.Pause()
	if tm.Status() != StatusPaused {
		t.Fatalf("status=%s, want PAUSED", tm.Status())
	}

	// Time passing while paused must not count.
	clk.advance(30 * time.Minute)
	res := tm.Start(ctx)
	if !res.Started {
		t.Fatalf("resume refused: %+v", res)
	}
	if got := tm.Snapshot().SecondsDisplay; got != 20*60 {
		t.Fatalf("display=%d, want %d", got, 20*60)
	}

	clk.advance(20 * time.Minute)
	tick := tm.Tick(ctx)
	if tick.Completed == nil || tick.Completed.Credited != 1 {
		t.Fatalf("expected completion after resume, got %+v", tick)
	}
}

func TestPauseUnavailableInFlow(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	tm := svc.Timer()

	tm.SwitchMode(ModeFlow)
	tm.Start(ctx)
	clk.advance(time.Minute)
	tm.Pause()
	if tm.Status() != StatusRunning {
		t.Fatalf("status=%s, want RUNNING", tm.Status())
	}
}

func TestEncourageFiresOnce(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	tm := svc.Timer()

	tm.Start(ctx)
	clk.advance(23 * time.Minute)
	tick := tm.Tick(ctx)
	if !hasSignal(tick.Signals, SignalEncourage) {
		t.Fatalf("expected encourage at 120s remaining, got %+v", tick.Signals)
	}

	clk.advance(10 * time.Second)
	tick = tm.Tick(ctx)
	if hasSignal(tick.Signals, SignalEncourage) {
		t.Fatalf("encourage fired twice")
	}
}

func TestEncourageFiresOnJumpPastThreshold(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	tm := svc.Timer()

	tm.Start(ctx)
	// No tick lands on the threshold itself.
	clk.advance(24*time.Minute + 10*time.Second)
	tick := tm.Tick(ctx)
	if !hasSignal(tick.Signals, SignalEncourage) {
		t.Fatalf("expected encourage after jumping past threshold, got %+v", tick.Signals)
	}
}

func TestEncourageResetsOnNewBatch(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	tm := svc.Timer()

	tm.Start(ctx)
	clk.advance(23 * time.Minute)
	tm.Tick(ctx)
	tm.Cancel(ctx)

	tm.Start(ctx)
	clk.advance(23 * time.Minute)
	tick := tm.Tick(ctx)
	if !hasSignal(tick.Signals, SignalEncourage) {
		t.Fatalf("expected encourage on the new batch, got %+v", tick.Signals)
	}
}

func TestTickCollapsesDrift(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	tm := svc.Timer()

	tm.Start(ctx)
	// Simulate a suspended process: one tick after a long gap.
	clk.advance(10 * time.Minute)
	tm.Tick(ctx)
	if got := tm.Snapshot().SecondsDisplay; got != 15*60 {
		t.Fatalf("display=%d, want %d", got, 15*60)
	}
}

func TestQuotaRefusesStart(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	tm := svc.Timer()

	seedCompleted(t, svc, clk.now, DailyLimit)
	res := tm.Start(ctx)
	if res.Started {
		t.Fatalf("start allowed past the daily limit")
	}
	if !hasSignal(res.Signals, SignalQuotaExceeded) {
		t.Fatalf("expected quota signal, got %+v", res.Signals)
	}
	if tm.Status() != StatusIdle {
		t.Fatalf("status=%s, want IDLE", tm.Status())
	}
}

func TestQuotaIgnoresYesterday(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	tm := svc.Timer()

	seedCompleted(t, svc, clk.now.AddDate(0, 0, -1), DailyLimit)
	if res := tm.Start(ctx); !res.Started {
		t.Fatalf("start refused on a fresh day: %+v", res)
	}
}

func TestQuotaClampsBatchCompletion(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	tm := svc.Timer()

	seedCompleted(t, svc, clk.now, DailyLimit-2)
	tm.SetBatchSize(4)
	tm.Start(ctx)
	clk.advance(100 * time.Minute)
	tick := tm.Tick(ctx)
	if tick.Completed == nil || tick.Completed.Credited != 2 {
		t.Fatalf("expected clamp to 2 credited, got %+v", tick.Completed)
	}
	if tick.Completed.RestMinutes != 15 {
		t.Fatalf("rest=%d, want 15", tick.Completed.RestMinutes)
	}
	if got := svc.History().Len(); got != DailyLimit {
		t.Fatalf("len(records)=%d, want %d", got, DailyLimit)
	}
}

func TestQuotaExhaustedDuringBatch(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	tm := svc.Timer()

	tm.Start(ctx)
	// Another device fills the quota while the batch runs.
	seedCompleted(t, svc, clk.now, DailyLimit)
	clk.advance(25 * time.Minute)
	tick := tm.Tick(ctx)
	if tick.Completed != nil {
		t.Fatalf("expected nothing credited, got %+v", tick.Completed)
	}
	if !hasSignal(tick.Signals, SignalQuotaExceeded) {
		t.Fatalf("expected quota signal, got %+v", tick.Signals)
	}
	if tm.Status() != StatusIdle {
		t.Fatalf("status=%s, want IDLE", tm.Status())
	}
}

func TestFlowCancelShortDiscards(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	tm := svc.Timer()

	tm.SwitchMode(ModeFlow)
	tm.Start(ctx)
	clk.advance(60 * time.Second)
	res := tm.Cancel(ctx)
	if res.Completed != nil || len(res.Signals) != 0 {
		t.Fatalf("expected silent discard, got %+v", res)
	}
	if got := svc.History().Len(); got != 0 {
		t.Fatalf("len(records)=%d, want 0", got)
	}
}

func TestFlowCancelLogsInterrupted(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	tm := svc.Timer()

	tm.SwitchMode(ModeFlow)
	tm.Start(ctx)
	clk.advance(130 * time.Second)
	res := tm.Cancel(ctx)
	if !hasSignal(res.Signals, SignalInterrupted) {
		t.Fatalf("expected interrupted signal, got %+v", res.Signals)
	}
	records := svc.History().All()
	if len(records) != 1 {
		t.Fatalf("len(records)=%d, want 1", len(records))
	}
	if records[0].Completed || records[0].DurationMinutes != 2 {
		t.Fatalf("unexpected record: %+v", records[0])
	}
	if tm.Status() != StatusIdle {
		t.Fatalf("status=%s, want IDLE", tm.Status())
	}
}

func TestFlowCancelCreditsSessions(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	tm := svc.Timer()

	tm.SwitchMode(ModeFlow)
	tm.Start(ctx)
	clk.advance(51 * time.Minute)
	res := tm.Cancel(ctx)
	if res.Completed == nil || res.Completed.Credited != 2 {
		t.Fatalf("expected 2 credited, got %+v", res.Completed)
	}
	if res.Completed.RestMinutes != 15 {
		t.Fatalf("rest=%d, want 15", res.Completed.RestMinutes)
	}
	if tm.Status() != StatusResting {
		t.Fatalf("status=%s, want RESTING", tm.Status())
	}
	for _, r := range svc.History().All() {
		if !r.Completed || r.DurationMinutes != 25 {
			t.Fatalf("unexpected record: %+v", r)
		}
	}
}

func TestFlowCancelSingleUnitBoundary(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	tm := svc.Timer()

	tm.SwitchMode(ModeFlow)
	tm.Start(ctx)
	// 1510s floors to 25 minutes: exactly one earned session.
	clk.advance(1510 * time.Second)
	res := tm.Cancel(ctx)
	if res.Completed == nil || res.Completed.Credited != 1 {
		t.Fatalf("expected 1 credited, got %+v", res.Completed)
	}
	if res.Completed.RestMinutes != 5 {
		t.Fatalf("rest=%d, want 5", res.Completed.RestMinutes)
	}
	if tm.Status() != StatusResting {
		t.Fatalf("status=%s, want RESTING", tm.Status())
	}
}

func TestFlowDisplayCountsUp(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	tm := svc.Timer()

	tm.SwitchMode(ModeFlow)
	tm.Start(ctx)
	clk.advance(90 * time.Second)
	tm.Tick(ctx)
	if got := tm.Snapshot().SecondsDisplay; got != 90 {
		t.Fatalf("display=%d, want 90", got)
	}
}

func TestSwitchModeWhileRunningIgnored(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	tm := svc.Timer()

	tm.Start(ctx)
	clk.advance(time.Minute)
	tm.SwitchMode(ModeFlow)
	if tm.Mode() != ModeCountdown {
		t.Fatalf("mode switched mid-session")
	}
}

func TestSetBatchSize(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	tm := svc.Timer()

	tm.SetBatchSize(99)
	if got := tm.BatchSize(); got != MaxBatchSize {
		t.Fatalf("batch=%d, want %d", got, MaxBatchSize)
	}
	tm.SetBatchSize(0)
	if got := tm.BatchSize(); got != MinBatchSize {
		t.Fatalf("batch=%d, want %d", got, MinBatchSize)
	}

	tm.SetBatchSize(3)
	tm.Start(ctx)
	clk.advance(time.Minute)
	tm.SetBatchSize(5)
	if got := tm.BatchSize(); got != 3 {
		t.Fatalf("batch changed while running: %d", got)
	}
}

func TestStartWhileRunningIgnored(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	tm := svc.Timer()

	tm.Start(ctx)
	clk.advance(5 * time.Minute)
	tm.Tick(ctx)
	before := tm.Snapshot().SecondsDisplay
	if res := tm.Start(ctx); res.Started {
		t.Fatalf("start accepted while running")
	}
	if got := tm.Snapshot().SecondsDisplay; got != before {
		t.Fatalf("display changed: %d != %d", got, before)
	}
}

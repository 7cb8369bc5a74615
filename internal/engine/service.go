package engine

import (
	"context"
	"database/sql"

	"pomofriends/internal/storage"
)

// Service wires the repos, the ledger, the achievement engine and the
// timer state machine over one database handle.
type Service struct {
	db       *sql.DB
	history  *storage.HistoryRepo
	unlocks  *storage.AchievementRepo
	settings *storage.SettingsRepo

	clock        Clock
	ledger       *Ledger
	achievements *Achievements
	timer        *Timer
}

type ServiceOption func(*serviceConfig)

type serviceConfig struct {
	clock      Clock
	replicator Replicator
	catalog    []AchievementDef
}

func WithClock(c Clock) ServiceOption {
	return func(cfg *serviceConfig) { cfg.clock = c }
}

func WithReplicator(r Replicator) ServiceOption {
	return func(cfg *serviceConfig) { cfg.replicator = r }
}

func WithCatalog(defs []AchievementDef) ServiceOption {
	return func(cfg *serviceConfig) { cfg.catalog = defs }
}

// NewService loads persisted state and builds a ready timer.
func NewService(ctx context.Context, db *sql.DB, opts ...ServiceOption) (*Service, error) {
	cfg := serviceConfig{
		clock:      SystemClock{},
		replicator: NopReplicator{},
		catalog:    Catalog(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	history := storage.NewHistoryRepo(db)
	unlocks := storage.NewAchievementRepo(db)

	ledger, err := NewLedger(ctx, history)
	if err != nil {
		return nil, err
	}
	achievements, err := NewAchievements(ctx, unlocks, cfg.clock, cfg.catalog)
	if err != nil {
		return nil, err
	}

	return &Service{
		db:           db,
		history:      history,
		unlocks:      unlocks,
		settings:     storage.NewSettingsRepo(db),
		clock:        cfg.clock,
		ledger:       ledger,
		achievements: achievements,
		timer:        NewTimer(cfg.clock, ledger, achievements, cfg.replicator),
	}, nil
}

func (s *Service) Timer() *Timer                       { return s.timer }
func (s *Service) History() *Ledger                    { return s.ledger }
func (s *Service) Achievements() *Achievements         { return s.achievements }
func (s *Service) SettingsRepo() *storage.SettingsRepo { return s.settings }

// Stats summarizes the current ledger snapshot.
func (s *Service) Stats() StatsSummary {
	return Summarize(s.ledger.All(), s.clock.Now())
}

// Sync re-runs achievement evaluation against the current ledger. Used
// after restoring history from elsewhere so badges are recomputed.
func (s *Service) Sync(ctx context.Context) []AchievementDef {
	return s.achievements.Evaluate(ctx, s.ledger.All())
}

// ClearData wipes history and unlocked achievements. Administrative
// escape hatch; resets in-memory state to match.
func (s *Service) ClearData(ctx context.Context) error {
	if err := s.history.Clear(ctx); err != nil {
		return err
	}
	if err := s.unlocks.Clear(ctx); err != nil {
		return err
	}
	s.ledger.Reset(nil)
	s.achievements.resetUnlocked(nil)
	return nil
}

package engine

import (
	"context"
	"fmt"
	"time"

	"pomofriends/internal/logger"
	"pomofriends/internal/storage"
)

// AchievementStore persists the unlocked set.
// *storage.AchievementRepo satisfies it.
type AchievementStore interface {
	Insert(ctx context.Context, unlocks ...storage.UnlockedAchievement) error
	ListAll(ctx context.Context) ([]storage.UnlockedAchievement, error)
}

// Achievements evaluates the declarative catalog against the history log
// and maintains the idempotent unlocked set. Because history only grows
// and conditions are monotonic, re-running Evaluate after every append is
// safe: an id unlocks at most once, the first time its condition holds.
type Achievements struct {
	catalog  []AchievementDef
	store    AchievementStore
	clock    Clock
	unlocked []storage.UnlockedAchievement
	byID     map[string]storage.UnlockedAchievement
}

// NewAchievements loads the persisted unlocked set for the given catalog.
func NewAchievements(ctx context.Context, store AchievementStore, clock Clock, catalog []AchievementDef) (*Achievements, error) {
	unlocked, err := store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load unlocked achievements: %w", err)
	}
	a := &Achievements{catalog: catalog, store: store, clock: clock}
	a.resetUnlocked(unlocked)
	return a, nil
}

func (a *Achievements) resetUnlocked(unlocked []storage.UnlockedAchievement) {
	a.unlocked = unlocked
	a.byID = make(map[string]storage.UnlockedAchievement, len(unlocked))
	for _, u := range unlocked {
		a.byID[u.ID] = u
	}
}

// Evaluate runs every not-yet-unlocked rule against the history snapshot
// and returns the definitions that just became satisfied. A failing rule
// is isolated: it logs and is skipped, and the rest of the catalog still
// evaluates. Persistence failure keeps the in-memory unlocks and is
// logged as an advisory.
func (a *Achievements) Evaluate(ctx context.Context, history []storage.SessionRecord) []AchievementDef {
	now := a.clock.Now()

	var newly []AchievementDef
	var inserts []storage.UnlockedAchievement
	for _, def := range a.catalog {
		if _, ok := a.byID[def.ID]; ok {
			continue
		}
		if !a.safeCondition(def, history, now) {
			continue
		}
		u := storage.UnlockedAchievement{ID: def.ID, UnlockedAt: now}
		a.unlocked = append(a.unlocked, u)
		a.byID[def.ID] = u
		inserts = append(inserts, u)
		newly = append(newly, def)
	}

	if len(inserts) > 0 {
		if err := a.store.Insert(ctx, inserts...); err != nil {
			logger.Logger.Warn("could not persist unlocked achievements", "err", err)
		}
	}
	return newly
}

func (a *Achievements) safeCondition(def AchievementDef, history []storage.SessionRecord, now time.Time) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Logger.Error("achievement rule failed", "id", def.ID, "panic", r)
			ok = false
		}
	}()
	return def.Condition(history, now)
}

// ProgressFor is the display-only progress side channel. It never
// mutates unlock state.
func (a *Achievements) ProgressFor(def AchievementDef, history []storage.SessionRecord) (p Progress) {
	defer func() {
		if r := recover(); r != nil {
			logger.Logger.Error("achievement progress failed", "id", def.ID, "panic", r)
			p = Progress{}
		}
	}()
	return def.Progress(history, a.clock.Now())
}

// Unlocked returns the unlocked set in unlock order.
func (a *Achievements) Unlocked() []storage.UnlockedAchievement {
	return a.unlocked
}

// IsUnlocked reports whether the given id has been earned.
func (a *Achievements) IsUnlocked(id string) bool {
	_, ok := a.byID[id]
	return ok
}

// Catalog returns the rule definitions backing this engine.
func (a *Achievements) Catalog() []AchievementDef {
	return a.catalog
}

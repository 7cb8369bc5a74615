package engine

import (
	"context"
	"fmt"

	"pomofriends/internal/storage"
)

// HistoryStore persists the append-only session log.
// *storage.HistoryRepo satisfies it.
type HistoryStore interface {
	Append(ctx context.Context, records ...storage.SessionRecord) error
	ListAll(ctx context.Context) ([]storage.SessionRecord, error)
}

// Ledger is the append-only session history and the single source of
// truth for statistics and achievement evaluation. It keeps an in-memory
// snapshot loaded from the store; appends that fail to persist still land
// in the snapshot and surface the failure as an advisory error.
type Ledger struct {
	store   HistoryStore
	records []storage.SessionRecord
}

// NewLedger loads the persisted history into memory.
func NewLedger(ctx context.Context, store HistoryStore) (*Ledger, error) {
	records, err := store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return &Ledger{store: store, records: records}, nil
}

// Append adds records to the log, in order, and returns the new snapshot.
// A non-nil error means persistence failed; the in-memory log was still
// updated and the caller should treat the error as advisory.
func (l *Ledger) Append(ctx context.Context, records ...storage.SessionRecord) ([]storage.SessionRecord, error) {
	l.records = append(l.records, records...)
	if err := l.store.Append(ctx, records...); err != nil {
		return l.All(), fmt.Errorf("persist history: %w", err)
	}
	return l.All(), nil
}

// All returns the current snapshot in insertion order. Callers must treat
// it as immutable.
func (l *Ledger) All() []storage.SessionRecord {
	return l.records
}

// Len returns the number of records in the log.
func (l *Ledger) Len() int {
	return len(l.records)
}

// Reset replaces the in-memory snapshot. Used only after the
// administrative bulk clear.
func (l *Ledger) Reset(records []storage.SessionRecord) {
	l.records = records
}

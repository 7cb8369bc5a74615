package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type HistoryRepo struct {
	db *sql.DB
}

func NewHistoryRepo(db *sql.DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

// Append inserts the given records in order. A multi-record append (one
// per credited session in a batch) commits atomically so readers never
// observe a partially written credit.
func (r *HistoryRepo) Append(ctx context.Context, records ...SessionRecord) error {
	if len(records) == 0 {
		return nil
	}
	return WithTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, rec := range records {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO session_history (id, timestamp, kind, duration_minutes, completed)
				VALUES (?, ?, ?, ?, ?)
			`, rec.ID, rec.Timestamp, rec.Kind, rec.DurationMinutes, rec.Completed)
			if err != nil {
				return fmt.Errorf("history insert: %w", err)
			}
		}
		return nil
	})
}

// ListAll returns every record in insertion order.
func (r *HistoryRepo) ListAll(ctx context.Context) ([]SessionRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, timestamp, kind, duration_minutes, completed
		FROM session_history
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("history list: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		var rec SessionRecord
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &rec.Kind, &rec.DurationMinutes, &rec.Completed); err != nil {
			return nil, fmt.Errorf("history scan: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history rows: %w", err)
	}
	return out, nil
}

// Clear wipes the log. Administrative escape hatch, not part of the
// normal append-only flow.
func (r *HistoryRepo) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM session_history`); err != nil {
		return fmt.Errorf("history clear: %w", err)
	}
	return nil
}

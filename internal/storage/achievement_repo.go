package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type AchievementRepo struct {
	db *sql.DB
}

func NewAchievementRepo(db *sql.DB) *AchievementRepo {
	return &AchievementRepo{db: db}
}

// Insert stores newly unlocked achievements. INSERT OR IGNORE keeps the
// unlocked set idempotent even if the same id is offered twice.
func (r *AchievementRepo) Insert(ctx context.Context, unlocks ...UnlockedAchievement) error {
	if len(unlocks) == 0 {
		return nil
	}
	return WithTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, u := range unlocks {
			_, err := tx.ExecContext(ctx, `
				INSERT OR IGNORE INTO unlocked_achievements (id, unlocked_at)
				VALUES (?, ?)
			`, u.ID, u.UnlockedAt)
			if err != nil {
				return fmt.Errorf("achievement insert: %w", err)
			}
		}
		return nil
	})
}

func (r *AchievementRepo) ListAll(ctx context.Context) ([]UnlockedAchievement, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, unlocked_at
		FROM unlocked_achievements
		ORDER BY unlocked_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("achievement list: %w", err)
	}
	defer rows.Close()

	var out []UnlockedAchievement
	for rows.Next() {
		var u UnlockedAchievement
		if err := rows.Scan(&u.ID, &u.UnlockedAt); err != nil {
			return nil, fmt.Errorf("achievement scan: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("achievement rows: %w", err)
	}
	return out, nil
}

func (r *AchievementRepo) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM unlocked_achievements`); err != nil {
		return fmt.Errorf("achievement clear: %w", err)
	}
	return nil
}

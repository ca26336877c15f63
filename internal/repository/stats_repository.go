package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"studybee/internal/model"
)

type StatsRepository struct {
	db *sql.DB
}

func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// CreateInitial inserts a zeroed stats row for a new identity.
func (r *StatsRepository) CreateInitial(ctx context.Context, userID string, now time.Time) error {
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO stats (user_id, learning_time, distraction_time, last_updated)
		 VALUES (?, 0, 0, ?)`,
		userID,
		now.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("create initial stats: %w", err)
	}
	return nil
}

// Get returns the identity's merged stats, or ErrNotFound.
func (r *StatsRepository) Get(ctx context.Context, userID string) (*model.MergedStats, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT user_id, learning_time, distraction_time, last_updated FROM stats WHERE user_id = ?`,
		userID,
	)
	return scanStats(row)
}

// Merge raises the stored totals to at least the given values inside a
// transaction, so concurrent syncs for the same identity cannot interleave
// their read-modify-write and lose the monotonic invariant.
func (r *StatsRepository) Merge(ctx context.Context, userID string, learning, distraction int64, now time.Time) (*model.MergedStats, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin merge tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(
		ctx,
		`SELECT user_id, learning_time, distraction_time, last_updated FROM stats WHERE user_id = ?`,
		userID,
	)
	existing, err := scanStats(row)
	if err == ErrNotFound {
		existing = &model.MergedStats{UserID: userID}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO stats (user_id, learning_time, distraction_time, last_updated)
			 VALUES (?, 0, 0, ?)`,
			userID,
			now.UTC().Format(time.RFC3339Nano),
		); err != nil {
			return nil, fmt.Errorf("create stats on merge: %w", err)
		}
	} else if err != nil {
		return nil, err
	}

	merged := &model.MergedStats{
		UserID:          userID,
		LearningTime:    maxInt64(existing.LearningTime, learning),
		DistractionTime: maxInt64(existing.DistractionTime, distraction),
		LastUpdated:     now,
	}

	if _, err := tx.ExecContext(
		ctx,
		`UPDATE stats SET learning_time = ?, distraction_time = ?, last_updated = ? WHERE user_id = ?`,
		merged.LearningTime,
		merged.DistractionTime,
		merged.LastUpdated.UTC().Format(time.RFC3339Nano),
		userID,
	); err != nil {
		return nil, fmt.Errorf("update merged stats: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit merge: %w", err)
	}
	return merged, nil
}

func scanStats(row *sql.Row) (*model.MergedStats, error) {
	var stats model.MergedStats
	var lastUpdated string
	if err := row.Scan(&stats.UserID, &stats.LearningTime, &stats.DistractionTime, &lastUpdated); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan stats: %w", err)
	}

	parsed, err := parseTime(lastUpdated)
	if err != nil {
		return nil, fmt.Errorf("parse stats last_updated: %w", err)
	}
	stats.LastUpdated = parsed
	return &stats, nil
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

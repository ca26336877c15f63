// Package aggregate folds closed sessions into bucketed daily statistics
// with a fixed retention window.
package aggregate

import (
	"context"
	"time"

	"studybee/internal/civil"
	"studybee/internal/localstore"
	"studybee/internal/model"
)

// RetentionDays is the number of calendar days of history kept locally.
const RetentionDays = 30

// Aggregator records sessions into the local store. Callers must serialize
// Record calls; the tracker's event loop is the single writer.
type Aggregator struct {
	store localstore.Store
	now   func() time.Time
}

func New(store localstore.Store) *Aggregator {
	return &Aggregator{store: store, now: time.Now}
}

// Record appends the session to the log, adds its duration to the matching
// day and hour buckets, then prunes everything older than the retention
// window. Pruning on every record bounds retention lag by the gap between
// sessions rather than by a separate timer.
func (a *Aggregator) Record(ctx context.Context, session *model.Session) error {
	if err := a.store.AppendSession(ctx, session); err != nil {
		return err
	}
	if err := a.store.AddToBucket(ctx, session.Date, session.Hour, session.Category, session.DurationSeconds); err != nil {
		return err
	}

	cutoff := civil.CutoffDate(a.now(), RetentionDays)
	_, err := a.store.PruneBefore(ctx, cutoff)
	return err
}

// TodayStats returns the aggregate for the current civil date.
func (a *Aggregator) TodayStats(ctx context.Context) (string, *model.DailyStats, error) {
	today := civil.Date(a.now())
	stats, err := a.store.DailyStats(ctx, today)
	return today, stats, err
}

package aggregate

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studybee/internal/civil"
	"studybee/internal/localstore"
	"studybee/internal/model"
)

func newTestAggregator(t *testing.T, now time.Time) (*Aggregator, localstore.Store) {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := localstore.NewSQLiteStore(db)
	require.NoError(t, err)

	agg := New(store)
	agg.now = func() time.Time { return now }
	return agg, store
}

func sessionAt(now time.Time, category model.Category, seconds int) *model.Session {
	date, hour := civil.DateHour(now)
	return &model.Session{
		URL:             "https://example.com",
		Hostname:        "example.com",
		Title:           "page",
		Category:        category,
		DurationSeconds: seconds,
		TimestampMs:     now.UnixMilli(),
		Date:            date,
		Hour:            hour,
	}
}

func TestRecordExactAccounting(t *testing.T) {
	now := time.Date(2024, 3, 11, 10, 0, 0, 0, civil.Zone)
	agg, _ := newTestAggregator(t, now)
	ctx := context.Background()

	durations := []struct {
		category model.Category
		seconds  int
	}{
		{model.CategoryLearning, 120},
		{model.CategoryLearning, 37},
		{model.CategoryDistraction, 300},
		{model.CategoryMixed, 8},
	}

	total := 0
	for _, d := range durations {
		require.NoError(t, agg.Record(ctx, sessionAt(now, d.category, d.seconds)))
		total += d.seconds
	}

	date, stats, err := agg.TodayStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-11", date)
	assert.Equal(t, 157, stats.Learning)
	assert.Equal(t, 300, stats.Distraction)
	assert.Equal(t, 8, stats.Mixed)

	// Day totals equal the session durations and the hourly breakdown.
	assert.Equal(t, total, stats.Sum())
	hourlySum := 0
	for _, bucket := range stats.Hourly {
		hourlySum += bucket.Sum()
	}
	assert.Equal(t, total, hourlySum)
}

func TestRecordPrunesExpiredDates(t *testing.T) {
	now := time.Date(2024, 3, 11, 10, 0, 0, 0, civil.Zone)
	agg, store := newTestAggregator(t, now)
	ctx := context.Background()

	// Seed a session well outside the retention window.
	old := sessionAt(now.AddDate(0, 0, -40), model.CategoryLearning, 60)
	require.NoError(t, store.AppendSession(ctx, old))
	require.NoError(t, store.AddToBucket(ctx, old.Date, old.Hour, old.Category, old.DurationSeconds))

	require.NoError(t, agg.Record(ctx, sessionAt(now, model.CategoryLearning, 30)))

	expired, err := store.SessionsOn(ctx, old.Date)
	require.NoError(t, err)
	assert.Empty(t, expired)

	oldStats, err := store.DailyStats(ctx, old.Date)
	require.NoError(t, err)
	assert.Equal(t, 0, oldStats.Sum())
}

func TestRecordKeepsDatesInsideWindow(t *testing.T) {
	now := time.Date(2024, 3, 11, 10, 0, 0, 0, civil.Zone)
	agg, store := newTestAggregator(t, now)
	ctx := context.Background()

	// Exactly at the cutoff: date == today-30 is kept, only strictly older
	// dates are dropped.
	edge := sessionAt(now.AddDate(0, 0, -RetentionDays), model.CategoryMixed, 60)
	require.NoError(t, store.AppendSession(ctx, edge))

	require.NoError(t, agg.Record(ctx, sessionAt(now, model.CategoryLearning, 30)))

	kept, err := store.SessionsOn(ctx, edge.Date)
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}

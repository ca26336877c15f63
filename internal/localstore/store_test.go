package localstore

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studybee/internal/model"
)

// openTestStore creates an in-memory store for testing.
func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := NewSQLiteStore(db)
	require.NoError(t, err)
	return store
}

func TestAppendSessionAndReadBack(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	session := &model.Session{
		URL:             "https://github.com/golang/go",
		Hostname:        "github.com",
		Title:           "golang/go",
		Category:        model.CategoryLearning,
		DurationSeconds: 42,
		TimestampMs:     1700000000000,
		Date:            "2024-03-11",
		Hour:            9,
	}
	require.NoError(t, store.AppendSession(ctx, session))

	sessions, err := store.SessionsOn(ctx, "2024-03-11")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, *session, sessions[0])
}

func TestBucketsAccumulate(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddToBucket(ctx, "2024-03-11", 9, model.CategoryLearning, 30))
	require.NoError(t, store.AddToBucket(ctx, "2024-03-11", 9, model.CategoryLearning, 12))
	require.NoError(t, store.AddToBucket(ctx, "2024-03-11", 14, model.CategoryDistraction, 20))
	require.NoError(t, store.AddToBucket(ctx, "2024-03-12", 9, model.CategoryMixed, 5))

	stats, err := store.DailyStats(ctx, "2024-03-11")
	require.NoError(t, err)
	assert.Equal(t, 42, stats.Learning)
	assert.Equal(t, 20, stats.Distraction)
	assert.Equal(t, 0, stats.Mixed)
	assert.Equal(t, 42, stats.Hourly[9].Learning)
	assert.Equal(t, 20, stats.Hourly[14].Distraction)
}

func TestDailyStatsEmptyDate(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.DailyStats(context.Background(), "2024-03-11")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Sum())
	assert.Empty(t, stats.Hourly)
}

func TestPruneBeforeIsIdempotent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	old := &model.Session{URL: "u", Hostname: "h", Title: "t", Category: model.CategoryMixed, DurationSeconds: 10, Date: "2024-01-01", Hour: 1}
	recent := &model.Session{URL: "u", Hostname: "h", Title: "t", Category: model.CategoryMixed, DurationSeconds: 10, Date: "2024-03-11", Hour: 1}
	require.NoError(t, store.AppendSession(ctx, old))
	require.NoError(t, store.AppendSession(ctx, recent))
	require.NoError(t, store.AddToBucket(ctx, "2024-01-01", 1, model.CategoryMixed, 10))
	require.NoError(t, store.AddToBucket(ctx, "2024-03-11", 1, model.CategoryMixed, 10))

	removed, err := store.PruneBefore(ctx, "2024-02-10")
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	removed, err = store.PruneBefore(ctx, "2024-02-10")
	require.NoError(t, err)
	assert.Equal(t, int64(0), removed)

	sessions, err := store.SessionsOn(ctx, "2024-01-01")
	require.NoError(t, err)
	assert.Empty(t, sessions)

	stats, err := store.DailyStats(ctx, "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Sum())

	kept, err := store.SessionsOn(ctx, "2024-03-11")
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}

func TestLastAlertTime(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	got, err := store.LastAlertTime(ctx)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	now := time.UnixMilli(1700000000000)
	require.NoError(t, store.SetLastAlertTime(ctx, now))

	got, err = store.LastAlertTime(ctx)
	require.NoError(t, err)
	assert.Equal(t, now.UnixMilli(), got.UnixMilli())
}

func TestRegisteredUser(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	user, err := store.RegisteredUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	require.NoError(t, store.SetRegisteredUser(ctx, &model.User{UserID: "abc123", Nickname: "sam"}))

	user, err = store.RegisteredUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "abc123", user.UserID)
	assert.Equal(t, "sam", user.Nickname)
}

func TestRankDatesDeduplicatePerDate(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddRankDate(ctx, "A1B2C3", "2024-03-11"))
	require.NoError(t, store.AddRankDate(ctx, "A1B2C3", "2024-03-11"))
	require.NoError(t, store.AddRankDate(ctx, "A1B2C3", "2024-03-12"))
	require.NoError(t, store.AddRankDate(ctx, "FFFFFF", "2024-03-11"))

	dates, err := store.RankDates(ctx, "A1B2C3")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-03-11", "2024-03-12"}, dates)

	other, err := store.RankDates(ctx, "FFFFFF")
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestMotivationCacheIsPerDate(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, ok, err := store.Motivation(ctx, "2024-03-11")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.SetMotivation(ctx, "2024-03-11", "keep going"))

	message, ok, err := store.Motivation(ctx, "2024-03-11")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "keep going", message)

	// Yesterday's message does not serve today.
	_, ok, err = store.Motivation(ctx, "2024-03-12")
	require.NoError(t, err)
	assert.False(t, ok)
}

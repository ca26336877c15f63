package alert

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studybee/internal/aggregate"
	"studybee/internal/civil"
	"studybee/internal/localstore"
	"studybee/internal/model"
)

type captureNotifier struct {
	messages []string
}

func (n *captureNotifier) Notify(_ context.Context, _, message string) error {
	n.messages = append(n.messages, message)
	return nil
}

type checkerFixture struct {
	checker  *Checker
	notifier *captureNotifier
	store    localstore.Store
	now      time.Time
}

func newCheckerFixture(t *testing.T) *checkerFixture {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := localstore.NewSQLiteStore(db)
	require.NoError(t, err)

	f := &checkerFixture{
		notifier: &captureNotifier{},
		store:    store,
		now:      time.Date(2024, 3, 11, 15, 0, 0, 0, civil.Zone),
	}
	f.checker = NewChecker(aggregate.New(store), store, f.notifier, zerolog.Nop())
	f.checker.now = func() time.Time { return f.now }
	return f
}

func (f *checkerFixture) addToday(t *testing.T, category model.Category, seconds int) {
	t.Helper()
	date, hour := civil.DateHour(f.now)
	require.NoError(t, f.store.AddToBucket(context.Background(), date, hour, category, seconds))
}

func TestNoAlertWhenLearningDominates(t *testing.T) {
	f := newCheckerFixture(t)
	f.addToday(t, model.CategoryLearning, 600)
	f.addToday(t, model.CategoryDistraction, 300)

	require.NoError(t, f.checker.Check(context.Background()))
	assert.Empty(t, f.notifier.messages)
}

func TestNoAlertBelowSignificanceThreshold(t *testing.T) {
	f := newCheckerFixture(t)
	f.addToday(t, model.CategoryDistraction, 45)

	require.NoError(t, f.checker.Check(context.Background()))
	assert.Empty(t, f.notifier.messages)
}

func TestAlertFiresAndIsRateLimited(t *testing.T) {
	f := newCheckerFixture(t)
	ctx := context.Background()
	f.addToday(t, model.CategoryLearning, 120)
	f.addToday(t, model.CategoryDistraction, 600)

	require.NoError(t, f.checker.Check(ctx))
	require.Len(t, f.notifier.messages, 1)
	assert.Contains(t, f.notifier.messages[0], "Distraction (10m) > Learning (2m)")

	// Still inside the cooldown window.
	f.now = f.now.Add(10 * time.Minute)
	require.NoError(t, f.checker.Check(ctx))
	assert.Len(t, f.notifier.messages, 1)

	// Past the cooldown the alert may fire again.
	f.now = f.now.Add(25 * time.Minute)
	require.NoError(t, f.checker.Check(ctx))
	assert.Len(t, f.notifier.messages, 2)
}

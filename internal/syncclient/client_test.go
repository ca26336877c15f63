package syncclient

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
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

func newTestStore(t *testing.T) localstore.Store {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := localstore.NewSQLiteStore(db)
	require.NoError(t, err)
	return store
}

func TestSyncNowSendsCumulativeTotals(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	today, todayHour := civil.DateHour(time.Now())
	require.NoError(t, store.AddToBucket(ctx, today, todayHour, model.CategoryLearning, 300))
	require.NoError(t, store.AddToBucket(ctx, today, todayHour, model.CategoryDistraction, 45))
	require.NoError(t, store.SetRegisteredUser(ctx, &model.User{UserID: "u1", Nickname: "sam"}))

	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/stats/sync", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	client := New(server.URL, aggregate.New(store), store, zerolog.Nop())
	require.NoError(t, client.SyncNow(ctx))

	assert.Equal(t, "u1", got["userId"])
	assert.Equal(t, float64(300), got["learningTime"])
	assert.Equal(t, float64(45), got["distractionTime"])
}

func TestSyncNowWithoutRegistrationIsNoop(t *testing.T) {
	store := newTestStore(t)

	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := New(server.URL, aggregate.New(store), store, zerolog.Nop())
	require.NoError(t, client.SyncNow(context.Background()))
	assert.False(t, called)
}

func TestRegisterPersistsIdentity(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/user/register", r.URL.Path)
		w.Write([]byte(`{"user":{"userId":"deadbeef","nickname":"sam"}}`))
	}))
	defer server.Close()

	client := New(server.URL, aggregate.New(store), store, zerolog.Nop())
	user, err := client.Register(ctx, "sam")
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", user.UserID)

	saved, err := store.RegisteredUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "deadbeef", saved.UserID)
}

func TestRegisterSurfacesServerError(t *testing.T) {
	store := newTestStore(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Nickname already taken"}`))
	}))
	defer server.Close()

	client := New(server.URL, aggregate.New(store), store, zerolog.Nop())
	_, err := client.Register(context.Background(), "sam")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestRefreshLeaderboardRecordsRankOneDay(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SetRegisteredUser(ctx, &model.User{UserID: "u1", Nickname: "sam"}))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/leaderboard/A1B2C3", r.URL.Path)
		w.Write([]byte(`{
			"groupName": "study squad",
			"leaderboard": [
				{"userId":"u1","nickname":"sam","learningTime":900,"distractionTime":0,"focusScore":900,"rank":1},
				{"userId":"u2","nickname":"kit","learningTime":100,"distractionTime":0,"focusScore":100,"rank":2}
			]
		}`))
	}))
	defer server.Close()

	client := New(server.URL, aggregate.New(store), store, zerolog.Nop())

	entries, err := client.RefreshLeaderboard(ctx, "A1B2C3")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	dates, err := store.RankDates(ctx, "A1B2C3")
	require.NoError(t, err)
	require.Len(t, dates, 1)
	assert.Equal(t, civil.Date(time.Now()), dates[0])

	// A second observation on the same day does not add a second entry.
	_, err = client.RefreshLeaderboard(ctx, "A1B2C3")
	require.NoError(t, err)
	dates, err = store.RankDates(ctx, "A1B2C3")
	require.NoError(t, err)
	assert.Len(t, dates, 1)
}

func TestDailyMotivationIsRequestedOncePerDay(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/api/ai", r.URL.Path)
		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "motivation", req["type"])
		w.Write([]byte(`{"message":"one more session"}`))
	}))
	defer server.Close()

	client := New(server.URL, aggregate.New(store), store, zerolog.Nop())

	msg, err := client.DailyMotivation(ctx)
	require.NoError(t, err)
	assert.Equal(t, "one more session", msg)

	// The second call is served from the local cache.
	msg, err = client.DailyMotivation(ctx)
	require.NoError(t, err)
	assert.Equal(t, "one more session", msg)
	assert.Equal(t, 1, calls)
}

func TestRefreshLeaderboardIgnoresLowerRanks(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SetRegisteredUser(ctx, &model.User{UserID: "u2", Nickname: "kit"}))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"groupName": "study squad",
			"leaderboard": [
				{"userId":"u1","nickname":"sam","focusScore":900,"rank":1},
				{"userId":"u2","nickname":"kit","focusScore":100,"rank":2}
			]
		}`))
	}))
	defer server.Close()

	client := New(server.URL, aggregate.New(store), store, zerolog.Nop())
	_, err := client.RefreshLeaderboard(ctx, "A1B2C3")
	require.NoError(t, err)

	dates, err := store.RankDates(ctx, "A1B2C3")
	require.NoError(t, err)
	assert.Empty(t, dates)
}

// Package localstore persists the tracker's session log, bucketed daily
// stats, and small auxiliary series in a local SQLite database.
package localstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
	_ "github.com/mattn/go-sqlite3"

	"studybee/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	url          TEXT NOT NULL,
	hostname     TEXT NOT NULL,
	title        TEXT NOT NULL,
	category     TEXT NOT NULL,
	duration     INTEGER NOT NULL,
	timestamp_ms INTEGER NOT NULL,
	date         TEXT NOT NULL,
	hour         INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_date ON sessions(date);

CREATE TABLE IF NOT EXISTS daily_stats (
	date        TEXT NOT NULL,
	hour        INTEGER NOT NULL,
	learning    INTEGER NOT NULL DEFAULT 0,
	distraction INTEGER NOT NULL DEFAULT 0,
	mixed       INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (date, hour)
);

CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

const (
	keyLastAlertTime  = "lastAlertTime"
	keyUser           = "user"
	keyRankHistory    = "rankHistory"
	keyMotivation     = "dailyMotivation"
	keyMotivationDate = "motivationDate"
)

// Store is the tracker's durable state.
type Store interface {
	AppendSession(ctx context.Context, session *model.Session) error
	AddToBucket(ctx context.Context, date string, hour int, category model.Category, seconds int) error
	DailyStats(ctx context.Context, date string) (*model.DailyStats, error)
	SessionsOn(ctx context.Context, date string) ([]model.Session, error)
	PruneBefore(ctx context.Context, cutoffDate string) (int64, error)

	LastAlertTime(ctx context.Context) (time.Time, error)
	SetLastAlertTime(ctx context.Context, t time.Time) error

	RegisteredUser(ctx context.Context) (*model.User, error)
	SetRegisteredUser(ctx context.Context, user *model.User) error

	RankDates(ctx context.Context, groupCode string) ([]string, error)
	AddRankDate(ctx context.Context, groupCode, date string) error

	Motivation(ctx context.Context, date string) (string, bool, error)
	SetMotivation(ctx context.Context, date, message string) error

	Close() error
}

// SQLiteStore implements Store backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB

	insertSession *sql.Stmt
	upsertBucket  *sql.Stmt
}

// Open opens (creating if needed) the database at path and applies the
// schema.
func Open(path string) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=8000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	return NewSQLiteStore(db)
}

// NewSQLiteStore wraps an already-opened database, applying the schema and
// preparing hot-path statements.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	s := &SQLiteStore{db: db}

	var err error
	s.insertSession, err = db.Prepare(`
		INSERT INTO sessions (url, hostname, title, category, duration, timestamp_ms, date, hour)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare insert session: %w", err)
	}

	s.upsertBucket, err = db.Prepare(`
		INSERT INTO daily_stats (date, hour, learning, distraction, mixed)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date, hour) DO UPDATE SET
			learning = learning + excluded.learning,
			distraction = distraction + excluded.distraction,
			mixed = mixed + excluded.mixed
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare upsert bucket: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) AppendSession(ctx context.Context, session *model.Session) error {
	_, err := s.insertSession.ExecContext(
		ctx,
		session.URL,
		session.Hostname,
		session.Title,
		string(session.Category),
		session.DurationSeconds,
		session.TimestampMs,
		session.Date,
		session.Hour,
	)
	if err != nil {
		return fmt.Errorf("append session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) AddToBucket(ctx context.Context, date string, hour int, category model.Category, seconds int) error {
	var bucket model.CategoryTotals
	bucket.Add(category, seconds)

	_, err := s.upsertBucket.ExecContext(ctx, date, hour, bucket.Learning, bucket.Distraction, bucket.Mixed)
	if err != nil {
		return fmt.Errorf("add to bucket %s/%d: %w", date, hour, err)
	}
	return nil
}

// DailyStats reads the hourly buckets for date and reconstructs the day
// totals from them. A date with no sessions yields empty stats, not an
// error.
func (s *SQLiteStore) DailyStats(ctx context.Context, date string) (*model.DailyStats, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT hour, learning, distraction, mixed FROM daily_stats WHERE date = ?`,
		date,
	)
	if err != nil {
		return nil, fmt.Errorf("query daily stats: %w", err)
	}
	defer rows.Close()

	stats := model.NewDailyStats()
	for rows.Next() {
		var hour int
		var bucket model.CategoryTotals
		if err := rows.Scan(&hour, &bucket.Learning, &bucket.Distraction, &bucket.Mixed); err != nil {
			return nil, fmt.Errorf("scan daily stats: %w", err)
		}
		stats.Hourly[hour] = &bucket
		stats.Learning += bucket.Learning
		stats.Distraction += bucket.Distraction
		stats.Mixed += bucket.Mixed
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily stats: %w", err)
	}
	return stats, nil
}

func (s *SQLiteStore) SessionsOn(ctx context.Context, date string) ([]model.Session, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT url, hostname, title, category, duration, timestamp_ms, date, hour
		 FROM sessions WHERE date = ? ORDER BY id`,
		date,
	)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []model.Session
	for rows.Next() {
		var session model.Session
		var category string
		if err := rows.Scan(
			&session.URL,
			&session.Hostname,
			&session.Title,
			&category,
			&session.DurationSeconds,
			&session.TimestampMs,
			&session.Date,
			&session.Hour,
		); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		session.Category = model.Category(category)
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// PruneBefore deletes all sessions and stat buckets dated strictly before
// cutoffDate and returns the number of sessions removed. Idempotent.
func (s *SQLiteStore) PruneBefore(ctx context.Context, cutoffDate string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin prune tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE date < ?`, cutoffDate)
	if err != nil {
		return 0, fmt.Errorf("prune sessions: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune rows affected: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM daily_stats WHERE date < ?`, cutoffDate); err != nil {
		return 0, fmt.Errorf("prune daily stats: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit prune: %w", err)
	}
	return removed, nil
}

func (s *SQLiteStore) LastAlertTime(ctx context.Context) (time.Time, error) {
	var ms int64
	ok, err := s.getKV(ctx, keyLastAlertTime, &ms)
	if err != nil || !ok {
		return time.Time{}, err
	}
	return time.UnixMilli(ms), nil
}

func (s *SQLiteStore) SetLastAlertTime(ctx context.Context, t time.Time) error {
	return s.setKV(ctx, keyLastAlertTime, t.UnixMilli())
}

func (s *SQLiteStore) RegisteredUser(ctx context.Context) (*model.User, error) {
	var user model.User
	ok, err := s.getKV(ctx, keyUser, &user)
	if err != nil || !ok {
		return nil, err
	}
	return &user, nil
}

func (s *SQLiteStore) SetRegisteredUser(ctx context.Context, user *model.User) error {
	return s.setKV(ctx, keyUser, user)
}

// RankDates returns the dates on which the identity was observed holding
// rank 1 in the given group.
func (s *SQLiteStore) RankDates(ctx context.Context, groupCode string) ([]string, error) {
	history, err := s.rankHistory(ctx)
	if err != nil {
		return nil, err
	}
	return history[groupCode], nil
}

// AddRankDate records date in the group's rank history. Adding a date that
// is already present is a no-op.
func (s *SQLiteStore) AddRankDate(ctx context.Context, groupCode, date string) error {
	history, err := s.rankHistory(ctx)
	if err != nil {
		return err
	}
	for _, existing := range history[groupCode] {
		if existing == date {
			return nil
		}
	}
	if history == nil {
		history = make(map[string][]string)
	}
	history[groupCode] = append(history[groupCode], date)
	return s.setKV(ctx, keyRankHistory, history)
}

func (s *SQLiteStore) rankHistory(ctx context.Context) (map[string][]string, error) {
	var history map[string][]string
	if _, err := s.getKV(ctx, keyRankHistory, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// Motivation returns the cached motivational message if it was stored for
// the given date.
func (s *SQLiteStore) Motivation(ctx context.Context, date string) (string, bool, error) {
	var storedDate string
	ok, err := s.getKV(ctx, keyMotivationDate, &storedDate)
	if err != nil || !ok || storedDate != date {
		return "", false, err
	}

	var message string
	ok, err = s.getKV(ctx, keyMotivation, &message)
	if err != nil || !ok {
		return "", false, err
	}
	return message, true, nil
}

func (s *SQLiteStore) SetMotivation(ctx context.Context, date, message string) error {
	if err := s.setKV(ctx, keyMotivation, message); err != nil {
		return err
	}
	return s.setKV(ctx, keyMotivationDate, date)
}

func (s *SQLiteStore) getKV(ctx context.Context, key string, out interface{}) (bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *SQLiteStore) setKV(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key,
		string(raw),
	)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

package model

import "time"

// Category is the classification of an activity window.
type Category string

const (
	CategoryLearning    Category = "learning"
	CategoryDistraction Category = "distraction"
	CategoryMixed       Category = "mixed"
)

// Valid reports whether c is one of the three known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryLearning, CategoryDistraction, CategoryMixed:
		return true
	}
	return false
}

// Session is a closed, immutable record of one activity window.
// Date and Hour are computed at close time in the civil timezone.
type Session struct {
	URL             string   `json:"url"`
	Hostname        string   `json:"hostname"`
	Title           string   `json:"title"`
	Category        Category `json:"category"`
	DurationSeconds int      `json:"duration"`
	TimestampMs     int64    `json:"timestamp"`
	Date            string   `json:"date"`
	Hour            int      `json:"hour"`
}

// CategoryTotals holds accumulated seconds per category.
type CategoryTotals struct {
	Learning    int `json:"learning"`
	Distraction int `json:"distraction"`
	Mixed       int `json:"mixed"`
}

// Add accumulates seconds into the matching category total.
func (t *CategoryTotals) Add(category Category, seconds int) {
	switch category {
	case CategoryLearning:
		t.Learning += seconds
	case CategoryDistraction:
		t.Distraction += seconds
	default:
		t.Mixed += seconds
	}
}

// Sum returns learning+distraction+mixed.
func (t CategoryTotals) Sum() int {
	return t.Learning + t.Distraction + t.Mixed
}

// DailyStats is the per-date aggregate, with per-hour breakdown.
type DailyStats struct {
	CategoryTotals
	Hourly map[int]*CategoryTotals `json:"hourly"`
}

// NewDailyStats returns an empty aggregate ready for accumulation.
func NewDailyStats() *DailyStats {
	return &DailyStats{Hourly: make(map[int]*CategoryTotals)}
}

// Record adds seconds to the day total and to the hour bucket.
func (d *DailyStats) Record(category Category, hour, seconds int) {
	d.Add(category, seconds)
	bucket, ok := d.Hourly[hour]
	if !ok {
		bucket = &CategoryTotals{}
		d.Hourly[hour] = bucket
	}
	bucket.Add(category, seconds)
}

// User is a registered identity.
type User struct {
	UserID    string    `json:"userId"`
	Nickname  string    `json:"nickname"`
	CreatedAt time.Time `json:"createdAt"`
}

// Group is a competition group identified by a 6-hex-char code.
type Group struct {
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"createdBy"`
	Members   []string  `json:"members"`
	CreatedAt time.Time `json:"createdAt"`
}

// MergedStats is the server-side per-identity record. LearningTime and
// DistractionTime only ever increase (monotonic merge).
type MergedStats struct {
	UserID          string    `json:"userId"`
	LearningTime    int64     `json:"learningTime"`
	DistractionTime int64     `json:"distractionTime"`
	LastUpdated     time.Time `json:"lastUpdated"`
}

// LeaderboardEntry is one ranked member of a group.
type LeaderboardEntry struct {
	UserID          string  `json:"userId"`
	Nickname        string  `json:"nickname"`
	LearningTime    int64   `json:"learningTime"`
	DistractionTime int64   `json:"distractionTime"`
	FocusScore      float64 `json:"focusScore"`
	Rank            int     `json:"rank"`
}

// FocusScore derives the ranking metric: learning minus half the
// distraction, floored at zero.
func FocusScore(learning, distraction int64) float64 {
	score := float64(learning) - 0.5*float64(distraction)
	if score < 0 {
		return 0
	}
	return score
}

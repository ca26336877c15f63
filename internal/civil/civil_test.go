package civil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateHourFixedOffset(t *testing.T) {
	// 2024-03-10 20:00 UTC is 2024-03-11 01:30 in UTC+05:30.
	instant := time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC)

	date, hour := DateHour(instant)
	assert.Equal(t, "2024-03-11", date)
	assert.Equal(t, 1, hour)
}

func TestDateIndependentOfInputLocation(t *testing.T) {
	instant := time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC)
	shifted := instant.In(time.FixedZone("X", -8*3600))

	assert.Equal(t, Date(instant), Date(shifted))
	assert.Equal(t, Hour(instant), Hour(shifted))
}

func TestCutoffDate(t *testing.T) {
	instant := time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC) // 2024-03-11 IST
	assert.Equal(t, "2024-02-10", CutoffDate(instant, 30))
}

func TestParseDateRoundTrip(t *testing.T) {
	parsed, err := ParseDate("2024-03-11")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-11", Date(parsed))
	assert.Equal(t, 0, Hour(parsed))
}

func TestDateStringOrderingMatchesChronology(t *testing.T) {
	// Retention pruning compares date strings lexically; the layout must
	// keep lexical order equal to chronological order.
	earlier := time.Date(2024, 9, 30, 0, 0, 0, 0, Zone)
	later := time.Date(2024, 10, 1, 0, 0, 0, 0, Zone)
	assert.Less(t, Date(earlier), Date(later))
}

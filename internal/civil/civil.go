// Package civil converts instants to calendar dates and hours in a single
// fixed timezone, so every device produces identical date boundaries
// regardless of host locale.
package civil

import "time"

// Zone is the fixed civil timezone used for all date/hour bucketing:
// UTC+05:30, matching Asia/Kolkata without depending on the host tzdata.
var Zone = time.FixedZone("IST", 5*3600+1800)

const dateLayout = "2006-01-02"

// Date returns the YYYY-MM-DD calendar date of t in the civil timezone.
func Date(t time.Time) string {
	return t.In(Zone).Format(dateLayout)
}

// Hour returns the hour of day [0,23] of t in the civil timezone.
func Hour(t time.Time) int {
	return t.In(Zone).Hour()
}

// DateHour returns both buckets of t in one conversion.
func DateHour(t time.Time) (string, int) {
	local := t.In(Zone)
	return local.Format(dateLayout), local.Hour()
}

// CutoffDate returns the date string `days` calendar days before t,
// in the civil timezone. Dates strictly before the cutoff are expired.
func CutoffDate(t time.Time, days int) string {
	return t.In(Zone).AddDate(0, 0, -days).Format(dateLayout)
}

// ParseDate parses a YYYY-MM-DD string into a time at civil midnight.
func ParseDate(date string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, date, Zone)
}

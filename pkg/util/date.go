package util

import (
	"strconv"
	"time"
)

// DateLayout is the calendar-day form used by the filter controls.
const DateLayout = "2006-01-02"

// ParseTime tries RFC3339, RFC3339Nano, and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0), true
	}
	return time.Time{}, false
}

// ParseDate parses a calendar date in YYYY-MM-DD form as midnight UTC.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DateOf truncates t to its UTC calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders t's UTC calendar day as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

package util

import (
	"strconv"
	"time"
)

// DateLayout is the calendar-date format used for daily bars.
const DateLayout = "2006-01-02"

// ParseBarDate tries the formats vendors use for daily bars: plain calendar
// date, datetime, RFC3339, and unix seconds. Returns (t, true) if any worked.
func ParseBarDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0).UTC(), true
	}
	return time.Time{}, false
}

// FormatBarDate renders t as a calendar date in UTC.
func FormatBarDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// IsWeekend reports whether t falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

package recurrence

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-date wire format used across the application.
// Dates are local calendar days; no timezone conversion is ever applied.
const DateLayout = "2006-01-02"

// ParseDate reads a YYYY-MM-DD string (a trailing time component is ignored)
// into a local time anchored at noon, which keeps day arithmetic stable
// across DST transitions.
func ParseDate(value string) (time.Time, error) {
	s := strings.TrimSpace(value)
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 10 {
		s = s[:10]
	}
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", value, err)
	}
	return t.Add(12 * time.Hour), nil
}

// FormatDate renders a time as a local YYYY-MM-DD string.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// AddDays shifts a calendar-date string by the given number of days.
func AddDays(value string, days int) (string, error) {
	t, err := ParseDate(value)
	if err != nil {
		return "", err
	}
	return FormatDate(t.AddDate(0, 0, days)), nil
}

package reconcile

import (
	"strings"
	"time"
)

// dateLayouts are tried in order for textual dates.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"20060102",
}

// NormalizeDate converts a date-like value to its calendar date (midnight UTC).
// It accepts time.Time, *time.Time and text in YYYY-MM-DD, DD/MM/YYYY or YYYYMMDD form.
// Anything else, including empty values, reports false.
func NormalizeDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		if d.IsZero() {
			return time.Time{}, false
		}
		return CalendarDate(d), true
	case *time.Time:
		if d == nil || d.IsZero() {
			return time.Time{}, false
		}
		return CalendarDate(*d), true
	case string:
		return parseDate(d)
	case []byte:
		return parseDate(string(d))
	default:
		return time.Time{}, false
	}
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CalendarDate drops the clock part of t, keeping the date as seen in t's location.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// InWindow reports whether d falls in [start, end], both ends inclusive.
func InWindow(d, start, end time.Time) bool {
	return !d.Before(start) && !d.After(end)
}

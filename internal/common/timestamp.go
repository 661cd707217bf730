package common

import (
	"fmt"
	"time"
)

// Layouts accepted when reconstructing persisted timestamps, most specific first.
// Records written by older clients carry millisecond "Z" strings or bare dates.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z07:00",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// FormatTimestamp serializes a timestamp for persistence
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseTimestamp reconstructs a timestamp persisted by FormatTimestamp or an older client
func ParseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", value)
}

// ISOTimestamp formats t the way browsers print Date.toISOString
func ISOTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// RelativeTime renders t relative to now for history listings
func RelativeTime(t, now time.Time) string {
	seconds := int(now.Sub(t).Seconds())

	switch {
	case seconds < 60:
		return "just now"
	case seconds < 3600:
		return plural(seconds/60, "minute") + " ago"
	case seconds < 86400:
		return plural(seconds/3600, "hour") + " ago"
	case seconds < 604800:
		return plural(seconds/86400, "day") + " ago"
	}

	if t.Year() != now.Year() {
		return t.Format("Jan 2, 2006")
	}
	return t.Format("Jan 2")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

package mapper

import (
	"errors"
	"fmt"
	"time"
)

// TimestampLayout is the API's ISO-8601 format: millisecond precision and
// either a Z suffix or a ±hhmm offset.
const TimestampLayout = "2006-01-02T15:04:05.000Z0700"

var errEmptyTimestamp = errors.New("empty timestamp")

// ParseTimestamp parses an API timestamp strictly. Empty input is an error.
func ParseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errEmptyTimestamp
	}
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// FormatTimestamp is the inverse of ParseTimestamp, always in UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

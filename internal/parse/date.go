package parse

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format of a release date.
const DateLayout = "2006-01-02"

// ReleaseDate parses a release date and anchors it at UTC midnight. Both a
// bare date ("2024-03-21") and an RFC 3339 timestamp are accepted; for a
// timestamp only the calendar day as written is kept, never the instant.
func ReleaseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("release date is empty")
	}

	if d, err := time.Parse(DateLayout, s); err == nil {
		return d.UTC(), nil
	}

	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid release date %q: expected YYYY-MM-DD", raw)
	}
	y, m, d := ts.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// FormatDate renders a day-anchored time back to the wire format.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

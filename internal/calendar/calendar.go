// Package calendar holds the day-granularity time logic shared by the movie
// catalog and the release scheduler. Release dates are calendar days stored
// as UTC midnight, so every comparison here happens in UTC.
package calendar

import "time"

// Clock provides the reference "now".
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns the current time in UTC.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always returns the same instant.
type FixedClock time.Time

// Now returns the fixed instant in UTC.
func (c FixedClock) Now() time.Time { return time.Time(c).UTC() }

// StartOfDay returns UTC midnight of the calendar day containing t.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayWindow returns the half-open interval [start, end) covering the UTC
// calendar day that contains t.
func DayWindow(t time.Time) (start, end time.Time) {
	start = StartOfDay(t)
	return start, start.AddDate(0, 0, 1)
}

// InDay reports whether instant falls on the same UTC calendar day as day.
func InDay(instant, day time.Time) bool {
	start, end := DayWindow(day)
	return !instant.Before(start) && instant.Before(end)
}

// IsAfterDay reports whether date's calendar day comes strictly after the
// calendar day of now.
func IsAfterDay(date, now time.Time) bool {
	return StartOfDay(date).After(StartOfDay(now))
}

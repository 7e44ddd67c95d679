package util

import (
	"math/rand"
	"time"
)

// DateFormat is the layout used for all emitted dates.
const DateFormat = "2006-01-02"

// Day is a calendar-day duration for date arithmetic.
const Day = 24 * time.Hour

// Midnight truncates t to UTC midnight so day arithmetic stays exact.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole days from a to b.
func DaysBetween(a time.Time, b time.Time) int {
	return int(Midnight(b).Sub(Midnight(a)) / Day)
}

// RandDateBack returns a date uniformly between maxDaysAgo and minDaysAgo
// days before now.
func RandDateBack(r *rand.Rand, now time.Time, minDaysAgo int, maxDaysAgo int) time.Time {
	return Midnight(now).AddDate(0, 0, -RandIntRange(r, minDaysAgo, maxDaysAgo))
}

// FormatDate renders t in the emitted date layout.
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

// MustParseDate parses an ISO date and panics on malformed input.
// Intended for constants and tests only.
func MustParseDate(s string) time.Time {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

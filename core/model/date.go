package model

import "time"

// DateLayout is the canonical day format used for plan keys and labels.
const DateLayout = "2006-01-02"

// Day truncates t to midnight UTC so dates compare by calendar day.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateKey renders t as a YYYY-MM-DD map key.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}

package entity

import "time"

// DateOf truncates t to its UTC calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the calendar day n days after day.
func AddDays(day time.Time, n int) time.Time {
	return DateOf(day).AddDate(0, 0, n)
}

package Scheduling

import (
	"time"
)

const DateLayout = "2006-01-02"

// DateOf truncates t to midnight UTC of its UTC calendar day. Drivers may
// hand back stored dates in the server's zone; reading the day in UTC keeps
// them on the day they were written.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func AddDays(d time.Time, n int) time.Time {
	return DateOf(d).AddDate(0, 0, n)
}

// DaysBetween returns the number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)).Hours() / 24)
}

func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// WeekStart returns the Monday on or before d.
func WeekStart(d time.Time) time.Time {
	d = DateOf(d)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

func MonthStart(d time.Time) time.Time {
	d = d.UTC()
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
}

package Scheduling

import (
	"fmt"
	"math"
	"time"
)

// DueLabel renders a due date as "Today", "N days ago" or an ISO date.
func DueLabel(due, today time.Time) string {
	if due.IsZero() {
		return "-"
	}
	diff := DaysBetween(due, today)
	switch {
	case diff == 0:
		return "Today"
	case diff > 0:
		return fmt.Sprintf("%d days ago", diff)
	}
	return FormatDate(due)
}

var frequencyNames = []struct {
	days  int
	label string
}{
	{1, "Daily"},
	{7, "Weekly"},
	{14, "Every 2 Weeks"},
	{21, "Every 3 Weeks"},
	{28, "Every 4 Weeks"},
	{30, "Monthly"},
	{60, "Every 2 Months"},
	{90, "Every 3 Months"},
	{120, "Every 4 Months"},
	{180, "Every 6 Months"},
	{270, "Every 9 Months"},
	{365, "Yearly"},
	{730, "Every 2 Years"},
	{1095, "Every 3 Years"},
	{1460, "Every 4 Years"},
	{1825, "Every 5 Years"},
	{2190, "Every 6 Years"},
	{2555, "Every 7 Years"},
	{2920, "Every 8 Years"},
	{3650, "Every 10 Years"},
}

// FrequencyLabel renders a frequency in days conversationally, rounding
// near misses to the closest common cadence.
func FrequencyLabel(days int) string {
	for _, f := range frequencyNames {
		if f.days == days {
			return f.label
		}
	}
	for _, f := range frequencyNames {
		if f.days >= 30 && abs(days-f.days) <= 5 {
			return f.label
		}
	}

	if years := int(math.Round(float64(days) / 365)); years > 0 && abs(days-years*365) <= 10 {
		return plural(years, "Year")
	}

	if days%30 == 0 && days > 0 {
		if days == 30 {
			return "Monthly"
		}
		return fmt.Sprintf("Every %d Months", days/30)
	}
	if months := int(math.Round(float64(days) / 30)); days >= 30 && abs(days-months*30) <= 3 {
		if months == 1 {
			return "Monthly"
		}
		return fmt.Sprintf("Every %d Months", months)
	}

	if days > 0 && days%7 == 0 && days <= 84 {
		return plural(days/7, "Week")
	}
	return fmt.Sprintf("Every %d days", days)
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("Every 1 %s", unit)
	}
	return fmt.Sprintf("Every %d %ss", n, unit)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

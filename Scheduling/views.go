package Scheduling

import (
	"strings"
	"time"

	"HomeList/Models"

	"golang.org/x/exp/slices"
)

const RoadmapDays = 56

type RoadmapWeek struct {
	Start         time.Time     `json:"week_start"`
	End           time.Time     `json:"week_end"`
	Tasks         []Models.Task `json:"tasks"`
	HighCount     int           `json:"high_count"`
	SeasonalCount int           `json:"seasonal_count"`
}

func (w RoadmapWeek) Count() int { return len(w.Tasks) }

// Roadmap groups active tasks due within the next RoadmapDays by the Monday
// of their week. Weeks without tasks are omitted.
func Roadmap(tasks []Models.Task, today time.Time) []RoadmapWeek {
	today = DateOf(today)
	horizon := today.AddDate(0, 0, RoadmapDays)

	byWeek := map[time.Time]*RoadmapWeek{}
	for _, t := range tasks {
		due := DateOf(t.NextDueDate)
		if t.Archived || t.IsCompleted() || due.Before(today) || due.After(horizon) {
			continue
		}
		start := WeekStart(due)
		w, ok := byWeek[start]
		if !ok {
			w = &RoadmapWeek{Start: start, End: start.AddDate(0, 0, 6)}
			byWeek[start] = w
		}
		w.Tasks = append(w.Tasks, t)
		if strings.EqualFold(t.Priority, Models.PriorityHigh) {
			w.HighCount++
		}
		if t.Seasonal {
			w.SeasonalCount++
		}
	}

	weeks := make([]RoadmapWeek, 0, len(byWeek))
	for _, w := range byWeek {
		slices.SortStableFunc(w.Tasks, func(a, b Models.Task) int {
			if c := a.NextDueDate.Compare(b.NextDueDate); c != 0 {
				return c
			}
			return PriorityRank(a.Priority) - PriorityRank(b.Priority)
		})
		weeks = append(weeks, *w)
	}
	slices.SortFunc(weeks, func(a, b RoadmapWeek) int { return a.Start.Compare(b.Start) })
	return weeks
}

type CalendarDay struct {
	Date    time.Time     `json:"date"`
	InMonth bool          `json:"in_month"`
	IsToday bool          `json:"is_today"`
	IsPast  bool          `json:"is_past"`
	Tasks   []Models.Task `json:"items"`
}

type CalendarMonth struct {
	Year  int           `json:"year"`
	Month time.Month    `json:"month"`
	Days  []CalendarDay `json:"days"`
	Prev  time.Time     `json:"prev"`
	Next  time.Time     `json:"next"`
}

func (c CalendarMonth) MonthName() string { return c.Month.String() }

// Weeks splits the grid into rows of seven days.
func (c CalendarMonth) Weeks() [][]CalendarDay {
	var rows [][]CalendarDay
	for i := 0; i+7 <= len(c.Days); i += 7 {
		rows = append(rows, c.Days[i:i+7])
	}
	return rows
}

// CalendarBounds returns the Sunday before and the Saturday after the month,
// inclusive.
func CalendarBounds(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	start := first.AddDate(0, 0, -int(first.Weekday()))
	end := last.AddDate(0, 0, int(time.Saturday-last.Weekday()))
	return start, end
}

// Calendar lays out active tasks on a Sunday to Saturday month grid.
func Calendar(year int, month time.Month, tasks []Models.Task, today time.Time) CalendarMonth {
	today = DateOf(today)
	start, end := CalendarBounds(year, month)

	byDate := map[time.Time][]Models.Task{}
	for _, t := range tasks {
		if t.Archived || t.IsCompleted() {
			continue
		}
		d := DateOf(t.NextDueDate)
		byDate[d] = append(byDate[d], t)
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	cal := CalendarMonth{
		Year:  first.Year(),
		Month: first.Month(),
		Prev:  first.AddDate(0, -1, 0),
		Next:  first.AddDate(0, 1, 0),
	}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		cal.Days = append(cal.Days, CalendarDay{
			Date:    d,
			InMonth: d.Month() == first.Month(),
			IsToday: d.Equal(today),
			IsPast:  d.Before(today),
			Tasks:   byDate[d],
		})
	}
	return cal
}

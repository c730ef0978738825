package Scheduling

import (
	"testing"
	"time"

	"HomeList/Models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoadmap(t *testing.T) {
	today := date(t, "2025-05-07") // Wednesday
	tasks := []Models.Task{
		task(1, date(t, "2025-05-07")),
		task(2, date(t, "2025-05-11")),
		task(3, date(t, "2025-05-12")),
		task(4, date(t, "2025-07-02")),
		task(5, date(t, "2025-07-03")),
		task(6, date(t, "2025-05-06")),
		task(7, date(t, "2025-05-08")),
	}
	tasks[1].Priority = Models.PriorityHigh
	tasks[0].Seasonal = true
	tasks[6].Status = Models.TaskStatusCompleted

	weeks := Roadmap(tasks, today)
	require.Len(t, weeks, 3)

	assert.Equal(t, "2025-05-05", FormatDate(weeks[0].Start))
	assert.Equal(t, "2025-05-11", FormatDate(weeks[0].End))
	assert.Equal(t, []uint{1, 2}, ids(weeks[0].Tasks))
	assert.Equal(t, 1, weeks[0].HighCount)
	assert.Equal(t, 1, weeks[0].SeasonalCount)

	assert.Equal(t, "2025-05-12", FormatDate(weeks[1].Start))
	assert.Equal(t, 1, weeks[1].Count())

	assert.Equal(t, "2025-06-30", FormatDate(weeks[2].Start))
	assert.Equal(t, []uint{4}, ids(weeks[2].Tasks))
}

func TestCalendarBounds(t *testing.T) {
	start, end := CalendarBounds(2025, time.May)
	assert.Equal(t, "2025-04-27", FormatDate(start))
	assert.Equal(t, "2025-05-31", FormatDate(end))

	start, end = CalendarBounds(2026, time.February)
	assert.Equal(t, "2026-02-01", FormatDate(start))
	assert.Equal(t, "2026-02-28", FormatDate(end))
}

func TestCalendar(t *testing.T) {
	today := date(t, "2025-05-14")
	tasks := []Models.Task{
		task(1, date(t, "2025-05-14")),
		task(2, date(t, "2025-05-14")),
		task(3, date(t, "2025-04-28")),
		task(4, date(t, "2025-05-20")),
	}
	tasks[3].Archived = true

	cal := Calendar(2025, time.May, tasks, today)
	assert.Equal(t, "May", cal.MonthName())
	assert.Equal(t, "2025-04-01", FormatDate(cal.Prev))
	assert.Equal(t, "2025-06-01", FormatDate(cal.Next))
	require.Len(t, cal.Days, 35)
	assert.Len(t, cal.Weeks(), 5)

	for _, d := range cal.Days {
		assert.Equal(t, d.Date.Month() == time.May, d.InMonth)
		switch FormatDate(d.Date) {
		case "2025-05-14":
			assert.True(t, d.IsToday)
			assert.Len(t, d.Tasks, 2)
		case "2025-04-28":
			assert.True(t, d.IsPast)
			assert.Len(t, d.Tasks, 1)
		default:
			assert.Empty(t, d.Tasks)
		}
	}
}

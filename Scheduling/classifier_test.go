package Scheduling

import (
	"testing"
	"time"

	"HomeList/Models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func task(id uint, due time.Time) Models.Task {
	return Models.Task{ID: id, Title: "task", FrequencyDays: 30, NextDueDate: due, Status: Models.TaskStatusActive}
}

func ids(tasks []Models.Task) []uint {
	out := make([]uint, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestClassify(t *testing.T) {
	today := date(t, "2025-05-01")
	completedAt := date(t, "2025-04-20")
	completedEarlier := date(t, "2025-03-01")

	tasks := []Models.Task{
		task(1, date(t, "2025-04-30")),
		task(2, date(t, "2025-04-01")),
		task(3, date(t, "2025-05-01")),
		task(4, date(t, "2025-05-31")),
		task(5, date(t, "2025-06-01")),
		task(6, date(t, "2025-05-10")),
		task(7, date(t, "2025-01-01")),
		task(8, date(t, "2025-07-19")),
		task(9, date(t, "2025-07-01")),
	}
	tasks[6].Archived = true
	tasks[7].Status = Models.TaskStatusCompleted
	tasks[7].LastCompleted = &completedEarlier
	tasks[8].Status = Models.TaskStatusCompleted
	tasks[8].LastCompleted = &completedAt

	b := Classify(tasks, today)
	assert.Equal(t, []uint{2, 1}, ids(b.Overdue))
	assert.Equal(t, []uint{3, 6, 4}, ids(b.Upcoming))
	assert.Equal(t, []uint{5}, ids(b.Future))
	assert.Equal(t, []uint{9, 8}, ids(b.Completed))
}

func TestClassifyPartition(t *testing.T) {
	today := date(t, "2024-02-28")
	var tasks []Models.Task
	for i := 0; i < 120; i++ {
		tk := task(uint(i+1), today.AddDate(0, 0, i-40))
		switch i % 7 {
		case 0:
			tk.Archived = true
		case 3:
			tk.Status = Models.TaskStatusCompleted
		}
		tasks = append(tasks, tk)
	}

	b := Classify(tasks, today)

	seen := map[uint]int{}
	for _, bucket := range [][]Models.Task{b.Overdue, b.Upcoming, b.Future, b.Completed} {
		for _, tk := range bucket {
			seen[tk.ID]++
		}
	}
	nonArchived := 0
	for _, tk := range tasks {
		if tk.Archived {
			assert.Zero(t, seen[tk.ID], "archived task %d classified", tk.ID)
			continue
		}
		nonArchived++
		assert.Equal(t, 1, seen[tk.ID], "task %d", tk.ID)
	}
	assert.Equal(t, nonArchived, b.Len())
}

func TestUrgentTask(t *testing.T) {
	assert.Nil(t, UrgentTask(nil))

	overdue := []Models.Task{
		task(1, date(t, "2025-03-01")),
		task(2, date(t, "2025-04-01")),
		task(3, date(t, "2025-04-15")),
	}
	overdue[1].Priority = Models.PriorityHigh
	overdue[2].Priority = Models.PriorityHigh

	urgent := UrgentTask(overdue)
	require.NotNil(t, urgent)
	assert.Equal(t, uint(2), urgent.ID)
	assert.Equal(t, uint(1), overdue[0].ID, "input must not be reordered")
}

func TestDigestOrder(t *testing.T) {
	today := date(t, "2025-05-10")
	tasks := []Models.Task{
		task(1, date(t, "2025-05-11")),
		task(2, date(t, "2025-05-09")),
		task(3, date(t, "2025-05-12")),
		task(4, date(t, "2025-05-01")),
	}
	tasks[2].Priority = Models.PriorityHigh
	tasks[0].Priority = Models.PriorityLow

	DigestOrder(tasks, today)
	assert.Equal(t, []uint{4, 2, 3, 1}, ids(tasks))
}

func TestFilter(t *testing.T) {
	due := date(t, "2025-05-10")
	tasks := []Models.Task{
		{ID: 1, Title: "Replace HVAC Filter", Category: "hvac", Priority: "medium", FrequencyDays: 90, NextDueDate: due},
		{ID: 2, Title: "Clean Gutters", Description: "remove leaves", Category: "exterior", Priority: "high", FrequencyDays: 180, NextDueDate: due.AddDate(0, 0, 1)},
		{ID: 3, Title: "Test smoke alarms", Category: "safety", FrequencyDays: 30, NextDueDate: due, Archived: true},
	}

	tests := []struct {
		name   string
		filter Filter
		want   []uint
	}{
		{"empty", Filter{}, []uint{1, 2}},
		{"archived included", Filter{IncludeArchived: true}, []uint{1, 2, 3}},
		{"search title", Filter{Query: "hvac"}, []uint{1}},
		{"search description", Filter{Query: "LEAVES"}, []uint{2}},
		{"category", Filter{Category: "Exterior"}, []uint{2}},
		{"priority", Filter{Priority: "medium"}, []uint{1}},
		{"min frequency", Filter{MinFrequency: 100}, []uint{2}},
		{"max frequency", Filter{MaxFrequency: 90}, []uint{1}},
		{"due on", Filter{DueOn: &due}, []uint{1}},
		{"conjunction", Filter{Category: "hvac", Priority: "high"}, []uint{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(tt.filter.Apply(tasks)))
		})
	}
}

package Scheduling

import (
	"strings"
	"time"

	"HomeList/Models"

	"golang.org/x/exp/slices"
)

// UpcomingWindowDays bounds the upcoming bucket: due today through today+30.
const UpcomingWindowDays = 30

// Buckets partitions a user's non-archived tasks for display.
type Buckets struct {
	Overdue   []Models.Task `json:"overdue"`
	Upcoming  []Models.Task `json:"upcoming"`
	Future    []Models.Task `json:"future"`
	Completed []Models.Task `json:"completed"`
}

func (b Buckets) Len() int {
	return len(b.Overdue) + len(b.Upcoming) + len(b.Future) + len(b.Completed)
}

// Classify places every non-archived task in exactly one bucket. Overdue is
// ordered most overdue first, the other buckets soonest due first.
func Classify(tasks []Models.Task, today time.Time) Buckets {
	today = DateOf(today)
	horizon := today.AddDate(0, 0, UpcomingWindowDays)

	var b Buckets
	for _, t := range tasks {
		if t.Archived {
			continue
		}
		due := DateOf(t.NextDueDate)
		switch {
		case t.IsCompleted():
			b.Completed = append(b.Completed, t)
		case due.Before(today):
			b.Overdue = append(b.Overdue, t)
		case !due.After(horizon):
			b.Upcoming = append(b.Upcoming, t)
		default:
			b.Future = append(b.Future, t)
		}
	}

	slices.SortStableFunc(b.Overdue, ByDueDate)
	slices.SortStableFunc(b.Upcoming, ByDueDate)
	slices.SortStableFunc(b.Future, ByDueDate)
	slices.SortStableFunc(b.Completed, ByDueDate)
	return b
}

// ByDueDate orders tasks by next due date, then id.
func ByDueDate(a, b Models.Task) int {
	if c := a.NextDueDate.Compare(b.NextDueDate); c != 0 {
		return c
	}
	return compareUint(a.ID, b.ID)
}

// PriorityRank orders high before medium before low before none.
func PriorityRank(p string) int {
	switch strings.ToLower(p) {
	case Models.PriorityHigh:
		return 0
	case Models.PriorityMedium:
		return 1
	case Models.PriorityLow:
		return 2
	}
	return 3
}

// UrgentTask picks the overdue task to feature on the dashboard: highest
// priority first, then the oldest due date.
func UrgentTask(overdue []Models.Task) *Models.Task {
	if len(overdue) == 0 {
		return nil
	}
	sorted := slices.Clone(overdue)
	slices.SortStableFunc(sorted, func(a, b Models.Task) int {
		if c := PriorityRank(a.Priority) - PriorityRank(b.Priority); c != 0 {
			return c
		}
		return ByDueDate(a, b)
	})
	return &sorted[0]
}

// DigestOrder sorts tasks overdue first, then by priority, then by due date.
func DigestOrder(tasks []Models.Task, today time.Time) {
	today = DateOf(today)
	slices.SortStableFunc(tasks, func(a, b Models.Task) int {
		ao, bo := a.NextDueDate.Before(today), b.NextDueDate.Before(today)
		if ao != bo {
			if ao {
				return -1
			}
			return 1
		}
		if c := PriorityRank(a.Priority) - PriorityRank(b.Priority); c != 0 {
			return c
		}
		return ByDueDate(a, b)
	})
}

func compareUint(a, b uint) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

package Scheduling

import (
	"strings"
	"time"

	"HomeList/Models"
)

// Filter is a conjunction of optional predicates applied before
// classification. Zero values disable a predicate.
type Filter struct {
	Query           string     `query:"q"`
	Category        string     `query:"category"`
	Priority        string     `query:"priority"`
	MinFrequency    int        `query:"min_frequency"`
	MaxFrequency    int        `query:"max_frequency"`
	IncludeArchived bool       `query:"show_archived"`
	DueOn           *time.Time `query:"-"`
}

func (f Filter) Match(t Models.Task) bool {
	if t.Archived && !f.IncludeArchived {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(t.Title), q) && !strings.Contains(strings.ToLower(t.Description), q) {
			return false
		}
	}
	if f.Category != "" && !strings.EqualFold(f.Category, t.Category) {
		return false
	}
	if f.Priority != "" && !strings.EqualFold(f.Priority, t.Priority) {
		return false
	}
	if f.MinFrequency > 0 && t.FrequencyDays < f.MinFrequency {
		return false
	}
	if f.MaxFrequency > 0 && t.FrequencyDays > f.MaxFrequency {
		return false
	}
	if f.DueOn != nil && !DateOf(t.NextDueDate).Equal(DateOf(*f.DueOn)) {
		return false
	}
	return true
}

func (f Filter) Apply(tasks []Models.Task) []Models.Task {
	out := make([]Models.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

package Services

import (
	"context"
	"fmt"
	"strings"

	"HomeList/Models"
	"HomeList/Scheduling"

	"golang.org/x/exp/slices"
)

// BaselineAnswers are the answers to the one-off baseline checkup.
type BaselineAnswers struct {
	SidingCondition      string `json:"siding_condition" form:"siding_condition"`
	GuttersLastCleaned   string `json:"gutters_last_cleaned" form:"gutters_last_cleaned"`
	HVACFilterLast       string `json:"hvac_filter_last" form:"hvac_filter_last"`
	WaterHeaterService   string `json:"water_heater_service" form:"water_heater_service"`
	SumpPumpTested       string `json:"sump_pump_tested" form:"sump_pump_tested"`
	DishwasherFilterLast string `json:"dishwasher_filter_last" form:"dishwasher_filter_last"`
	DryerVentLast        string `json:"dryer_vent_last" form:"dryer_vent_last"`
}

type baselineRule struct {
	answer   func(BaselineAnswers) string
	triggers []string
	titles   []string
	days     int
	priority string
}

var baselineRules = []baselineRule{
	{func(a BaselineAnswers) string { return a.SidingCondition }, []string{"needs_repair"},
		[]string{"siding", "exterior paint", "paint"}, 7, Models.PriorityHigh},
	{func(a BaselineAnswers) string { return a.GuttersLastCleaned }, []string{"over_12m", "not_sure"},
		[]string{"gutter", "downspout"}, 7, Models.PriorityHigh},
	{func(a BaselineAnswers) string { return a.HVACFilterLast }, []string{"over_6m", "not_sure"},
		[]string{"hvac filter", "replace hvac filter", "check hvac filters"}, 7, Models.PriorityMedium},
	{func(a BaselineAnswers) string { return a.WaterHeaterService }, []string{"over_3y", "not_sure"},
		[]string{"water heater", "flush hot water heater"}, 10, Models.PriorityMedium},
	{func(a BaselineAnswers) string { return a.SumpPumpTested }, []string{"not_recently", "not_sure"},
		[]string{"sump pump"}, 14, Models.PriorityMedium},
	{func(a BaselineAnswers) string { return a.DishwasherFilterLast }, []string{"over_6m", "not_sure"},
		[]string{"dishwasher filter"}, 10, ""},
	{func(a BaselineAnswers) string { return a.DryerVentLast }, []string{"over_1y", "not_sure"},
		[]string{"dryer vent"}, 10, Models.PriorityMedium},
}

// ApplyBaseline brings forward tasks for problem areas reported in the
// checkup. A matching task is pulled in to today+N days when that is sooner
// than its current due date, and its priority is raised, never lowered.
// The checkup is then marked done.
func (s *HomeService) ApplyBaseline(ctx context.Context, userID uint, answers BaselineAnswers) (int, error) {
	tasks, err := s.Tasks.List(ctx, userID, Scheduling.Filter{})
	if err != nil {
		return 0, err
	}
	today := s.Tasks.Today()

	adjusted := 0
	for _, t := range tasks {
		title := strings.ToLower(t.Title)
		changes := TaskChanges{}
		due := t.NextDueDate
		priority := t.Priority

		for _, rule := range baselineRules {
			answer := strings.TrimSpace(rule.answer(answers))
			if !slices.Contains(rule.triggers, answer) || !containsSubstring(title, rule.titles) {
				continue
			}
			if target := today.AddDate(0, 0, rule.days); target.Before(Scheduling.DateOf(due)) {
				due = target
				changes.NextDueDate = &target
			}
			if rule.priority != "" && Scheduling.PriorityRank(rule.priority) < Scheduling.PriorityRank(priority) {
				p := rule.priority
				priority = p
				changes.Priority = &p
			}
		}
		if changes.NextDueDate == nil && changes.Priority == nil {
			continue
		}
		if _, err := s.Tasks.Edit(ctx, userID, t.ID, changes); err != nil {
			return adjusted, fmt.Errorf("adjust task %d: %w", t.ID, err)
		}
		adjusted++
	}

	return adjusted, s.markBaseline(ctx, userID)
}

// DismissBaseline hides the checkup prompt without changing any task.
func (s *HomeService) DismissBaseline(ctx context.Context, userID uint) error {
	return s.markBaseline(ctx, userID)
}

func (s *HomeService) markBaseline(ctx context.Context, userID uint) error {
	f, err := s.ensureFeatures(ctx, userID)
	if err != nil {
		return err
	}
	now := s.Tasks.now()
	return s.DB.WithContext(ctx).Model(f).Updates(map[string]any{
		"baseline_dismissed":    true,
		"baseline_last_checked": now,
	}).Error
}

func containsSubstring(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

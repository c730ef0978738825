package Services

import (
	"context"
	"time"

	"HomeList/Models"
	"HomeList/Scheduling"
)

type DashboardOverview struct {
	TotalActive      int `json:"total_active"`
	OverdueCount     int `json:"overdue_count"`
	DueIn7Days       int `json:"due_7_days"`
	CompletedIn7Days int `json:"completed_7_days"`
}

type Dashboard struct {
	Buckets  Scheduling.Buckets `json:"buckets"`
	Urgent   *Models.Task       `json:"urgent_task"`
	Overview DashboardOverview  `json:"overview"`
	Baseline BaselineState      `json:"baseline"`
}

type BaselineState struct {
	Dismissed   bool       `json:"dismissed"`
	LastChecked *time.Time `json:"last_checked"`
}

// Dashboard assembles the main view for a user.
func (s *HomeService) Dashboard(ctx context.Context, userID uint) (Dashboard, error) {
	var d Dashboard
	buckets, err := s.Tasks.Classified(ctx, userID, Scheduling.Filter{})
	if err != nil {
		return d, err
	}
	d.Buckets = buckets
	d.Urgent = Scheduling.UrgentTask(buckets.Overdue)

	today := s.Tasks.Today()
	week := today.AddDate(0, 0, 7)
	d.Overview.TotalActive = len(buckets.Overdue) + len(buckets.Upcoming) + len(buckets.Future)
	d.Overview.OverdueCount = len(buckets.Overdue)
	for _, t := range buckets.Upcoming {
		if !Scheduling.DateOf(t.NextDueDate).After(week) {
			d.Overview.DueIn7Days++
		}
	}
	for _, t := range buckets.Completed {
		if t.LastCompleted != nil && Scheduling.DaysBetween(*t.LastCompleted, today) <= 7 {
			d.Overview.CompletedIn7Days++
		}
	}

	if f, err := s.Features(ctx, userID); err == nil {
		d.Baseline = BaselineState{Dismissed: f.BaselineDismissed, LastChecked: f.BaselineLastChecked}
	} else if !IsNotFound(err) {
		return d, err
	}
	return d, nil
}

func (s *HomeService) Roadmap(ctx context.Context, userID uint) ([]Scheduling.RoadmapWeek, error) {
	if _, err := s.Tasks.ReactivateDue(ctx, userID); err != nil {
		return nil, err
	}
	today := s.Tasks.Today()
	tasks, err := s.Tasks.DueBy(ctx, userID, today.AddDate(0, 0, Scheduling.RoadmapDays))
	if err != nil {
		return nil, err
	}
	return Scheduling.Roadmap(tasks, today), nil
}

// Calendar lays out the given month. A zero year or an out of range month
// falls back to the current month.
func (s *HomeService) Calendar(ctx context.Context, userID uint, year, month int) (Scheduling.CalendarMonth, error) {
	today := s.Tasks.Today()
	if year <= 0 || month < 1 || month > 12 {
		year, month = today.Year(), int(today.Month())
	}
	if _, err := s.Tasks.ReactivateDue(ctx, userID); err != nil {
		return Scheduling.CalendarMonth{}, err
	}
	start, end := Scheduling.CalendarBounds(year, time.Month(month))

	var tasks []Models.Task
	err := s.Tasks.activeQuery(ctx, userID).
		Where("next_due_date >= ? AND next_due_date <= ?", start, end).
		Order("next_due_date ASC").Order("id ASC").
		Find(&tasks).Error
	if err != nil {
		return Scheduling.CalendarMonth{}, err
	}
	return Scheduling.Calendar(year, time.Month(month), tasks, today), nil
}

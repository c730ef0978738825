package Controllers

import (
	"time"

	"HomeList/Models"
	"HomeList/Scheduling"
	"HomeList/Services"
)

// TaskResponse is the wire shape of a task. Dates are YYYY-MM-DD.
type TaskResponse struct {
	ID               uint              `json:"id"`
	TaskKey          string            `json:"task_key,omitempty"`
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	Category         string            `json:"category"`
	Priority         string            `json:"priority"`
	FrequencyDays    int               `json:"frequency_days"`
	FrequencyLabel   string            `json:"frequency_label"`
	NextDueDate      string            `json:"next_due_date"`
	DueLabel         string            `json:"due_label"`
	LastCompleted    *string           `json:"last_completed"`
	Status           Models.TaskStatus `json:"status"`
	Archived         bool              `json:"archived"`
	Seasonal         bool              `json:"seasonal"`
	EstimatedMinutes int               `json:"estimated_minutes"`
	Professional     bool              `json:"professional"`
	SafetyCritical   bool              `json:"safety_critical"`
}

func presentTask(t Models.Task, today time.Time) TaskResponse {
	r := TaskResponse{
		ID:               t.ID,
		TaskKey:          t.TaskKey,
		Title:            t.Title,
		Description:      t.Description,
		Category:         t.Category,
		Priority:         t.Priority,
		FrequencyDays:    t.FrequencyDays,
		FrequencyLabel:   Scheduling.FrequencyLabel(t.FrequencyDays),
		NextDueDate:      Scheduling.FormatDate(t.NextDueDate),
		DueLabel:         Scheduling.DueLabel(t.NextDueDate, today),
		Status:           t.Status,
		Archived:         t.Archived,
		Seasonal:         t.Seasonal,
		EstimatedMinutes: t.EstimatedMinutes,
		Professional:     t.Professional,
		SafetyCritical:   t.SafetyCritical,
	}
	if t.LastCompleted != nil {
		d := Scheduling.FormatDate(*t.LastCompleted)
		r.LastCompleted = &d
	}
	return r
}

func presentTasks(tasks []Models.Task, today time.Time) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, presentTask(t, today))
	}
	return out
}

type BucketsResponse struct {
	Overdue   []TaskResponse `json:"overdue"`
	Upcoming  []TaskResponse `json:"upcoming"`
	Future    []TaskResponse `json:"future"`
	Completed []TaskResponse `json:"completed"`
}

func presentBuckets(b Scheduling.Buckets, today time.Time) BucketsResponse {
	return BucketsResponse{
		Overdue:   presentTasks(b.Overdue, today),
		Upcoming:  presentTasks(b.Upcoming, today),
		Future:    presentTasks(b.Future, today),
		Completed: presentTasks(b.Completed, today),
	}
}

type HistoryResponse struct {
	ID        uint                 `json:"id"`
	Action    Models.HistoryAction `json:"action"`
	DeltaDays *int                 `json:"delta_days,omitempty"`
	Notes     string               `json:"notes"`
	CreatedAt time.Time            `json:"created_at"`
}

func presentHistory(rows []Models.TaskHistory) []HistoryResponse {
	out := make([]HistoryResponse, 0, len(rows))
	for _, h := range rows {
		out = append(out, HistoryResponse{ID: h.ID, Action: h.Action, DeltaDays: h.DeltaDays, Notes: h.Notes, CreatedAt: h.CreatedAt})
	}
	return out
}

type UserResponse struct {
	ID                  uint   `json:"id"`
	Username            string `json:"username"`
	Email               string `json:"email"`
	IsAdmin             bool   `json:"is_admin"`
	Persona             string `json:"persona,omitempty"`
	NotificationsOptOut bool   `json:"notifications_opt_out"`
}

func presentUser(u Models.User) UserResponse {
	return UserResponse{
		ID:                  u.ID,
		Username:            u.Username,
		Email:               u.Email,
		IsAdmin:             u.IsAdmin,
		Persona:             u.Persona,
		NotificationsOptOut: u.NotificationsOptOut,
	}
}

// parseDate accepts YYYY-MM-DD or an empty string.
func parseDate(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := Scheduling.ParseDate(s)
	if err != nil {
		return nil, &Services.ValidationError{Field: field, Message: "must be a date formatted YYYY-MM-DD"}
	}
	return &d, nil
}

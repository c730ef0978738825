package Models

import (
	"strings"
	"time"
)

type TaskStatus string

const (
	TaskStatusActive    TaskStatus = "active"
	TaskStatusCompleted TaskStatus = "completed"
)

// Priority values accepted on tasks and templates. "none" is stored as the
// empty string.
const (
	PriorityNone   = "none"
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Seasonal anchor types
const (
	AnchorFixedDate   = "fixed_date"
	AnchorSeasonStart = "season_start"
)

// NormalizePriority lower-cases p and maps "none" to the stored empty value.
func NormalizePriority(p string) string {
	p = strings.ToLower(strings.TrimSpace(p))
	if p == PriorityNone {
		return ""
	}
	return p
}

func ValidPriority(p string) bool {
	switch NormalizePriority(p) {
	case "", PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is a user-owned instance of recurring work, generated from a
// template or created by hand. Dates are stored at UTC midnight.
type Task struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uint      `json:"user_id" gorm:"not null;index:idx_tasks_user_status"`
	TaskKey   string    `json:"task_key,omitempty" gorm:"size:100;index"`

	Title         string     `json:"title" gorm:"size:255;not null"`
	Description   string     `json:"description" gorm:"type:text"`
	Category      string     `json:"category" gorm:"size:64"`
	Priority      string     `json:"priority" gorm:"size:10"`
	FrequencyDays int        `json:"frequency_days" gorm:"not null"`
	NextDueDate   time.Time  `json:"next_due_date" gorm:"not null;index"`
	LastCompleted *time.Time `json:"last_completed"`
	Status        TaskStatus `json:"status" gorm:"size:16;not null;default:active;index:idx_tasks_user_status"`
	Archived      bool       `json:"archived" gorm:"not null;default:false"`

	// Seasonal metadata copied from the template at generation time
	Seasonal    bool   `json:"seasonal"`
	AnchorType  string `json:"seasonal_anchor_type" gorm:"column:seasonal_anchor_type;size:16"`
	SeasonCode  string `json:"season_code" gorm:"size:16"`
	AnchorMonth int    `json:"season_anchor_month" gorm:"column:season_anchor_month"`
	AnchorDay   int    `json:"season_anchor_day" gorm:"column:season_anchor_day"`

	EstimatedMinutes int  `json:"estimated_minutes"`
	Professional     bool `json:"professional"`
	SafetyCritical   bool `json:"safety_critical"`

	History []TaskHistory `json:"-" gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
}

func (t Task) IsCompleted() bool { return t.Status == TaskStatusCompleted }

// HistoryAction names a state transition recorded in task_history.
type HistoryAction string

const (
	ActionCreated   HistoryAction = "created"
	ActionCompleted HistoryAction = "completed"
	ActionUpdated   HistoryAction = "updated"
	ActionReset     HistoryAction = "reset"
	ActionSnoozed   HistoryAction = "snoozed"
	ActionArchived  HistoryAction = "archived"
	ActionRestored  HistoryAction = "restored"
)

// TaskHistory rows are append-only.
type TaskHistory struct {
	ID        uint          `json:"id" gorm:"primaryKey"`
	TaskID    uint          `json:"task_id" gorm:"not null;index"`
	UserID    uint          `json:"user_id" gorm:"not null;index"`
	Action    HistoryAction `json:"action" gorm:"size:16;not null;index"`
	DeltaDays *int          `json:"delta_days,omitempty"`
	Notes     string        `json:"notes" gorm:"type:text"`
	CreatedAt time.Time     `json:"created_at"`
}

func (TaskHistory) TableName() string { return "task_history" }

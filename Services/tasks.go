package Services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"HomeList/Models"
	"HomeList/Scheduling"

	"gorm.io/gorm"
)

// TaskService owns every mutation of a user's tasks. Each mutation is a
// single row update followed by a best-effort history append.
type TaskService struct {
	DB      *gorm.DB
	History HistoryRecorder
	Now     func() time.Time
}

func NewTaskService(db *gorm.DB, history HistoryRecorder) *TaskService {
	return &TaskService{DB: db, History: history, Now: time.Now}
}

func (s *TaskService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func (s *TaskService) Today() time.Time {
	return Scheduling.DateOf(s.now())
}

type NewTask struct {
	Title         string
	Description   string
	Category      string
	Priority      string
	FrequencyDays int
	NextDueDate   *time.Time
}

// TaskChanges holds the fields an edit may touch. Nil means unchanged.
type TaskChanges struct {
	Title         *string
	Description   *string
	Category      *string
	Priority      *string
	FrequencyDays *int
	NextDueDate   *time.Time
}

func (s *TaskService) Create(ctx context.Context, userID uint, in NewTask) (*Models.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalid("title", "title is required")
	}
	if in.FrequencyDays <= 0 {
		return nil, invalid("frequency_days", "frequency must be a positive number of days")
	}
	priority := Models.NormalizePriority(in.Priority)
	if !Models.ValidPriority(priority) {
		return nil, invalid("priority", "priority must be one of none, low, medium, high")
	}

	today := s.Today()
	task := Models.Task{
		UserID:        userID,
		Title:         title,
		Description:   strings.TrimSpace(in.Description),
		Category:      strings.TrimSpace(in.Category),
		Priority:      priority,
		FrequencyDays: in.FrequencyDays,
		Status:        Models.TaskStatusActive,
	}
	if in.NextDueDate != nil {
		task.NextDueDate = Scheduling.DateOf(*in.NextDueDate)
	} else {
		task.NextDueDate = Scheduling.NextDue(Scheduling.ScheduleForTask(task), today)
	}
	task.EstimatedMinutes = Scheduling.EstimateMinutes(task.Priority, task.Category)

	if err := s.DB.WithContext(ctx).Create(&task).Error; err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	recordHistory(ctx, s.History, task, Models.ActionCreated, nil, "", s.now())
	return &task, nil
}

// Get loads a task and checks that userID owns it.
func (s *TaskService) Get(ctx context.Context, userID, taskID uint) (*Models.Task, error) {
	var task Models.Task
	if err := s.DB.WithContext(ctx).First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "task", ID: taskID}
		}
		return nil, err
	}
	if task.UserID != userID {
		return nil, &AuthorizationError{Resource: "task", ID: taskID}
	}
	return &task, nil
}

func (s *TaskService) mutable(ctx context.Context, userID, taskID uint) (*Models.Task, error) {
	task, err := s.Get(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if task.Archived {
		return nil, invalid("task", "archived tasks must be restored before they can be changed")
	}
	return task, nil
}

// List returns the user's tasks matching the filter, soonest due first.
func (s *TaskService) List(ctx context.Context, userID uint, filter Scheduling.Filter) ([]Models.Task, error) {
	query := s.DB.WithContext(ctx).Where("user_id = ?", userID)
	if !filter.IncludeArchived {
		query = query.Where("archived = ?", false)
	}
	var tasks []Models.Task
	if err := query.Order("next_due_date ASC").Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return filter.Apply(tasks), nil
}

// Classified reactivates due tasks, then buckets the filtered list.
func (s *TaskService) Classified(ctx context.Context, userID uint, filter Scheduling.Filter) (Scheduling.Buckets, error) {
	if _, err := s.ReactivateDue(ctx, userID); err != nil {
		return Scheduling.Buckets{}, err
	}
	filter.IncludeArchived = false
	tasks, err := s.List(ctx, userID, filter)
	if err != nil {
		return Scheduling.Buckets{}, err
	}
	return Scheduling.Classify(tasks, s.Today()), nil
}

// Complete marks the task done today and schedules its next occurrence
// from today. It is not idempotent: each call appends a history row.
func (s *TaskService) Complete(ctx context.Context, userID, taskID uint) (*Models.Task, error) {
	task, err := s.mutable(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	today := s.Today()
	task.LastCompleted = &today
	task.NextDueDate = Scheduling.NextDue(Scheduling.ScheduleForTask(*task), today)
	task.Status = Models.TaskStatusCompleted

	if err := s.save(ctx, task, "Status", "LastCompleted", "NextDueDate"); err != nil {
		return nil, err
	}
	notes := fmt.Sprintf("Completed on %s; next due %s", Scheduling.FormatDate(today), Scheduling.FormatDate(task.NextDueDate))
	recordHistory(ctx, s.History, *task, Models.ActionCompleted, nil, notes, s.now())
	return task, nil
}

// Reset returns the task to active as if it had just been created today.
func (s *TaskService) Reset(ctx context.Context, userID, taskID uint) (*Models.Task, error) {
	task, err := s.mutable(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	today := s.Today()
	task.Status = Models.TaskStatusActive
	task.LastCompleted = nil
	task.NextDueDate = Scheduling.NextDue(Scheduling.ScheduleForTask(*task), today)

	if err := s.save(ctx, task, "Status", "LastCompleted", "NextDueDate"); err != nil {
		return nil, err
	}
	notes := fmt.Sprintf("Reset; next due %s", Scheduling.FormatDate(task.NextDueDate))
	recordHistory(ctx, s.History, *task, Models.ActionReset, nil, notes, s.now())
	return task, nil
}

// Snooze pushes the current due date back by days. The shift is relative
// to the due date, not to today.
func (s *TaskService) Snooze(ctx context.Context, userID, taskID uint, days int) (*Models.Task, error) {
	if days <= 0 {
		return nil, invalid("days", "snooze days must be a positive number")
	}
	task, err := s.mutable(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	previous := task.NextDueDate
	task.NextDueDate = Scheduling.AddDays(previous, days)

	if err := s.save(ctx, task, "NextDueDate"); err != nil {
		return nil, err
	}
	notes := fmt.Sprintf("Snoozed %d days: %s -> %s", days, Scheduling.FormatDate(previous), Scheduling.FormatDate(task.NextDueDate))
	delta := days
	recordHistory(ctx, s.History, *task, Models.ActionSnoozed, &delta, notes, s.now())
	return task, nil
}

// Edit applies the given changes. An edit that changes nothing writes
// neither the row nor a history entry.
func (s *TaskService) Edit(ctx context.Context, userID, taskID uint, changes TaskChanges) (*Models.Task, error) {
	if changes.Title != nil && strings.TrimSpace(*changes.Title) == "" {
		return nil, invalid("title", "title must not be empty")
	}
	if changes.FrequencyDays != nil && *changes.FrequencyDays <= 0 {
		return nil, invalid("frequency_days", "frequency must be a positive number of days")
	}
	if changes.Priority != nil && !Models.ValidPriority(*changes.Priority) {
		return nil, invalid("priority", "priority must be one of none, low, medium, high")
	}

	task, err := s.mutable(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	var (
		fields []string
		notes  []string
	)
	if changes.Title != nil {
		if v := strings.TrimSpace(*changes.Title); v != task.Title {
			notes = append(notes, fmt.Sprintf("title: %q -> %q", task.Title, v))
			task.Title = v
			fields = append(fields, "Title")
		}
	}
	if changes.Description != nil {
		if v := strings.TrimSpace(*changes.Description); v != task.Description {
			notes = append(notes, "description changed")
			task.Description = v
			fields = append(fields, "Description")
		}
	}
	if changes.Category != nil {
		if v := strings.TrimSpace(*changes.Category); v != task.Category {
			notes = append(notes, fmt.Sprintf("category: %s -> %s", orNone(task.Category), orNone(v)))
			task.Category = v
			fields = append(fields, "Category")
		}
	}
	if changes.Priority != nil {
		if v := Models.NormalizePriority(*changes.Priority); v != task.Priority {
			notes = append(notes, fmt.Sprintf("priority: %s -> %s", orNone(task.Priority), orNone(v)))
			task.Priority = v
			fields = append(fields, "Priority")
		}
	}
	if changes.FrequencyDays != nil && *changes.FrequencyDays != task.FrequencyDays {
		notes = append(notes, fmt.Sprintf("frequency: %d -> %d days", task.FrequencyDays, *changes.FrequencyDays))
		task.FrequencyDays = *changes.FrequencyDays
		fields = append(fields, "FrequencyDays")
	}
	if changes.NextDueDate != nil {
		if v := Scheduling.DateOf(*changes.NextDueDate); !v.Equal(Scheduling.DateOf(task.NextDueDate)) {
			notes = append(notes, fmt.Sprintf("next due: %s -> %s", Scheduling.FormatDate(task.NextDueDate), Scheduling.FormatDate(v)))
			task.NextDueDate = v
			fields = append(fields, "NextDueDate")
		}
	}

	if len(fields) == 0 {
		return task, nil
	}
	if err := s.save(ctx, task, fields...); err != nil {
		return nil, err
	}
	recordHistory(ctx, s.History, *task, Models.ActionUpdated, nil, strings.Join(notes, "; "), s.now())
	return task, nil
}

// Archive hides a task from every view while keeping its history.
func (s *TaskService) Archive(ctx context.Context, userID, taskID uint) (*Models.Task, error) {
	task, err := s.Get(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if task.Archived {
		return task, nil
	}
	task.Archived = true
	if err := s.save(ctx, task, "Archived"); err != nil {
		return nil, err
	}
	recordHistory(ctx, s.History, *task, Models.ActionArchived, nil, "", s.now())
	return task, nil
}

func (s *TaskService) Restore(ctx context.Context, userID, taskID uint) (*Models.Task, error) {
	task, err := s.Get(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if !task.Archived {
		return task, nil
	}
	task.Archived = false
	if err := s.save(ctx, task, "Archived"); err != nil {
		return nil, err
	}
	recordHistory(ctx, s.History, *task, Models.ActionRestored, nil, "", s.now())
	return task, nil
}

// Delete removes the task together with its history.
func (s *TaskService) Delete(ctx context.Context, userID, taskID uint) error {
	task, err := s.Get(ctx, userID, taskID)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", task.ID).Delete(&Models.TaskHistory{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Models.Task{}, task.ID).Error
	})
}

// TaskHistory lists a task's history newest first.
func (s *TaskService) TaskHistory(ctx context.Context, userID, taskID uint) (*Models.Task, []Models.TaskHistory, error) {
	task, err := s.Get(ctx, userID, taskID)
	if err != nil {
		return nil, nil, err
	}
	var rows []Models.TaskHistory
	err = s.DB.WithContext(ctx).
		Where("task_id = ? AND user_id = ?", task.ID, userID).
		Order("created_at DESC").Order("id DESC").
		Find(&rows).Error
	return task, rows, err
}

// ReactivateDue flips completed tasks whose next occurrence has arrived
// back to active.
func (s *TaskService) ReactivateDue(ctx context.Context, userID uint) (int64, error) {
	res := s.reactivateQuery(ctx).Where("user_id = ?", userID).Update("status", Models.TaskStatusActive)
	return res.RowsAffected, res.Error
}

func (s *TaskService) ReactivateAll(ctx context.Context) (int64, error) {
	res := s.reactivateQuery(ctx).Update("status", Models.TaskStatusActive)
	return res.RowsAffected, res.Error
}

func (s *TaskService) reactivateQuery(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx).Model(&Models.Task{}).
		Where("status = ? AND archived = ? AND next_due_date <= ?", Models.TaskStatusCompleted, false, s.Today())
}

// DueBy lists active, non-archived tasks due on or before until.
func (s *TaskService) DueBy(ctx context.Context, userID uint, until time.Time) ([]Models.Task, error) {
	var tasks []Models.Task
	err := s.activeQuery(ctx, userID).
		Where("next_due_date <= ?", Scheduling.DateOf(until)).
		Order("next_due_date ASC").Order("id ASC").
		Find(&tasks).Error
	return tasks, err
}

// Overdue lists active, non-archived tasks due before today.
func (s *TaskService) Overdue(ctx context.Context, userID uint) ([]Models.Task, error) {
	var tasks []Models.Task
	err := s.activeQuery(ctx, userID).
		Where("next_due_date < ?", s.Today()).
		Order("next_due_date ASC").Order("id ASC").
		Find(&tasks).Error
	return tasks, err
}

func (s *TaskService) activeQuery(ctx context.Context, userID uint) *gorm.DB {
	return s.DB.WithContext(ctx).
		Where("user_id = ? AND status = ? AND archived = ?", userID, Models.TaskStatusActive, false)
}

func (s *TaskService) save(ctx context.Context, task *Models.Task, fields ...string) error {
	if err := s.DB.WithContext(ctx).Model(task).Select(fields).Updates(task).Error; err != nil {
		return fmt.Errorf("update task %d: %w", task.ID, err)
	}
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

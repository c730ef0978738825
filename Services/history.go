package Services

import (
	"context"
	"log"
	"time"

	"HomeList/Models"

	"gorm.io/gorm"
)

// HistoryRecorder appends task_history rows. Callers treat it as best
// effort: the primary write has already happened when it is called.
type HistoryRecorder interface {
	Record(ctx context.Context, entry Models.TaskHistory) error
}

type GormHistory struct {
	DB *gorm.DB
}

func NewGormHistory(db *gorm.DB) *GormHistory {
	return &GormHistory{DB: db}
}

func (h *GormHistory) Record(ctx context.Context, entry Models.TaskHistory) error {
	return h.DB.WithContext(ctx).Create(&entry).Error
}

// recordHistory writes a history row and swallows the failure.
func recordHistory(ctx context.Context, rec HistoryRecorder, task Models.Task, action Models.HistoryAction, delta *int, notes string, at time.Time) {
	if rec == nil {
		return
	}
	entry := Models.TaskHistory{
		TaskID:    task.ID,
		UserID:    task.UserID,
		Action:    action,
		DeltaDays: delta,
		Notes:     notes,
		CreatedAt: at.UTC(),
	}
	if err := rec.Record(ctx, entry); err != nil {
		log.Printf("Warning: could not record %s history for task %d: %v", action, task.ID, err)
	}
}

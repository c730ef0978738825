package Services

import (
	"context"
	"fmt"
	"log"
	"time"

	"HomeList/Models"
	"HomeList/Scheduling"

	"gorm.io/gorm"
)

// GenerationReport summarizes one generator run.
type GenerationReport struct {
	Considered int      `json:"considered"`
	Matched    int      `json:"matched"`
	Inserted   int      `json:"inserted"`
	Skipped    int      `json:"skipped"`
	Failed     int      `json:"failed"`
	Errors     []string `json:"errors,omitempty"`
}

// Generator materializes catalog templates into a user's task list.
type Generator struct {
	DB      *gorm.DB
	History HistoryRecorder
	Now     func() time.Time
}

func NewGenerator(db *gorm.DB, history HistoryRecorder) *Generator {
	return &Generator{DB: db, History: history, Now: time.Now}
}

// Generate creates one task per applicable template the user does not
// already have as a non-archived task. Existing tasks are left untouched,
// so running it again with the same features inserts nothing. Each insert
// stands alone: a failed insert is reported and the run continues.
func (g *Generator) Generate(ctx context.Context, userID uint, features Scheduling.FeatureSet) (GenerationReport, error) {
	var report GenerationReport

	var templates []Models.TaskTemplate
	if err := g.DB.WithContext(ctx).Where("active = ?", true).Order("id ASC").Find(&templates).Error; err != nil {
		return report, fmt.Errorf("load templates: %w", err)
	}
	report.Considered = len(templates)

	selected, errs := Scheduling.SelectTemplates(templates, features)
	for _, err := range errs {
		report.Errors = append(report.Errors, err.Error())
	}
	report.Matched = len(selected)

	var keys []string
	if err := g.DB.WithContext(ctx).Model(&Models.Task{}).
		Where("user_id = ? AND archived = ? AND task_key <> ''", userID, false).
		Pluck("task_key", &keys).Error; err != nil {
		return report, fmt.Errorf("load existing tasks: %w", err)
	}
	existing := make(map[string]bool, len(keys))
	for _, k := range keys {
		existing[k] = true
	}

	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	at := now().UTC()
	today := Scheduling.DateOf(at)

	for _, tpl := range selected {
		if existing[tpl.Key] {
			report.Skipped++
			continue
		}
		task := TaskFromTemplate(userID, tpl, today)
		if err := g.DB.WithContext(ctx).Create(&task).Error; err != nil {
			log.Printf("Failed to create task %s for user %d: %v", tpl.Key, userID, err)
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", tpl.Key, err))
			continue
		}
		existing[tpl.Key] = true
		report.Inserted++
		recordHistory(ctx, g.History, task, Models.ActionCreated, nil, "Generated from template "+tpl.Key, at)
	}
	return report, nil
}

// TaskFromTemplate copies a template into a new active task due at the
// calculator's first occurrence after today.
func TaskFromTemplate(userID uint, tpl Models.TaskTemplate, today time.Time) Models.Task {
	return Models.Task{
		UserID:           userID,
		TaskKey:          tpl.Key,
		Title:            tpl.Title,
		Description:      tpl.Description,
		Category:         tpl.Category,
		Priority:         tpl.Priority,
		FrequencyDays:    tpl.FrequencyDays,
		NextDueDate:      Scheduling.NextDue(Scheduling.ScheduleForTemplate(tpl), today),
		Status:           Models.TaskStatusActive,
		Seasonal:         tpl.Seasonal,
		AnchorType:       tpl.AnchorType,
		SeasonCode:       tpl.SeasonCode,
		AnchorMonth:      tpl.AnchorMonth,
		AnchorDay:        tpl.AnchorDay,
		EstimatedMinutes: tpl.EstimatedMinutes,
		Professional:     tpl.Professional,
		SafetyCritical:   tpl.SafetyCritical,
	}
}

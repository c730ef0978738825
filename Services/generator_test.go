package Services

import (
	"context"
	"errors"
	"testing"

	"HomeList/Models"
	"HomeList/Scheduling"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedDefaultCatalog(t *testing.T, db *gorm.DB) int {
	t.Helper()
	entries, err := Scheduling.LoadCatalog("")
	require.NoError(t, err)
	n, err := NewCatalogService(db).Seed(context.Background(), entries)
	require.NoError(t, err)
	return n
}

func taskKeys(t *testing.T, db *gorm.DB, userID uint) []string {
	t.Helper()
	var keys []string
	require.NoError(t, db.Model(&Models.Task{}).Where("user_id = ?", userID).Order("task_key ASC").Pluck("task_key", &keys).Error)
	return keys
}

func TestQuestionnaireFireplaceScenario(t *testing.T) {
	db := newTestDB(t)
	seedDefaultCatalog(t, db)
	user := createUser(t, db, "sam@example.com")
	home := newHomeService(t, db, "2025-05-01")
	ctx := context.Background()

	features := Models.HomeFeatures{HasHVAC: true, GarageType: "attached", FireplaceType: "none"}
	_, report, err := home.SaveQuestionnaire(ctx, user.ID, Questionnaire{Features: features})
	require.NoError(t, err)
	assert.NotZero(t, report.Inserted)
	before := taskKeys(t, db, user.ID)
	assert.NotContains(t, before, "fireplace_inspect")
	assert.Contains(t, before, "hvac_filter_replace")
	assert.Contains(t, before, "co_detector_test")

	_, report, err = home.SaveQuestionnaire(ctx, user.ID, Questionnaire{Features: features})
	require.NoError(t, err)
	assert.Zero(t, report.Inserted)
	assert.Equal(t, len(before), report.Skipped)
	assert.Equal(t, before, taskKeys(t, db, user.ID))

	features.FireplaceType = "gas"
	_, report, err = home.SaveQuestionnaire(ctx, user.ID, Questionnaire{Features: features})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Inserted)

	after := taskKeys(t, db, user.ID)
	assert.Len(t, after, len(before)+1)
	assert.Contains(t, after, "fireplace_inspect")
	assert.NotContains(t, after, "chimney_sweep")
}

func TestGenerateIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	seedDefaultCatalog(t, db)
	user := createUser(t, db, "sam@example.com")
	gen := NewGenerator(db, NewGormHistory(db))
	gen.Now = fixedClock(t, "2025-05-01")
	ctx := context.Background()

	features := Models.HomeFeatures{HomeType: "house", HasHVAC: true, HasGutters: true, HasSmokeDetectors: true, PetDog: true}
	first, err := gen.Generate(ctx, user.ID, features)
	require.NoError(t, err)
	require.NotZero(t, first.Inserted)
	assert.Empty(t, first.Errors)

	second, err := gen.Generate(ctx, user.ID, features)
	require.NoError(t, err)
	assert.Zero(t, second.Inserted)
	assert.Equal(t, first.Inserted, second.Skipped)

	keys := taskKeys(t, db, user.ID)
	assert.Len(t, keys, first.Inserted)
	assert.Contains(t, keys, "hvac_filter_replace_pets")
	assert.NotContains(t, keys, "hvac_filter_replace")
	assert.Contains(t, keys, "gutters_clean")
	assert.NotContains(t, keys, "gutters_clean_fall")
	assert.Contains(t, keys, "fire_extinguisher_check")
}

func TestGenerateKeepsExistingTasksUntouched(t *testing.T) {
	db := newTestDB(t)
	seedDefaultCatalog(t, db)
	user := createUser(t, db, "sam@example.com")
	gen := NewGenerator(db, NewGormHistory(db))
	gen.Now = fixedClock(t, "2025-05-01")
	ctx := context.Background()

	custom := insertTask(t, db, Models.Task{UserID: user.ID, TaskKey: "gfci_test", Title: "My GFCI routine", FrequencyDays: 14, NextDueDate: mustDate(t, "2025-05-03")})

	_, err := gen.Generate(ctx, user.ID, Models.HomeFeatures{})
	require.NoError(t, err)

	var stored Models.Task
	require.NoError(t, db.First(&stored, custom.ID).Error)
	assert.Equal(t, "My GFCI routine", stored.Title)
	assert.Equal(t, 14, stored.FrequencyDays)

	var count int64
	require.NoError(t, db.Model(&Models.Task{}).Where("user_id = ? AND task_key = ?", user.ID, "gfci_test").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGenerateRecordsHistoryAndDueDates(t *testing.T) {
	db := newTestDB(t)
	seedDefaultCatalog(t, db)
	user := createUser(t, db, "sam@example.com")
	gen := NewGenerator(db, NewGormHistory(db))
	gen.Now = fixedClock(t, "2025-05-01")

	_, err := gen.Generate(context.Background(), user.ID, Models.HomeFeatures{HasSmokeDetectors: true})
	require.NoError(t, err)

	var batteries Models.Task
	require.NoError(t, db.Where("user_id = ? AND task_key = ?", user.ID, "smoke_detector_batteries").First(&batteries).Error)
	assert.Equal(t, "2025-11-05", Scheduling.FormatDate(batteries.NextDueDate))
	assert.True(t, batteries.Seasonal)
	assert.Equal(t, Models.TaskStatusActive, batteries.Status)

	var gfci Models.Task
	require.NoError(t, db.Where("user_id = ? AND task_key = ?", user.ID, "gfci_test").First(&gfci).Error)
	assert.Equal(t, "2025-07-30", Scheduling.FormatDate(gfci.NextDueDate))

	history := historyFor(t, db, batteries.ID)
	require.Len(t, history, 1)
	assert.Equal(t, Models.ActionCreated, history[0].Action)
	assert.Equal(t, "Generated from template smoke_detector_batteries", history[0].Notes)
}

func TestGenerateSkipsInactiveTemplates(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "sam@example.com")
	inactive := false
	_, err := NewCatalogService(db).Seed(context.Background(), []Scheduling.CatalogEntry{
		{Key: "on", Title: "On", FrequencyDays: 30},
		{Key: "off", Title: "Off", FrequencyDays: 30, Active: &inactive},
	})
	require.NoError(t, err)

	gen := NewGenerator(db, NewGormHistory(db))
	gen.Now = fixedClock(t, "2025-05-01")
	report, err := gen.Generate(context.Background(), user.ID, Models.HomeFeatures{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Considered)
	assert.Equal(t, []string{"on"}, taskKeys(t, db, user.ID))
}

func TestTaskFromTemplate(t *testing.T) {
	tpl := Models.TaskTemplate{
		Key: "deck_seal", Title: "Clean and Seal Deck", Priority: "low", FrequencyDays: 730,
		Seasonal: true, AnchorType: Models.AnchorSeasonStart, SeasonCode: "summer",
		EstimatedMinutes: 20, Professional: true,
	}
	task := TaskFromTemplate(7, tpl, mustDate(t, "2025-06-01"))
	assert.Equal(t, uint(7), task.UserID)
	assert.Equal(t, "deck_seal", task.TaskKey)
	assert.Equal(t, "2026-06-01", Scheduling.FormatDate(task.NextDueDate))
	assert.Equal(t, Models.TaskStatusActive, task.Status)
	assert.True(t, task.Professional)
	assert.Nil(t, task.LastCompleted)
}

func TestGenerateContinuesAfterFailedInsert(t *testing.T) {
	db := newTestDB(t)
	seedDefaultCatalog(t, db)
	user := createUser(t, db, "sam@example.com")
	home := newHomeService(t, db, "2025-05-01")

	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:fail_hvac_filter", func(tx *gorm.DB) {
		if task, ok := tx.Statement.Dest.(*Models.Task); ok && task.TaskKey == "hvac_filter_replace" {
			tx.AddError(errors.New("boom"))
		}
	}))

	report, err := home.Generator.Generate(context.Background(), user.ID, Models.HomeFeatures{HasHVAC: true, HasGutters: true})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Positive(t, report.Inserted)
	assert.Equal(t, report.Matched, report.Inserted+report.Failed)
	assert.Contains(t, report.Errors, "hvac_filter_replace: boom")

	keys := taskKeys(t, db, user.ID)
	assert.Len(t, keys, report.Inserted)
	assert.NotContains(t, keys, "hvac_filter_replace")
}

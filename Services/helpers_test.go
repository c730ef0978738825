package Services

import (
	"context"
	"errors"
	"testing"
	"time"

	"HomeList/Models"
	"HomeList/Scheduling"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, Models.Migrate(db))
	return db
}

func fixedClock(t *testing.T, day string) func() time.Time {
	t.Helper()
	d, err := Scheduling.ParseDate(day)
	require.NoError(t, err)
	at := d.Add(9 * time.Hour)
	return func() time.Time { return at }
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := Scheduling.ParseDate(s)
	require.NoError(t, err)
	return d
}

func createUser(t *testing.T, db *gorm.DB, email string) Models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("Secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	u := Models.User{Username: "Sam", Email: email, PasswordHash: hash}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func insertTask(t *testing.T, db *gorm.DB, task Models.Task) Models.Task {
	t.Helper()
	if task.Status == "" {
		task.Status = Models.TaskStatusActive
	}
	if task.Title == "" {
		task.Title = "Replace HVAC Filter"
	}
	if task.FrequencyDays == 0 {
		task.FrequencyDays = 90
	}
	require.NoError(t, db.Create(&task).Error)
	return task
}

func historyFor(t *testing.T, db *gorm.DB, taskID uint) []Models.TaskHistory {
	t.Helper()
	var rows []Models.TaskHistory
	require.NoError(t, db.Where("task_id = ?", taskID).Order("id ASC").Find(&rows).Error)
	return rows
}

type failingHistory struct {
	calls int
}

func (f *failingHistory) Record(context.Context, Models.TaskHistory) error {
	f.calls++
	return errors.New("task_history is unavailable")
}

func newTaskService(t *testing.T, db *gorm.DB, today string) *TaskService {
	s := NewTaskService(db, NewGormHistory(db))
	s.Now = fixedClock(t, today)
	return s
}

func newHomeService(t *testing.T, db *gorm.DB, today string) *HomeService {
	tasks := newTaskService(t, db, today)
	gen := NewGenerator(db, tasks.History)
	gen.Now = tasks.Now
	return NewHomeService(db, tasks, gen)
}

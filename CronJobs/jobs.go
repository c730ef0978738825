package CronJobs

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"HomeList/Notifications"

	"github.com/robfig/cron/v3"
)

// Job names
const (
	JobWeeklyCheckin = "weekly_checkin"
	JobOverdue       = "overdue_digest"
	JobReactivate    = "reactivate"
)

// Schedules holds standard five-field cron expressions. An empty
// expression disables that job.
type Schedules struct {
	WeeklyCheckin string
	Overdue       string
	Reactivate    string
}

// NotificationRunner is satisfied by *Notifications.Notifier.
type NotificationRunner interface {
	Run(ctx context.Context, kind string) (Notifications.Summary, error)
}

// Reactivator is satisfied by *Services.TaskService.
type Reactivator interface {
	ReactivateAll(ctx context.Context) (int64, error)
}

// Scheduler runs the reminder jobs on cron schedules. Runs of the same job
// never overlap.
type Scheduler struct {
	cronScheduler *cron.Cron
	notifier      NotificationRunner
	tasks         Reactivator
	timeout       time.Duration

	mu      sync.Mutex
	entries map[string]cron.EntryID
	running map[string]bool
}

func NewScheduler(notifier NotificationRunner, tasks Reactivator, location *time.Location) *Scheduler {
	if location == nil {
		location = time.UTC
	}
	return &Scheduler{
		cronScheduler: cron.New(cron.WithLocation(location)),
		notifier:      notifier,
		tasks:         tasks,
		timeout:       30 * time.Minute,
		entries:       map[string]cron.EntryID{},
		running:       map[string]bool{},
	}
}

// Start registers every job with a non-empty schedule and starts the cron loop.
func (s *Scheduler) Start(schedules Schedules) error {
	jobs := []struct {
		name string
		spec string
	}{
		{JobWeeklyCheckin, schedules.WeeklyCheckin},
		{JobOverdue, schedules.Overdue},
		{JobReactivate, schedules.Reactivate},
	}
	for _, j := range jobs {
		if j.spec == "" {
			log.Printf("Job %s disabled", j.name)
			continue
		}
		if err := s.UpdateSchedule(j.name, j.spec); err != nil {
			return err
		}
	}

	s.cronScheduler.Start()
	log.Println("Reminder scheduler started")
	return nil
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	if s.cronScheduler != nil {
		<-s.cronScheduler.Stop().Done()
		log.Println("Reminder scheduler stopped")
	}
}

// UpdateSchedule replaces the schedule of a job.
func (s *Scheduler) UpdateSchedule(name, spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid schedule %q for %s: %w", spec, name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.entries[name]; ok {
		s.cronScheduler.Remove(id)
	}
	id, err := s.cronScheduler.AddFunc(spec, func() { s.RunJob(name) })
	if err != nil {
		return fmt.Errorf("error scheduling %s: %w", name, err)
	}
	s.entries[name] = id
	log.Printf("Job %s scheduled: %s", name, spec)
	return nil
}

// RunJob executes one job immediately. It reports false when the job is
// already running or unknown.
func (s *Scheduler) RunJob(name string) bool {
	s.mu.Lock()
	if s.running[name] {
		s.mu.Unlock()
		log.Printf("Job %s is still running, skipping this tick", name)
		return false
	}
	s.running[name] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.running, name)
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	var err error
	switch name {
	case JobWeeklyCheckin:
		_, err = s.notifier.Run(ctx, Notifications.KindWeekly)
	case JobOverdue:
		_, err = s.notifier.Run(ctx, Notifications.KindOverdue)
	case JobReactivate:
		var n int64
		n, err = s.tasks.ReactivateAll(ctx)
		if err == nil {
			log.Printf("Reactivated %d tasks", n)
		}
	default:
		log.Printf("Unknown job %s", name)
		return false
	}

	if err != nil {
		log.Printf("Job %s failed after %s: %v", name, time.Since(start), err)
	} else {
		log.Printf("Job %s finished in %s", name, time.Since(start))
	}
	return true
}

package Notifications

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"HomeList/Models"
	"HomeList/Scheduling"
	"HomeList/Services"

	"gorm.io/gorm"
)

const (
	KindOverdue = "overdue"
	KindWeekly  = "weekly"

	// DigestLimit caps the tasks listed in one e-mail.
	DigestLimit = 5
)

// Summary counts what one job run did.
type Summary struct {
	Kind    string `json:"kind"`
	Users   int    `json:"users"`
	Emails  int    `json:"emails"`
	Pushes  int    `json:"pushes"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
}

type EmailSender interface {
	SendTemplate(to, subject, view string, data any) error
}

// Notifier builds the reminder digests. Mail, Push and Reporter are all
// optional; a nil channel is simply not used.
type Notifier struct {
	DB       *gorm.DB
	Tasks    *Services.TaskService
	Mail     EmailSender
	Push     PushSender
	Reporter Reporter
	AppURL   string
}

func NewNotifier(db *gorm.DB, tasks *Services.TaskService, mail EmailSender) *Notifier {
	return &Notifier{DB: db, Tasks: tasks, Mail: mail}
}

type OverdueEmail struct {
	Name   string
	Count  int
	Tasks  []Models.Task
	More   int
	AppURL string
}

type WeeklyEmail struct {
	Name               string
	CompletedThisMonth int64
	UpcomingThisWeek   int
	OverdueCount       int
	TopTasks           []Models.Task
	AppURL             string
}

// Run dispatches a job by kind.
func (n *Notifier) Run(ctx context.Context, kind string) (Summary, error) {
	switch kind {
	case KindOverdue:
		return n.SendOverdue(ctx)
	case KindWeekly:
		return n.SendWeeklyCheckin(ctx)
	}
	return Summary{}, &Services.ValidationError{Field: "kind", Message: fmt.Sprintf("unknown notification kind %q", kind)}
}

func (n *Notifier) recipients(ctx context.Context) ([]Models.User, error) {
	var users []Models.User
	err := n.DB.WithContext(ctx).
		Where("notifications_opt_out = ? AND email <> ''", false).
		Order("id ASC").
		Find(&users).Error
	return users, err
}

// SendOverdue mails every user who has overdue tasks.
func (n *Notifier) SendOverdue(ctx context.Context) (Summary, error) {
	s := Summary{Kind: KindOverdue}
	users, err := n.recipients(ctx)
	if err != nil {
		return s, fmt.Errorf("load users: %w", err)
	}

	for _, u := range users {
		s.Users++
		if _, err := n.Tasks.ReactivateDue(ctx, u.ID); err != nil {
			log.Printf("Failed to reactivate tasks for user %d: %v", u.ID, err)
		}
		overdue, err := n.Tasks.Overdue(ctx, u.ID)
		if err != nil {
			log.Printf("Failed to load overdue tasks for user %d: %v", u.ID, err)
			s.Failed++
			continue
		}
		if len(overdue) == 0 {
			s.Skipped++
			continue
		}

		data := OverdueEmail{Name: u.DisplayName(), Count: len(overdue), AppURL: n.AppURL}
		data.Tasks = overdue
		if len(overdue) > DigestLimit {
			data.Tasks = overdue[:DigestLimit]
			data.More = len(overdue) - DigestLimit
		}
		subject := fmt.Sprintf("You have %d overdue task%s", len(overdue), plural(len(overdue)))
		n.deliver(ctx, &s, u, subject, "overdue", data, map[string]string{
			"kind":  KindOverdue,
			"count": strconv.Itoa(len(overdue)),
		})
	}

	n.report(ctx, s)
	return s, nil
}

// SendWeeklyCheckin mails the weekly snapshot: completions this month,
// tasks due this week, overdue tasks and the top tasks to focus on.
// Users with nothing due are skipped.
func (n *Notifier) SendWeeklyCheckin(ctx context.Context) (Summary, error) {
	s := Summary{Kind: KindWeekly}
	users, err := n.recipients(ctx)
	if err != nil {
		return s, fmt.Errorf("load users: %w", err)
	}
	today := n.Tasks.Today()
	weekEnd := today.AddDate(0, 0, 7)
	monthStart := Scheduling.MonthStart(today)

	for _, u := range users {
		s.Users++
		if _, err := n.Tasks.ReactivateDue(ctx, u.ID); err != nil {
			log.Printf("Failed to reactivate tasks for user %d: %v", u.ID, err)
		}
		due, err := n.Tasks.DueBy(ctx, u.ID, weekEnd)
		if err != nil {
			log.Printf("Failed to load tasks for user %d: %v", u.ID, err)
			s.Failed++
			continue
		}

		data := WeeklyEmail{Name: u.DisplayName(), AppURL: n.AppURL}
		for _, t := range due {
			if t.NextDueDate.Before(today) {
				data.OverdueCount++
			} else {
				data.UpcomingThisWeek++
			}
		}
		if len(due) == 0 {
			s.Skipped++
			continue
		}
		if err := n.DB.WithContext(ctx).Model(&Models.Task{}).
			Where("user_id = ? AND archived = ? AND last_completed >= ?", u.ID, false, monthStart).
			Count(&data.CompletedThisMonth).Error; err != nil {
			log.Printf("Failed to count completions for user %d: %v", u.ID, err)
		}

		Scheduling.DigestOrder(due, today)
		if len(due) > DigestLimit {
			due = due[:DigestLimit]
		}
		data.TopTasks = due

		n.deliver(ctx, &s, u, "Your home check-in for the week", "weekly", data, map[string]string{
			"kind":     KindWeekly,
			"overdue":  strconv.Itoa(data.OverdueCount),
			"upcoming": strconv.Itoa(data.UpcomingThisWeek),
		})
	}

	n.report(ctx, s)
	return s, nil
}

func (n *Notifier) deliver(ctx context.Context, s *Summary, u Models.User, subject, view string, data any, push map[string]string) {
	if n.Mail != nil {
		if err := n.Mail.SendTemplate(u.Email, subject, view, data); err != nil {
			log.Printf("Failed to send %s email to user %d: %v", view, u.ID, err)
			s.Failed++
		} else {
			s.Emails++
		}
	}
	if n.Push == nil {
		return
	}

	var devices []Models.DeviceToken
	if err := n.DB.WithContext(ctx).Where("user_id = ?", u.ID).Find(&devices).Error; err != nil {
		log.Printf("Failed to load devices for user %d: %v", u.ID, err)
		return
	}
	if len(devices) == 0 {
		return
	}
	tokens := make([]string, len(devices))
	for i, d := range devices {
		tokens[i] = d.Value
	}
	stale, err := n.Push.Send(ctx, tokens, subject, "Open HomeList to see what needs attention.", push)
	if err != nil {
		log.Printf("Failed to push %s to user %d: %v", view, u.ID, err)
		s.Failed++
		return
	}
	s.Pushes++
	if len(stale) > 0 {
		if err := n.DB.WithContext(ctx).Where("value IN ?", stale).Delete(&Models.DeviceToken{}).Error; err != nil {
			log.Printf("Failed to drop stale device tokens: %v", err)
		}
	}
}

func (n *Notifier) report(ctx context.Context, s Summary) {
	log.Println(s.String())
	if n.Reporter == nil {
		return
	}
	if err := n.Reporter.Report(ctx, s); err != nil {
		log.Printf("Failed to post job summary: %v", err)
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

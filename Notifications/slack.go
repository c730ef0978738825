package Notifications

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

// Reporter posts a one-line summary after a job run.
type Reporter interface {
	Report(ctx context.Context, s Summary) error
}

type SlackReporter struct {
	WebhookURL string
}

func (r SlackReporter) Report(ctx context.Context, s Summary) error {
	if r.WebhookURL == "" {
		return nil
	}
	return slack.PostWebhookContext(ctx, r.WebhookURL, &slack.WebhookMessage{Text: s.String()})
}

func (s Summary) String() string {
	return fmt.Sprintf("HomeList %s run: %d users, %d emails, %d pushes, %d skipped, %d failed",
		s.Kind, s.Users, s.Emails, s.Pushes, s.Skipped, s.Failed)
}

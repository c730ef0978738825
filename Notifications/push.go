package Notifications

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// PushSender delivers a notification to device tokens and reports the
// tokens the provider no longer accepts.
type PushSender interface {
	Send(ctx context.Context, tokens []string, title, body string, data map[string]string) (stale []string, err error)
}

type FirebasePush struct {
	client *messaging.Client
}

// NewFirebasePush initializes Firebase Cloud Messaging from a service
// account file.
func NewFirebasePush(ctx context.Context, credentialsFile string) (*FirebasePush, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %v", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting Messaging client: %v", err)
	}
	log.Println("Firebase initialized successfully")
	return &FirebasePush{client: client}, nil
}

func (p *FirebasePush) Send(ctx context.Context, tokens []string, title, body string, data map[string]string) ([]string, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	resp, err := p.client.SendEachForMulticast(ctx, &messaging.MulticastMessage{
		Tokens:       tokens,
		Data:         data,
		Notification: &messaging.Notification{Title: title, Body: body},
		Android: &messaging.AndroidConfig{
			Priority:     "high",
			Notification: &messaging.AndroidNotification{Sound: "default"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("error sending Firebase message: %v", err)
	}

	var stale []string
	for i, r := range resp.Responses {
		if r.Success {
			continue
		}
		if messaging.IsUnregistered(r.Error) || messaging.IsInvalidArgument(r.Error) {
			stale = append(stale, tokens[i])
		} else {
			log.Printf("Push to device %d failed: %v", i, r.Error)
		}
	}
	return stale, nil
}

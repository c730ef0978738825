package Notifications

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"HomeList/Models"
	"HomeList/email"
)

// Renderer is satisfied by the fiber html template engine.
type Renderer interface {
	Render(out io.Writer, name string, binding interface{}, layout ...string) error
}

// Sender delivers a fully built message.
type Sender func(config Models.EmailConfig, message Models.EmailMessage) error

type Mailer struct {
	Config Models.EmailConfig
	Views  Renderer
	Send   Sender
}

func NewMailer(config Models.EmailConfig, views Renderer) *Mailer {
	return &Mailer{Config: config, Views: views, Send: email.SendEmail}
}

// SendTemplate renders emails/<view> with data and sends it to one
// recipient. The text part is derived from the rendered HTML.
func (m *Mailer) SendTemplate(to, subject, view string, data any) error {
	if !m.Config.Configured() {
		return fmt.Errorf("smtp is not configured")
	}
	var body bytes.Buffer
	if err := m.Views.Render(&body, "emails/"+strings.TrimPrefix(view, "emails/"), data); err != nil {
		return fmt.Errorf("render %s: %w", view, err)
	}
	text, err := email.PlainText(body.String())
	if err != nil {
		return err
	}
	return m.Send(m.Config, Models.EmailMessage{
		To:       []string{to},
		Subject:  subject,
		Body:     body.String(),
		TextBody: text,
		IsHTML:   true,
	})
}

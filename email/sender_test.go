package email

import (
	"strings"
	"testing"

	"HomeList/Models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainText(t *testing.T) {
	html := `<html><head><style>p{color:red}</style></head><body>
<h1>Hi Sam,</h1>
<p>You have <b>2</b> overdue tasks.</p>
<ul><li>Clean Gutters</li><li>Test Smoke Detectors</li></ul>
<p><a href="https://example.com/dashboard">Open dashboard</a></p>
</body></html>`

	text, err := PlainText(html)
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"Hi Sam,",
		"You have 2 overdue tasks.",
		"- Clean Gutters",
		"- Test Smoke Detectors",
		"Open dashboard (https://example.com/dashboard)",
	}, "\n"), text)
	assert.NotContains(t, text, "color")
}

func TestBuildMessageHTML(t *testing.T) {
	cfg := Models.EmailConfig{FromEmail: "noreply@example.com", FromName: "HomeList"}
	raw, err := BuildMessage(cfg, Models.EmailMessage{
		To:      []string{"sam@example.com"},
		Subject: "Overdue tasks",
		Body:    "<p>Clean Gutters</p>",
		IsHTML:  true,
	})
	require.NoError(t, err)

	msg := string(raw)
	assert.Contains(t, msg, "From: HomeList <noreply@example.com>\r\n")
	assert.Contains(t, msg, "To: sam@example.com\r\n")
	assert.Contains(t, msg, "Content-Type: multipart/alternative; boundary=")
	assert.Contains(t, msg, "Content-Type: text/plain; charset=UTF-8")
	assert.Contains(t, msg, "Content-Type: text/html; charset=UTF-8")
	assert.Contains(t, msg, "<p>Clean Gutters</p>")
	assert.Less(t, strings.Index(msg, "text/plain"), strings.Index(msg, "text/html; charset"))
}

func TestBuildMessagePlain(t *testing.T) {
	raw, err := BuildMessage(Models.EmailConfig{FromEmail: "noreply@example.com"}, Models.EmailMessage{
		To:      []string{"a@example.com", "b@example.com"},
		CC:      []string{"c@example.com"},
		BCC:     []string{"hidden@example.com"},
		Subject: "Reset",
		Body:    "hello",
	})
	require.NoError(t, err)

	msg := string(raw)
	assert.Contains(t, msg, "From: noreply@example.com\r\n")
	assert.Contains(t, msg, "To: a@example.com, b@example.com\r\n")
	assert.Contains(t, msg, "Cc: c@example.com\r\n")
	assert.NotContains(t, msg, "hidden@example.com")
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\nhello"))
}

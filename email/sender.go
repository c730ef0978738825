package email

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"mime"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"sort"
	"strings"
	"time"

	"HomeList/Models"

	"github.com/PuerkitoBio/goquery"
)

// BuildMessage renders the raw RFC 5322 message. HTML messages are sent as
// multipart/alternative with a plain text part derived from the markup when
// TextBody is empty.
func BuildMessage(config Models.EmailConfig, message Models.EmailMessage) ([]byte, error) {
	headers := map[string]string{
		"From":         (&mailAddress{config.FromName, config.FromEmail}).String(),
		"To":           strings.Join(message.To, ", "),
		"Subject":      mime.QEncoding.Encode("utf-8", message.Subject),
		"Date":         time.Now().Format(time.RFC1123Z),
		"MIME-Version": "1.0",
	}
	if len(message.CC) > 0 {
		headers["Cc"] = strings.Join(message.CC, ", ")
	}

	var body bytes.Buffer
	if message.IsHTML {
		text := message.TextBody
		if text == "" {
			var err error
			if text, err = PlainText(message.Body); err != nil {
				return nil, err
			}
		}
		w := multipart.NewWriter(&body)
		headers["Content-Type"] = fmt.Sprintf("multipart/alternative; boundary=%q", w.Boundary())
		for _, part := range []struct{ contentType, content string }{
			{"text/plain; charset=UTF-8", text},
			{"text/html; charset=UTF-8", message.Body},
		} {
			pw, err := w.CreatePart(textproto.MIMEHeader{"Content-Type": {part.contentType}})
			if err != nil {
				return nil, err
			}
			if _, err := pw.Write([]byte(part.content)); err != nil {
				return nil, err
			}
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
	} else {
		headers["Content-Type"] = "text/plain; charset=UTF-8"
		body.WriteString(message.Body)
	}

	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out bytes.Buffer
	for _, k := range keys {
		fmt.Fprintf(&out, "%s: %s\r\n", k, headers[k])
	}
	out.WriteString("\r\n")
	out.Write(body.Bytes())
	return out.Bytes(), nil
}

type mailAddress struct{ name, address string }

func (a *mailAddress) String() string {
	if a.name == "" {
		return a.address
	}
	return fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", a.name), a.address)
}

// PlainText flattens an HTML document to readable text: one line per block
// element, links followed by their target.
func PlainText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find("style, script, head").Remove()
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if href != "" && strings.TrimSpace(s.Text()) != href {
			s.AppendHtml(" (" + href + ")")
		}
	})
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, div, h1, h2, h3, h4, li, tr").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})
	doc.Find("li").Each(func(_ int, s *goquery.Selection) {
		s.PrependHtml("- ")
	})

	var lines []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}

// SendEmail sends an email using the provided configuration and message details
func SendEmail(config Models.EmailConfig, message Models.EmailMessage) error {
	raw, err := BuildMessage(config, message)
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if config.Username != "" {
		auth = smtp.PlainAuth("", config.Username, config.Password, config.SMTPServer)
	}

	var recipients []string
	recipients = append(recipients, message.To...)
	recipients = append(recipients, message.CC...)
	recipients = append(recipients, message.BCC...)

	serverAddr := fmt.Sprintf("%s:%d", config.SMTPServer, config.SMTPPort)

	if !config.TLSEnabled {
		return smtp.SendMail(serverAddr, auth, config.FromEmail, recipients, raw)
	}

	tlsConfig := &tls.Config{
		ServerName:         config.SMTPServer,
		InsecureSkipVerify: config.SkipTLSCheck,
	}
	conn, err := tls.Dial("tcp", serverAddr, tlsConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %v", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, config.SMTPServer)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %v", err)
	}
	defer client.Close()

	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %v", err)
		}
	}
	if err = client.Mail(config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %v", err)
	}
	for _, recipient := range recipients {
		if err = client.Rcpt(recipient); err != nil {
			return fmt.Errorf("failed to add recipient %s: %v", recipient, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data connection: %v", err)
	}
	if _, err = w.Write(raw); err != nil {
		return fmt.Errorf("failed to write email body: %v", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data connection: %v", err)
	}
	return client.Quit()
}

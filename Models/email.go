package Models

type EmailConfig struct {
	SMTPServer   string
	SMTPPort     int
	Username     string
	Password     string
	FromEmail    string
	FromName     string
	TLSEnabled   bool
	SkipTLSCheck bool
}

// Configured reports whether enough settings are present to deliver mail.
func (c EmailConfig) Configured() bool {
	return c.SMTPServer != "" && c.Username != "" && c.Password != "" && c.FromEmail != ""
}

// EmailMessage represents an email to be sent
type EmailMessage struct {
	To       []string
	CC       []string
	BCC      []string
	Subject  string
	Body     string
	TextBody string
	IsHTML   bool
}

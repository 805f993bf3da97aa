package mailer

import "context"

type Service interface {
	Send(ctx context.Context, e Email) error
}

type Attachment struct {
	Filename    string
	ContentType string // defaults to application/octet-stream
	Data        []byte
}

type Email struct {
	FromName string
	From     string

	To  []string
	Cc  []string
	Bcc []string

	Subject string

	TextBody string
	HTMLBody string

	Attachments []Attachment

	Headers map[string]string
}

func (e Email) AllRecipients() []string {
	out := make([]string, 0, len(e.To)+len(e.Cc)+len(e.Bcc))
	out = append(out, e.To...)
	out = append(out, e.Cc...)
	out = append(out, e.Bcc...)
	return out
}

// Noop drops every message. It stands in when SMTP is not configured.
type Noop struct{}

func (Noop) Send(context.Context, Email) error { return nil }

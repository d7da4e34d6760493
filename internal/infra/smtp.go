package infra

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
)

// Mailer sends operational mail (discrepancy alerts, daily reports) through a
// plain SMTP relay. Workers call it; handlers never block on mail.
type Mailer struct {
	host string
	port int
	from string
	auth smtp.Auth
}

func NewMailer(host string, port int, username, password, from string) *Mailer {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &Mailer{host: host, port: port, from: from, auth: auth}
}

// Send delivers a plain-text mail, optionally attaching files by path.
func (m *Mailer) Send(to []string, subject, body string, attachments ...string) error {
	e := email.NewEmail()
	e.From = m.from
	e.To = to
	e.Subject = subject
	e.Text = []byte(body)

	for _, path := range attachments {
		if _, err := e.AttachFile(path); err != nil {
			return fmt.Errorf("adjuntar %s: %w", path, err)
		}
	}

	return e.Send(fmt.Sprintf("%s:%d", m.host, m.port), m.auth)
}

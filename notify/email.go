package notify

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// EmailSender delivers mail over SMTP.
type EmailSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailSender(host string, port int, user, password string) *EmailSender {
	if user == "" {
		return &EmailSender{}
	}
	return &EmailSender{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   user,
	}
}

func (s *EmailSender) Send(ctx context.Context, to, subject, body string) error {
	if s.dialer == nil {
		return fmt.Errorf("email sender not configured")
	}
	if to == "" {
		return fmt.Errorf("no recipient address")
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, "CivicVoice")
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	return s.dialer.DialAndSend(m)
}

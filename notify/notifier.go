// Package notify is the outbound notification port. Sends are best-effort
// and blocking, with no retry; callers log failures and move on.
package notify

import "context"

type Notifier interface {
	SendEmail(ctx context.Context, to, subject, body string) error
	SendSMS(ctx context.Context, to, body string) error
}

// Service bundles the email and SMS senders behind the Notifier port.
type Service struct {
	email *EmailSender
	sms   *SMSSender
}

func NewService(email *EmailSender, sms *SMSSender) *Service {
	return &Service{email: email, sms: sms}
}

func (s *Service) SendEmail(ctx context.Context, to, subject, body string) error {
	return s.email.Send(ctx, to, subject, body)
}

func (s *Service) SendSMS(ctx context.Context, to, body string) error {
	return s.sms.Send(ctx, to, body)
}

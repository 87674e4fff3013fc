package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// SMSSender delivers text messages through Twilio.
type SMSSender struct {
	client *twilio.RestClient
	from   string
}

func NewSMSSender(sid, token, from string) *SMSSender {
	if sid == "" || token == "" {
		return &SMSSender{}
	}
	return &SMSSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: sid,
			Password: token,
		}),
		from: from,
	}
}

// formatMobile defaults to the +91 country code when none is present.
func formatMobile(mobile string) string {
	mobile = strings.TrimSpace(mobile)
	if strings.HasPrefix(mobile, "+") {
		return mobile
	}
	return "+91" + mobile
}

func (s *SMSSender) Send(ctx context.Context, to, body string) error {
	if s.client == nil {
		return fmt.Errorf("sms sender not configured")
	}
	if to == "" {
		return fmt.Errorf("no recipient number")
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(formatMobile(to))
	params.SetFrom(s.from)
	params.SetBody(body)

	_, err := s.client.Api.CreateMessage(params)
	return err
}

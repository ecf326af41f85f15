package notification

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// resendEmails is the part of the Resend client the mailer uses.
type resendEmails interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendMailer sends email through the Resend HTTP API.
type ResendMailer struct {
	emails resendEmails
	from   string
}

// NewResendMailer creates a mailer for the given API key and sender.
func NewResendMailer(apiKey, from string) *ResendMailer {
	client := resend.NewClient(apiKey)
	return &ResendMailer{emails: client.Emails, from: from}
}

// SendHTML submits one message.
func (m *ResendMailer) SendHTML(ctx context.Context, to, subject, html string) error {
	_, err := m.emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}

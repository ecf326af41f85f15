package notification

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// smtpDialer is satisfied by *gomail.Dialer.
type smtpDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer sends email through an SMTP relay.
type SMTPMailer struct {
	dialer smtpDialer
	from   string
}

// NewSMTPMailer creates a mailer for the relay at host:port.
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// SendHTML submits one message. gomail has no context support, so the
// dial runs in its own goroutine and ctx only bounds how long we wait.
func (m *SMTPMailer) SendHTML(ctx context.Context, to, subject, html string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	done := make(chan error, 1)
	go func() {
		done <- m.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp: %w", ctx.Err())
	}
}

package notification

import (
	"context"
	"fmt"
)

// Notifier delivers the "movie available" message to one recipient. A nil
// error means the transport accepted the message.
type Notifier interface {
	Send(ctx context.Context, to, movieTitle, watchURL string) error
}

// Mailer hands a rendered HTML email to an outbound transport.
type Mailer interface {
	SendHTML(ctx context.Context, to, subject, html string) error
}

// EmailNotifier renders the release email and sends it through a Mailer.
type EmailNotifier struct {
	mailer Mailer
}

// NewEmailNotifier creates a Notifier backed by the given transport.
func NewEmailNotifier(mailer Mailer) *EmailNotifier {
	return &EmailNotifier{mailer: mailer}
}

// Send renders the movie-available template and mails it.
func (n *EmailNotifier) Send(ctx context.Context, to, movieTitle, watchURL string) error {
	subject, body, err := RenderMovieAvailable(movieTitle, watchURL)
	if err != nil {
		return err
	}
	if err := n.mailer.SendHTML(ctx, to, subject, body); err != nil {
		return fmt.Errorf("failed to email %s about %q: %w", to, movieTitle, err)
	}
	return nil
}

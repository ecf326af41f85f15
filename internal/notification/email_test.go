package notification

import (
	"context"
	"errors"
	"mime"
	"testing"
	"time"

	"github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

func TestRenderMovieAvailable(t *testing.T) {
	subject, html, err := RenderMovieAvailable("Dune", "http://localhost:3001/movies/dune")
	require.NoError(t, err)

	assert.Equal(t, "🎬 Filme disponível: Dune", subject)
	assert.Contains(t, html, `O filme "Dune"`)
	assert.Contains(t, html, `href="http://localhost:3001/movies/dune"`)
}

func TestRenderMovieAvailable_EscapesTitle(t *testing.T) {
	_, html, err := RenderMovieAvailable(`<script>alert(1)</script>`, "javascript:alert(1)")
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.NotContains(t, html, `href="javascript:`)
}

// recordingMailer captures the last message.
type recordingMailer struct {
	to, subject, html string
	err               error
}

func (m *recordingMailer) SendHTML(_ context.Context, to, subject, html string) error {
	m.to, m.subject, m.html = to, subject, html
	return m.err
}

func TestEmailNotifier_Send(t *testing.T) {
	mailer := &recordingMailer{}
	n := NewEmailNotifier(mailer)

	require.NoError(t, n.Send(context.Background(), "ana@example.com", "Dune", "http://x/movies/dune"))
	assert.Equal(t, "ana@example.com", mailer.to)
	assert.Equal(t, "🎬 Filme disponível: Dune", mailer.subject)
	assert.Contains(t, mailer.html, "http://x/movies/dune")

	mailer.err = errors.New("rejected")
	err := n.Send(context.Background(), "ana@example.com", "Dune", "http://x/movies/dune")
	assert.ErrorIs(t, err, mailer.err)
}

// fakeResend stands in for the Resend emails service.
type fakeResend struct {
	req *resend.SendEmailRequest
	err error
}

func (f *fakeResend) SendWithContext(_ context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	f.req = params
	if f.err != nil {
		return nil, f.err
	}
	return &resend.SendEmailResponse{Id: "email-1"}, nil
}

func TestResendMailer_SendHTML(t *testing.T) {
	fake := &fakeResend{}
	m := &ResendMailer{emails: fake, from: "Filmes <noreply@example.com>"}

	require.NoError(t, m.SendHTML(context.Background(), "ana@example.com", "Olá", "<p>oi</p>"))
	require.NotNil(t, fake.req)
	assert.Equal(t, "Filmes <noreply@example.com>", fake.req.From)
	assert.Equal(t, []string{"ana@example.com"}, fake.req.To)
	assert.Equal(t, "Olá", fake.req.Subject)
	assert.Equal(t, "<p>oi</p>", fake.req.Html)

	fake.err = errors.New("422 validation_error")
	err := m.SendHTML(context.Background(), "ana@example.com", "Olá", "<p>oi</p>")
	assert.ErrorIs(t, err, fake.err)
	assert.Contains(t, err.Error(), "resend:")
}

// fakeDialer stands in for *gomail.Dialer.
type fakeDialer struct {
	sent  []*gomail.Message
	err   error
	block chan struct{}
}

func (d *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	if d.block != nil {
		<-d.block
	}
	d.sent = append(d.sent, m...)
	return d.err
}

func TestSMTPMailer_SendHTML(t *testing.T) {
	dialer := &fakeDialer{}
	m := &SMTPMailer{dialer: dialer, from: "noreply@example.com"}

	require.NoError(t, m.SendHTML(context.Background(), "ana@example.com", "Olá", "<p>oi</p>"))
	require.Len(t, dialer.sent, 1)
	msg := dialer.sent[0]
	assert.Equal(t, []string{"noreply@example.com"}, msg.GetHeader("From"))
	assert.Equal(t, []string{"ana@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{mime.QEncoding.Encode("UTF-8", "Olá")}, msg.GetHeader("Subject"))
}

func TestSMTPMailer_Error(t *testing.T) {
	dialer := &fakeDialer{err: errors.New("535 authentication failed")}
	m := &SMTPMailer{dialer: dialer, from: "noreply@example.com"}

	err := m.SendHTML(context.Background(), "ana@example.com", "Olá", "<p>oi</p>")
	assert.ErrorIs(t, err, dialer.err)
}

func TestSMTPMailer_RespectsContext(t *testing.T) {
	dialer := &fakeDialer{block: make(chan struct{})}
	defer close(dialer.block)
	m := &SMTPMailer{dialer: dialer, from: "noreply@example.com"}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := m.SendHTML(ctx, "ana@example.com", "Olá", "<p>oi</p>")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

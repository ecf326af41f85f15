package notification

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/rs/zerolog"

	"movie-catalog-backend/internal/model"
)

// PushSender defines the interface for sending a web push notification.
type PushSender interface {
	Send(ctx context.Context, payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is the real PushSender backed by the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (WebPushSender) Send(ctx context.Context, payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotificationWithContext(ctx, payload, sub, options)
}

// PushDevices is the device storage the push announcer needs.
type PushDevices interface {
	ListPushDevices(ctx context.Context, userID string) ([]model.PushDevice, error)
	DeletePushDeviceByEndpoint(ctx context.Context, endpoint string) error
}

// PushNotifier mirrors a delivered release email to the user's browsers.
// It is best effort: failures are logged and never reach the caller.
type PushNotifier struct {
	devices PushDevices
	options *webpush.Options
	sender  PushSender
	log     zerolog.Logger
}

// NewPushNotifier creates a push announcer using the real webpush sender.
func NewPushNotifier(devices PushDevices, options *webpush.Options, log zerolog.Logger) *PushNotifier {
	return &PushNotifier{
		devices: devices,
		options: options,
		sender:  WebPushSender{},
		log:     log.With().Str("component", "push").Logger(),
	}
}

type pushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
}

// Announce pushes the release message to every device of the user.
func (p *PushNotifier) Announce(ctx context.Context, userID, movieTitle, watchURL string) {
	devices, err := p.devices.ListPushDevices(ctx, userID)
	if err != nil {
		p.log.Error().Err(err).Str("user_id", userID).Msg("failed to fetch push devices")
		return
	}
	if len(devices) == 0 {
		return
	}

	payload, err := json.Marshal(pushPayload{
		Title: "Filme disponível",
		Body:  movieTitle + " já está disponível!",
		URL:   watchURL,
	})
	if err != nil {
		p.log.Error().Err(err).Msg("failed to encode push payload")
		return
	}

	p.log.Debug().Str("user_id", userID).Int("devices", len(devices)).Msg("sending push notifications")
	for _, device := range devices {
		p.sendOne(ctx, device, payload)
	}
}

// sendOne sends a single web push notification and forgets devices the push
// service reports as gone.
func (p *PushNotifier) sendOne(ctx context.Context, device model.PushDevice, payload []byte) {
	sub := &webpush.Subscription{
		Endpoint: device.Endpoint,
		Keys: webpush.Keys{
			P256dh: device.P256DH,
			Auth:   device.Auth,
		},
	}

	resp, err := p.sender.Send(ctx, payload, sub, p.options)
	if err != nil {
		p.log.Warn().Err(err).Str("endpoint", device.Endpoint).Msg("error sending push notification")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		p.log.Info().Str("endpoint", device.Endpoint).Msg("push device expired, deleting")
		if err := p.devices.DeletePushDeviceByEndpoint(ctx, device.Endpoint); err != nil {
			p.log.Error().Err(err).Str("endpoint", device.Endpoint).Msg("failed to delete expired push device")
		}
	}
}

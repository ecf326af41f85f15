package app

import (
	"context"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"movie-catalog-backend/config"
	"movie-catalog-backend/internal/calendar"
	"movie-catalog-backend/internal/notification"
	"movie-catalog-backend/internal/store"
)

// NotificationModule wires email, push, subscriptions and the release
// scheduler.
var NotificationModule = fx.Module(
	"notification",
	fx.Provide(
		newNotificationMetrics,
		newMailer,
		newNotifier,
		newWebpushOptions,
		newSubscriptionService,
		newReleaseScheduler,
	),
	fx.Invoke(runReleaseScheduler),
)

func newNotificationMetrics(reg *prometheus.Registry) *notification.Metrics {
	return notification.NewMetrics(reg)
}

func newMailer(cfg *config.Config) notification.Mailer {
	email := cfg.Email
	if email.Provider == "smtp" {
		return notification.NewSMTPMailer(email.SMTP.Host, email.SMTP.Port, email.SMTP.Username, email.SMTP.Password, email.From)
	}
	return notification.NewResendMailer(email.ResendAPIKey, email.From)
}

func newNotifier(mailer notification.Mailer) notification.Notifier {
	return notification.NewEmailNotifier(mailer)
}

// newWebpushOptions returns nil when push is disabled.
func newWebpushOptions(cfg *config.Config) *webpush.Options {
	if !cfg.Push.Enabled {
		return nil
	}
	return &webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
		HTTPClient:      &http.Client{Timeout: cfg.Scheduler.SendTimeout},
	}
}

func newSubscriptionService(s store.Store, metrics *notification.Metrics, log zerolog.Logger) *notification.SubscriptionService {
	return notification.NewSubscriptionService(s, s, log, metrics)
}

func newReleaseScheduler(
	cfg *config.Config,
	s store.Store,
	notifier notification.Notifier,
	push *webpush.Options,
	clock calendar.Clock,
	metrics *notification.Metrics,
	log zerolog.Logger,
) *notification.ReleaseScheduler {
	opts := []notification.Option{notification.WithMetrics(metrics)}
	if push != nil {
		opts = append(opts, notification.WithAnnouncer(notification.NewPushNotifier(s, push, log)))
	}
	return notification.NewReleaseScheduler(cfg.Scheduler, s, s, notifier, clock, log, opts...)
}

func runReleaseScheduler(lc fx.Lifecycle, scheduler *notification.ReleaseScheduler) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			// The start context ends once startup completes; the loop must outlive it.
			return scheduler.Start(context.Background())
		},
		OnStop: func(context.Context) error {
			scheduler.Stop()
			return nil
		},
	})
}

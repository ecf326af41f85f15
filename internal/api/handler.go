package api

import (
	"github.com/SherClockHolmes/webpush-go"
	"github.com/rs/zerolog"

	"movie-catalog-backend/internal/calendar"
	"movie-catalog-backend/internal/catalog"
	"movie-catalog-backend/internal/notification"
	"movie-catalog-backend/internal/store"
)

// Deps lists everything the handlers need.
type Deps struct {
	Store          store.Store
	Users          *catalog.UserService
	Movies         *catalog.MovieService
	Files          *catalog.FileService
	Subscriptions  *notification.SubscriptionService
	Notifier       notification.Notifier
	Webpush        *webpush.Options
	Clock          calendar.Clock
	MaxUploadBytes int64
	Log            zerolog.Logger
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store          store.Store
	users          *catalog.UserService
	movies         *catalog.MovieService
	files          *catalog.FileService
	subscriptions  *notification.SubscriptionService
	notifier       notification.Notifier
	webpush        *webpush.Options
	clock          calendar.Clock
	maxUploadBytes int64
	log            zerolog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(d Deps) *Handler {
	clock := d.Clock
	if clock == nil {
		clock = calendar.SystemClock{}
	}
	return &Handler{
		store:          d.Store,
		users:          d.Users,
		movies:         d.Movies,
		files:          d.Files,
		subscriptions:  d.Subscriptions,
		notifier:       d.Notifier,
		webpush:        d.Webpush,
		clock:          clock,
		maxUploadBytes: d.MaxUploadBytes,
		log:            d.Log.With().Str("component", "api").Logger(),
	}
}

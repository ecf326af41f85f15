package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

var (
	// ErrMovieNotFound is returned when the subscription targets an unknown movie.
	ErrMovieNotFound = errors.New("movie not found")
	// ErrUserNotFound is returned when the subscriber does not exist.
	ErrUserNotFound = errors.New("user not found")
)

// SubscriptionRepository is the write side of the subscription store.
type SubscriptionRepository interface {
	UpsertSubscription(ctx context.Context, userID, movieID string) error
	DeleteSubscription(ctx context.Context, userID, movieID string) error
	IsSubscribed(ctx context.Context, userID, movieID string) (bool, error)
}

// References checks that users and movies exist.
type References interface {
	UserExists(ctx context.Context, id string) (bool, error)
	MovieExists(ctx context.Context, id string) (bool, error)
}

// SubscriptionService is the user-facing subscribe/unsubscribe API.
type SubscriptionService struct {
	subs    SubscriptionRepository
	refs    References
	log     zerolog.Logger
	metrics *Metrics
}

// NewSubscriptionService creates the service. A nil metrics registers
// private collectors.
func NewSubscriptionService(subs SubscriptionRepository, refs References, log zerolog.Logger, metrics *Metrics) *SubscriptionService {
	if metrics == nil {
		metrics = NewMetrics(prometheus.NewRegistry())
	}
	return &SubscriptionService{
		subs:    subs,
		refs:    refs,
		log:     log.With().Str("component", "subscriptions").Logger(),
		metrics: metrics,
	}
}

func (s *SubscriptionService) checkRefs(ctx context.Context, userID, movieID string) error {
	ok, err := s.refs.MovieExists(ctx, movieID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrMovieNotFound
	}

	ok, err = s.refs.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}

// Subscribe records that the user wants the release email. Subscribing again
// after a notification re-arms it.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID, movieID string) error {
	if err := s.checkRefs(ctx, userID, movieID); err != nil {
		return err
	}
	if err := s.subs.UpsertSubscription(ctx, userID, movieID); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	s.metrics.SubscriptionsTotal.WithLabelValues("subscribe").Inc()
	s.log.Info().Str("user_id", userID).Str("movie_id", movieID).Msg("subscribed to release")
	return nil
}

// Unsubscribe removes the subscription. It succeeds when none exists.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, userID, movieID string) error {
	if err := s.checkRefs(ctx, userID, movieID); err != nil {
		return err
	}
	if err := s.subs.DeleteSubscription(ctx, userID, movieID); err != nil {
		return fmt.Errorf("unsubscribe: %w", err)
	}

	s.metrics.SubscriptionsTotal.WithLabelValues("unsubscribe").Inc()
	s.log.Info().Str("user_id", userID).Str("movie_id", movieID).Msg("unsubscribed from release")
	return nil
}

// Status reports whether the user is subscribed, notified or not.
func (s *SubscriptionService) Status(ctx context.Context, userID, movieID string) (bool, error) {
	if err := s.checkRefs(ctx, userID, movieID); err != nil {
		return false, err
	}
	ok, err := s.subs.IsSubscribed(ctx, userID, movieID)
	if err != nil {
		return false, fmt.Errorf("subscription status: %w", err)
	}
	return ok, nil
}

// AutoSubscribe subscribes the creator of a movie with a future release
// date. The movie was just created, so no reference checks are made.
func (s *SubscriptionService) AutoSubscribe(ctx context.Context, userID, movieID string) error {
	if err := s.subs.UpsertSubscription(ctx, userID, movieID); err != nil {
		return fmt.Errorf("auto-subscribe: %w", err)
	}
	s.metrics.SubscriptionsTotal.WithLabelValues("auto_subscribe").Inc()
	return nil
}

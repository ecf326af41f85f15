package notification

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"movie-catalog-backend/config"
	"movie-catalog-backend/internal/calendar"
	"movie-catalog-backend/internal/model"
	"movie-catalog-backend/internal/store"
)

// ErrRunInProgress is returned by RunOnce while another run is active.
var ErrRunInProgress = errors.New("release run already in progress")

const defaultSendTimeout = 15 * time.Second

// PendingSource lists subscriptions still waiting for their email and
// records confirmed deliveries.
type PendingSource interface {
	FindPendingByMovie(ctx context.Context, movieID string) ([]store.PendingSubscription, error)
	MarkNotified(ctx context.Context, subscriptionID string) error
}

// MovieDirectory finds the movies released in a time window.
type MovieDirectory interface {
	FindReleasedOn(ctx context.Context, dayStart, dayEnd time.Time) ([]model.Movie, error)
}

// Announcer is an optional secondary channel told about confirmed
// deliveries. It cannot fail the delivery and gets the send timeout as its
// deadline.
type Announcer interface {
	Announce(ctx context.Context, userID, movieTitle, watchURL string)
}

// Outcome classifies what happened to one pending subscription in a run.
type Outcome string

const (
	// OutcomeDelivered means the email was accepted and the subscription marked.
	OutcomeDelivered Outcome = "delivered"
	// OutcomeSendFailed means the transport failed or timed out; the
	// subscription stays pending.
	OutcomeSendFailed Outcome = "send_failed"
	// OutcomeMarkFailed means the email went out but the subscription could
	// not be marked, so delivery is not confirmed and it stays pending.
	OutcomeMarkFailed Outcome = "mark_failed"
)

// DeliveryResult is the outcome for one subscription.
type DeliveryResult struct {
	SubscriptionID string
	UserID         string
	MovieID        string
	Email          string
	Outcome        Outcome
	Err            error
}

// RunReport summarises one RunOnce call.
type RunReport struct {
	Day     time.Time
	Movies  int
	Results []DeliveryResult
}

// Count returns how many results have the outcome.
func (r RunReport) Count(o Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}

// Option customises a ReleaseScheduler.
type Option func(*ReleaseScheduler)

// WithAnnouncer adds a secondary channel for confirmed deliveries.
func WithAnnouncer(a Announcer) Option {
	return func(s *ReleaseScheduler) { s.announcer = a }
}

// WithMetrics records runs and deliveries in m.
func WithMetrics(m *Metrics) Option {
	return func(s *ReleaseScheduler) { s.metrics = m }
}

// ReleaseScheduler emails subscribers once a movie's release day arrives.
// Each subscription is notified at most once: it is marked only after the
// notifier accepted the message, and a failed send leaves it pending for the
// next run.
type ReleaseScheduler struct {
	cfg       config.SchedulerConfig
	pending   PendingSource
	movies    MovieDirectory
	notifier  Notifier
	announcer Announcer
	clock     calendar.Clock
	log       zerolog.Logger
	metrics   *Metrics

	running atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewReleaseScheduler wires a scheduler. Concurrency below one is treated
// as sequential delivery and a missing send timeout uses the default.
func NewReleaseScheduler(
	cfg config.SchedulerConfig,
	pending PendingSource,
	movies MovieDirectory,
	notifier Notifier,
	clock calendar.Clock,
	log zerolog.Logger,
	opts ...Option,
) *ReleaseScheduler {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = defaultSendTimeout
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}

	s := &ReleaseScheduler{
		cfg:      cfg,
		pending:  pending,
		movies:   movies,
		notifier: notifier,
		clock:    clock,
		log:      log.With().Str("component", "release-scheduler").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(prometheus.NewRegistry())
	}
	return s
}

// Start runs one pass immediately and then one per configured interval
// until Stop is called or ctx is cancelled.
func (s *ReleaseScheduler) Start(ctx context.Context) error {
	if !s.cfg.Enabled {
		s.log.Info().Msg("release scheduler is disabled, not starting")
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return errors.New("release scheduler already started")
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	s.log.Info().Dur("interval", s.cfg.Interval).Int("concurrency", s.cfg.Concurrency).Msg("starting release scheduler")
	go s.loop(loopCtx, s.done)
	return nil
}

// Stop cancels the loop and waits for an in-flight run to return.
func (s *ReleaseScheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	s.log.Info().Msg("release scheduler stopped")
}

func (s *ReleaseScheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	s.runAndLog(ctx)

	timer := time.NewTimer(s.cfg.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			s.runAndLog(ctx)
			timer.Reset(s.cfg.Interval)
		}
	}
}

func (s *ReleaseScheduler) runAndLog(ctx context.Context) {
	report, err := s.RunOnce(ctx)
	switch {
	case errors.Is(err, ErrRunInProgress):
		s.log.Debug().Msg("previous release run still active, skipping")
	case err != nil:
		s.log.Error().Err(err).Msg("release run aborted")
	case len(report.Results) > 0:
		s.log.Info().
			Time("day", report.Day).
			Int("movies", report.Movies).
			Int("delivered", report.Count(OutcomeDelivered)).
			Int("send_failed", report.Count(OutcomeSendFailed)).
			Int("mark_failed", report.Count(OutcomeMarkFailed)).
			Msg("release run finished")
	default:
		s.log.Debug().Time("day", report.Day).Int("movies", report.Movies).Msg("nothing to notify")
	}
}

// RunOnce performs a single pass over today's releases. A failure to list
// movies or pending subscriptions aborts the pass and is returned; delivery
// failures are only reported in the RunReport.
func (s *ReleaseScheduler) RunOnce(ctx context.Context) (RunReport, error) {
	if !s.running.CompareAndSwap(false, true) {
		s.metrics.RunsTotal.WithLabelValues("skipped").Inc()
		return RunReport{}, ErrRunInProgress
	}
	defer s.running.Store(false)

	started := time.Now()
	defer func() { s.metrics.RunDuration.Observe(time.Since(started).Seconds()) }()

	dayStart, dayEnd := calendar.DayWindow(s.clock.Now())
	report := RunReport{Day: dayStart}

	movies, err := s.movies.FindReleasedOn(ctx, dayStart, dayEnd)
	if err != nil {
		s.metrics.RunsTotal.WithLabelValues("error").Inc()
		return report, fmt.Errorf("failed to list movies released on %s: %w", dayStart.Format(time.DateOnly), err)
	}
	report.Movies = len(movies)

	for _, movie := range movies {
		subs, err := s.pending.FindPendingByMovie(ctx, movie.ID)
		if err != nil {
			s.metrics.RunsTotal.WithLabelValues("error").Inc()
			return report, fmt.Errorf("failed to list pending subscriptions of movie %s: %w", movie.ID, err)
		}
		if len(subs) == 0 {
			continue
		}

		s.log.Info().Str("movie_id", movie.ID).Str("title", movie.Title).Int("pending", len(subs)).Msg("notifying subscribers")
		report.Results = append(report.Results, s.deliverMovie(ctx, movie, subs)...)
	}

	s.metrics.RunsTotal.WithLabelValues("ok").Inc()
	return report, nil
}

// deliverMovie sends the release email to every pending subscriber of one
// movie, at most cfg.Concurrency at a time. Results keep the input order.
func (s *ReleaseScheduler) deliverMovie(ctx context.Context, movie model.Movie, subs []store.PendingSubscription) []DeliveryResult {
	results := make([]DeliveryResult, len(subs))

	watchURL, err := url.JoinPath(s.cfg.WatchURLBase, "movies", movie.Slug)
	if err != nil {
		err = fmt.Errorf("failed to build watch url for %q: %w", movie.Slug, err)
		for i, sub := range subs {
			results[i] = s.result(sub, OutcomeSendFailed, err)
		}
		return results
	}

	var g errgroup.Group
	g.SetLimit(s.cfg.Concurrency)
	for i, sub := range subs {
		i, sub := i, sub
		g.Go(func() error {
			results[i] = s.deliver(ctx, movie, sub, watchURL)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// deliver handles one subscription: send, then mark.
func (s *ReleaseScheduler) deliver(ctx context.Context, movie model.Movie, sub store.PendingSubscription, watchURL string) DeliveryResult {
	log := s.log.With().Str("subscription_id", sub.ID).Str("movie_id", movie.ID).Logger()

	if err := ctx.Err(); err != nil {
		return s.result(sub, OutcomeSendFailed, err)
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.cfg.SendTimeout)
	err := s.notifier.Send(sendCtx, sub.Email, movie.Title, watchURL)
	cancel()
	if err != nil {
		log.Warn().Err(err).Msg("release email failed, subscription stays pending")
		return s.result(sub, OutcomeSendFailed, err)
	}

	if err := s.pending.MarkNotified(ctx, sub.ID); err != nil {
		log.Error().Err(err).Msg("release email sent but delivery not confirmed")
		return s.result(sub, OutcomeMarkFailed, err)
	}

	if s.announcer != nil {
		announceCtx, cancel := context.WithTimeout(ctx, s.cfg.SendTimeout)
		s.announcer.Announce(announceCtx, sub.UserID, movie.Title, watchURL)
		cancel()
	}
	return s.result(sub, OutcomeDelivered, nil)
}

func (s *ReleaseScheduler) result(sub store.PendingSubscription, outcome Outcome, err error) DeliveryResult {
	s.metrics.DeliveriesTotal.WithLabelValues(string(outcome)).Inc()
	return DeliveryResult{
		SubscriptionID: sub.ID,
		UserID:         sub.UserID,
		MovieID:        sub.MovieID,
		Email:          sub.Email,
		Outcome:        outcome,
		Err:            err,
	}
}

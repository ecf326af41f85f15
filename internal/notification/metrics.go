package notification

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of the release notifications.
type Metrics struct {
	RunsTotal          *prometheus.CounterVec
	RunDuration        prometheus.Histogram
	DeliveriesTotal    *prometheus.CounterVec
	SubscriptionsTotal *prometheus.CounterVec
}

// NewMetrics registers the collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "movie_catalog_release_runs_total",
			Help: "Release notification runs by result",
		}, []string{"result"}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "movie_catalog_release_run_duration_seconds",
			Help:    "Duration of release notification runs",
			Buckets: prometheus.DefBuckets,
		}),
		DeliveriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "movie_catalog_release_deliveries_total",
			Help: "Release notification deliveries by outcome",
		}, []string{"outcome"}),
		SubscriptionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "movie_catalog_subscription_operations_total",
			Help: "Subscription API operations by kind",
		}, []string{"operation"}),
	}
}

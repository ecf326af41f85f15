// Package app assembles the catalog service with fx.
package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"movie-catalog-backend/config"
	"movie-catalog-backend/internal/calendar"
	"movie-catalog-backend/internal/logger"
)

// ConfigPath is the location of the YAML configuration file.
type ConfigPath string

// CreateApp returns the full application graph.
func CreateApp(path ConfigPath) fx.Option {
	return fx.Options(
		fx.Supply(path),
		fx.Provide(
			loadConfig,
			newLogger,
			newRegistry,
			newClock,
		),

		DatabaseModule,
		NotificationModule,
		CatalogModule,
		HTTPModule,
	)
}

func loadConfig(path ConfigPath) (*config.Config, error) {
	return config.Load(string(path))
}

func newLogger(cfg *config.Config) zerolog.Logger {
	return logger.New(cfg.Logging.Level, cfg.Logging.Pretty)
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func newClock() calendar.Clock {
	return calendar.SystemClock{}
}

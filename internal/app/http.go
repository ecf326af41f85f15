package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"movie-catalog-backend/config"
	"movie-catalog-backend/internal/api"
	"movie-catalog-backend/internal/auth"
	"movie-catalog-backend/internal/calendar"
	"movie-catalog-backend/internal/catalog"
	"movie-catalog-backend/internal/notification"
	"movie-catalog-backend/internal/store"
)

// HTTPModule serves the REST API.
var HTTPModule = fx.Module(
	"http",
	fx.Provide(
		newHandler,
		newRouter,
		newHTTPServer,
	),
	fx.Invoke(runHTTPServer),
)

type handlerParams struct {
	fx.In

	Config        *config.Config
	Store         store.Store
	Users         *catalog.UserService
	Movies        *catalog.MovieService
	Files         *catalog.FileService
	Subscriptions *notification.SubscriptionService
	Notifier      notification.Notifier
	Webpush       *webpush.Options
	Clock         calendar.Clock
	Log           zerolog.Logger
}

func newHandler(p handlerParams) *api.Handler {
	return api.NewHandler(api.Deps{
		Store:          p.Store,
		Users:          p.Users,
		Movies:         p.Movies,
		Files:          p.Files,
		Subscriptions:  p.Subscriptions,
		Notifier:       p.Notifier,
		Webpush:        p.Webpush,
		Clock:          p.Clock,
		MaxUploadBytes: maxUploadBytes(p.Config),
		Log:            p.Log,
	})
}

func newRouter(cfg *config.Config, handler *api.Handler, tokens auth.TokenManager, reg *prometheus.Registry, log zerolog.Logger) *gin.Engine {
	if !cfg.Logging.Pretty {
		gin.SetMode(gin.ReleaseMode)
	}
	return api.NewRouter(handler, api.RouterConfig{
		Server:   cfg.Server,
		Tokens:   tokens,
		Registry: reg,
		Log:      log,
	})
}

func newHTTPServer(cfg *config.Config, router *gin.Engine) *http.Server {
	return &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}
}

func runHTTPServer(lc fx.Lifecycle, shutdowner fx.Shutdowner, cfg *config.Config, server *http.Server, log zerolog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			lis, err := net.Listen("tcp", server.Addr)
			if err != nil {
				log.Error().Err(err).Str("addr", server.Addr).Msg("failed to listen")
				return err
			}

			go func() {
				log.Info().Int("port", cfg.Server.Port).Msg("HTTP server starting")
				if err := server.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error().Err(err).Msg("HTTP server failed")
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
			defer cancel()

			log.Info().Msg("shutting down HTTP server")
			return server.Shutdown(ctx)
		},
	})
}

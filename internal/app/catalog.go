package app

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"movie-catalog-backend/config"
	"movie-catalog-backend/internal/auth"
	"movie-catalog-backend/internal/calendar"
	"movie-catalog-backend/internal/catalog"
	"movie-catalog-backend/internal/notification"
	"movie-catalog-backend/internal/storage"
	"movie-catalog-backend/internal/store"
)

// CatalogModule provides the user, movie and upload services.
var CatalogModule = fx.Module(
	"catalog",
	fx.Provide(
		newTokenManager,
		newUserService,
		newMovieService,
		newFileService,
	),
)

func newTokenManager(cfg *config.Config) (auth.TokenManager, error) {
	return auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
}

func newUserService(s store.Store, tokens auth.TokenManager, log zerolog.Logger) *catalog.UserService {
	return catalog.NewUserService(s, tokens, log)
}

func newMovieService(s store.Store, subscriptions *notification.SubscriptionService, clock calendar.Clock, log zerolog.Logger) *catalog.MovieService {
	return catalog.NewMovieService(s, subscriptions, clock, log)
}

func newFileService(cfg *config.Config, s store.Store, log zerolog.Logger) (*catalog.FileService, error) {
	blobs, err := storage.NewLocalStorage(cfg.Storage.UploadDir, maxUploadBytes(cfg))
	if err != nil {
		return nil, err
	}
	return catalog.NewFileService(s, blobs, log), nil
}

func maxUploadBytes(cfg *config.Config) int64 {
	return int64(cfg.Storage.MaxUploadMB) << 20
}

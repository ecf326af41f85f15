package app

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"movie-catalog-backend/config"
	"movie-catalog-backend/internal/db"
	"movie-catalog-backend/internal/store"
)

// DatabaseModule opens the database and exposes the store.
var DatabaseModule = fx.Module(
	"database",
	fx.Provide(
		newDatabase,
		store.NewGormStore,
	),
)

func newDatabase(lc fx.Lifecycle, cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	gdb, err := db.Init(&cfg.Database, log)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("closing database connection")
			return db.Close(gdb)
		},
	})
	return gdb, nil
}

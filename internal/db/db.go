package db

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"movie-catalog-backend/config"
	"movie-catalog-backend/internal/model"
)

// DefaultGenres are inserted on startup when seeding is enabled.
var DefaultGenres = []string{
	"Ação",
	"Drama",
	"Comédia",
	"Ficção Científica",
	"Aventura",
	"Crime",
	"Suspense",
	"Animação",
}

// Init opens the database, runs migrations and seeds the genre table.
func Init(cfg *config.DatabaseConfig, log zerolog.Logger) (*gorm.DB, error) {
	db, err := Open(cfg, log)
	if err != nil {
		return nil, err
	}

	log.Info().Str("driver", cfg.Driver).Msg("running database migrations")
	if err := Migrate(db); err != nil {
		return nil, err
	}

	if cfg.Seed {
		if err := SeedGenres(context.Background(), db); err != nil {
			return nil, err
		}
		log.Info().Int("genres", len(DefaultGenres)).Msg("genre seed applied")
	}

	log.Info().Msg("database initialization complete")
	return db, nil
}

// Open connects to the configured driver without touching the schema.
func Open(cfg *config.DatabaseConfig, log zerolog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  newGormLogger(log),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetimeMinutes > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	}

	return db, nil
}

// Migrate creates or updates every table the service uses.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Genre{},
		&model.File{},
		&model.Movie{},
		&model.MovieSubscription{},
		&model.PushDevice{},
	); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}
	return nil
}

// SeedGenres inserts DefaultGenres, leaving existing names untouched.
func SeedGenres(ctx context.Context, db *gorm.DB) error {
	genres := make([]model.Genre, 0, len(DefaultGenres))
	for _, name := range DefaultGenres {
		genres = append(genres, model.Genre{Name: name})
	}

	if err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&genres).Error; err != nil {
		return fmt.Errorf("failed to seed genres: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.Close()
}

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"movie-catalog-backend/internal/model"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// SubscriptionStore persists per-user, per-movie release subscriptions.
type SubscriptionStore interface {
	UpsertSubscription(ctx context.Context, userID, movieID string) error
	DeleteSubscription(ctx context.Context, userID, movieID string) error
	FindPendingByMovie(ctx context.Context, movieID string) ([]PendingSubscription, error)
	MarkNotified(ctx context.Context, subscriptionID string) error
	IsSubscribed(ctx context.Context, userID, movieID string) (bool, error)
}

// MovieStore persists movies and their genre links.
type MovieStore interface {
	CreateMovie(ctx context.Context, movie *model.Movie, genreIDs []string) error
	GetMovieByID(ctx context.Context, id string) (*model.Movie, error)
	GetMovieBySlug(ctx context.Context, slug string) (*model.Movie, error)
	MovieExists(ctx context.Context, id string) (bool, error)
	ListMovies(ctx context.Context, filter MovieFilter, page Page) ([]model.Movie, int64, error)
	UpdateMovie(ctx context.Context, id string, changes MovieChanges) error
	DeleteMovie(ctx context.Context, id string) error
	AddGenres(ctx context.Context, movieID string, genreIDs []string) error
	RemoveGenre(ctx context.Context, movieID, genreID string) error
	HasGenre(ctx context.Context, movieID, genreID string) (bool, error)
	FindReleasedOn(ctx context.Context, dayStart, dayEnd time.Time) ([]model.Movie, error)
}

// GenreStore reads the genre table.
type GenreStore interface {
	ListGenres(ctx context.Context) ([]model.Genre, error)
	CountGenres(ctx context.Context, ids []string) (int64, error)
}

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UserExists(ctx context.Context, id string) (bool, error)
}

// FileStore persists metadata of uploaded files.
type FileStore interface {
	CreateFile(ctx context.Context, file *model.File) error
	FileExists(ctx context.Context, id string) (bool, error)
}

// PushDeviceStore persists browser push endpoints.
type PushDeviceStore interface {
	UpsertPushDevice(ctx context.Context, device *model.PushDevice) error
	DeletePushDevice(ctx context.Context, userID, endpoint string) error
	DeletePushDeviceByEndpoint(ctx context.Context, endpoint string) error
	ListPushDevices(ctx context.Context, userID string) ([]model.PushDevice, error)
}

// Store defines the interface for all database operations.
type Store interface {
	SubscriptionStore
	MovieStore
	GenreStore
	UserStore
	FileStore
	PushDeviceStore
	Ping(ctx context.Context) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// Ping checks that the database answers.
func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// exists reports whether any row of the model matches the query.
func (s *gormStore) exists(ctx context.Context, value interface{}, query string, args ...interface{}) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(value).Where(query, args...).Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// notFound maps gorm's missing-row error onto ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Package dbtest opens throwaway SQLite databases with the full schema for
// tests.
package dbtest

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"movie-catalog-backend/internal/db"
	"movie-catalog-backend/internal/model"
)

// New returns a migrated in-memory database private to the test.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// One connection keeps the shared-cache database free of table locks.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))
	return gdb
}

// CreateUser inserts a user with the given email.
func CreateUser(t testing.TB, gdb *gorm.DB, email string) *model.User {
	t.Helper()
	user := &model.User{Name: email, Email: email, PasswordHash: "x"}
	require.NoError(t, gdb.Create(user).Error)
	return user
}

// CreateMovie inserts a movie owned by ownerID, released on release.
func CreateMovie(t testing.TB, gdb *gorm.DB, ownerID, title, slug string, release time.Time) *model.Movie {
	t.Helper()
	movie := &model.Movie{
		Title:         title,
		Slug:          slug,
		OriginalTitle: title,
		Description:   title,
		ReleaseDate:   release.UTC(),
		Duration:      120,
		Status:        model.StatusPlanned,
		Language:      model.LanguageEN,
		UserID:        ownerID,
	}
	require.NoError(t, gdb.Create(movie).Error)
	return movie
}

// CreateGenre inserts a genre.
func CreateGenre(t testing.TB, gdb *gorm.DB, name string) *model.Genre {
	t.Helper()
	genre := &model.Genre{Name: name}
	require.NoError(t, gdb.Create(genre).Error)
	return genre
}

// Day returns UTC midnight of the given date.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

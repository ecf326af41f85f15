package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// A helper function to create a mock database connection.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestGormStore_MarkNotified(t *testing.T) {
	testCases := []struct {
		name             string
		mockExpectations func(mock sqlmock.Sqlmock)
		expectedErr      bool
	}{
		{
			name: "Sets the flag on exactly one row",
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(`UPDATE "movie_subscriptions" SET "notified"=$1,"updated_at"=$2 WHERE id = $3`)).
					WithArgs(true, Any{}, "sub-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "Database failure is reported",
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(`UPDATE "movie_subscriptions"`)).
					WithArgs(true, Any{}, "sub-1").
					WillReturnError(errors.New("connection reset"))
				mock.ExpectRollback()
			},
			expectedErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gormDB, mock := newTestDB(t)
			store := NewGormStore(gormDB)

			tc.mockExpectations(mock)

			err := store.MarkNotified(context.Background(), "sub-1")
			if tc.expectedErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGormStore_DeleteSubscription(t *testing.T) {
	gormDB, mock := newTestDB(t)
	store := NewGormStore(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "movie_subscriptions" WHERE user_id = $1 AND movie_id = $2`)).
		WithArgs("user-1", "movie-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	// Deleting a subscription that does not exist is not an error.
	assert.NoError(t, store.DeleteSubscription(context.Background(), "user-1", "movie-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_FindReleasedOn_Query(t *testing.T) {
	gormDB, mock := newTestDB(t)
	store := NewGormStore(gormDB)

	start := time.Date(2024, 3, 21, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "movies" WHERE release_date >= $1 AND release_date < $2 ORDER BY release_date, id`)).
		WithArgs(start, end).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "slug", "release_date"}).
			AddRow("movie-1", "Interstellar", "interstellar", start))

	movies, err := store.FindReleasedOn(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "interstellar", movies[0].Slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_Ping(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	// gorm pings once while opening.
	mock.ExpectPing()
	mock.ExpectPing()

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)

	assert.NoError(t, NewGormStore(gormDB).Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Any is a helper for sqlmock to match any argument.
type Any struct{}

// Match satisfies the sqlmock.Argument interface
func (a Any) Match(v driver.Value) bool {
	return true
}

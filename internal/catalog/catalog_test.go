package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"movie-catalog-backend/internal/calendar"
	"movie-catalog-backend/internal/db/dbtest"
	"movie-catalog-backend/internal/store"
)

// fakeSubscriber records auto-subscriptions.
type fakeSubscriber struct {
	mu    sync.Mutex
	calls [][2]string
	err   error
}

func (f *fakeSubscriber) AutoSubscribe(_ context.Context, userID, movieID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, [2]string{userID, movieID})
	return f.err
}

var errBoom = errors.New("boom")

var testNow = time.Date(2024, 3, 21, 15, 0, 0, 0, time.UTC)

type catalogFixture struct {
	db         *gorm.DB
	store      store.Store
	subscriber *fakeSubscriber
	movies     *MovieService
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	gdb := dbtest.New(t)
	s := store.NewGormStore(gdb)
	sub := &fakeSubscriber{}
	return &catalogFixture{
		db:         gdb,
		store:      s,
		subscriber: sub,
		movies:     NewMovieService(s, sub, calendar.FixedClock(testNow), zerolog.Nop()),
	}
}

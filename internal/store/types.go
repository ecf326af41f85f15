package store

import (
	"time"

	"movie-catalog-backend/internal/model"
)

// PendingSubscription is a subscription still waiting for its release
// email, joined with the subscriber's address.
type PendingSubscription struct {
	ID      string
	UserID  string
	MovieID string
	Email   string
}

// MovieFilter narrows a movie listing. Zero values mean "no filter".
type MovieFilter struct {
	Title            string
	Status           model.MovieStatus
	Language         model.Language
	GenreIDs         []string
	ReleaseDateStart *time.Time
	ReleaseDateEnd   *time.Time
	UserID           string
}

// Page selects a 1-based page of results.
type Page struct {
	Number  int
	PerPage int
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.PerPage
}

// TotalPages returns how many pages of PerPage rows cover total.
func (p Page) TotalPages(total int64) int {
	if p.PerPage < 1 {
		return 0
	}
	return int((total + int64(p.PerPage) - 1) / int64(p.PerPage))
}

// MovieChanges is a partial update. Fields map column names to new
// values; a nil GenreIDs leaves the links untouched while a non-nil one
// replaces them.
type MovieChanges struct {
	Fields   map[string]interface{}
	GenreIDs []string
}

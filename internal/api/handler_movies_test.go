package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-catalog-backend/internal/db/dbtest"
	"movie-catalog-backend/internal/model"
	"movie-catalog-backend/internal/mw"
)

func movieBody(title, releaseDate string, genreIDs ...string) map[string]interface{} {
	body := map[string]interface{}{
		"title":         title,
		"originalTitle": title,
		"description":   "Uma história.",
		"releaseDate":   releaseDate,
		"duration":      110,
		"status":        "PLANNED",
		"language":      "PT",
	}
	if len(genreIDs) > 0 {
		body["genresIds"] = genreIDs
	}
	return body
}

func TestCreateMovie(t *testing.T) {
	a := newTestAPI(t)
	ana := dbtest.CreateUser(t, a.db, "ana@example.com")
	drama := dbtest.CreateGenre(t, a.db, "Drama")

	w := a.do(t, http.MethodPost, "/movies", movieBody("Central do Brasil", "2024-04-03", drama.ID), a.token(t, ana.ID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var movie model.Movie
	meta := envelopeOf(t, w, &movie)
	assert.Equal(t, "central-do-brasil", movie.Slug)
	assert.Equal(t, ana.ID, movie.UserID)
	assert.Equal(t, "2024-04-03T00:00:00Z", movie.ReleaseDate.UTC().Format("2006-01-02T15:04:05Z07:00"))
	require.Len(t, movie.Genres, 1)
	assert.Equal(t, "/movies", meta["path"])

	// Released after today, so the creator is subscribed.
	subscribed, err := a.store.IsSubscribed(context.Background(), ana.ID, movie.ID)
	require.NoError(t, err)
	assert.True(t, subscribed)

	w = a.do(t, http.MethodPost, "/movies", movieBody("Central do Brasil", "2024-04-03"), a.token(t, ana.ID))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateMovie_Validation(t *testing.T) {
	a := newTestAPI(t)
	ana := dbtest.CreateUser(t, a.db, "ana@example.com")
	token := a.token(t, ana.ID)

	testCases := []struct {
		name    string
		mutate  func(body map[string]interface{})
		want    int
		wantErr string
	}{
		{"bad release date", func(b map[string]interface{}) { b["releaseDate"] = "03/04/2024" }, http.StatusBadRequest, "releaseDate must be a date in YYYY-MM-DD format"},
		{"missing title", func(b map[string]interface{}) { delete(b, "title") }, http.StatusBadRequest, "title is required"},
		{"negative duration", func(b map[string]interface{}) { b["duration"] = -1 }, http.StatusBadRequest, "duration must be at least 0"},
		{"unknown status", func(b map[string]interface{}) { b["status"] = "SHELVED" }, http.StatusBadRequest, "status must be one of: RELEASED, IN_PRODUCTION, PLANNED, CANCELLED"},
		{"unknown genre", func(b map[string]interface{}) { b["genresIds"] = []string{"nope"} }, http.StatusNotFound, "genre not found"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			body := movieBody("Bacurau", "2019-08-29")
			tc.mutate(body)
			w := a.do(t, http.MethodPost, "/movies", body, token)
			assert.Equal(t, tc.want, w.Code)
			assert.Equal(t, tc.wantErr, errorOf(t, w))
		})
	}
}

func TestListMovies(t *testing.T) {
	a := newTestAPI(t)
	ana := dbtest.CreateUser(t, a.db, "ana@example.com")
	terror := dbtest.CreateGenre(t, a.db, "Terror")
	token := a.token(t, ana.ID)

	for _, m := range []map[string]interface{}{
		movieBody("Alien", "1979-05-25", terror.ID),
		movieBody("Aliens", "1986-07-18", terror.ID),
		movieBody("Amélie", "2001-04-25"),
	} {
		require.Equal(t, http.StatusCreated, a.do(t, http.MethodPost, "/movies", m, token).Code)
	}

	w := a.do(t, http.MethodGet, "/movies?title=ALIEN&perPage=1&page=2", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var movies []model.Movie
	meta := envelopeOf(t, w, &movies)
	assert.Len(t, movies, 1)
	assert.EqualValues(t, 2, meta["total"])
	assert.EqualValues(t, 2, meta["page"])
	assert.EqualValues(t, 1, meta["perPage"])
	assert.EqualValues(t, 2, meta["totalPages"])

	w = a.do(t, http.MethodGet, "/movies?genreIds="+terror.ID+"&releaseDateStart=1980-01-01&releaseDateEnd=1986-07-18", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	envelopeOf(t, w, &movies)
	require.Len(t, movies, 1)
	assert.Equal(t, "aliens", movies[0].Slug)

	for _, query := range []string{"page=0", "perPage=-2", "page=abc"} {
		w = a.do(t, http.MethodGet, "/movies?"+query, nil, token)
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}
	w = a.do(t, http.MethodGet, "/movies?releaseDateStart=yesterday", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListMoviesByUser(t *testing.T) {
	a := newTestAPI(t)
	ana := dbtest.CreateUser(t, a.db, "ana@example.com")
	bia := dbtest.CreateUser(t, a.db, "bia@example.com")
	dbtest.CreateMovie(t, a.db, ana.ID, "Alien", "alien", dbtest.Day(1979, 5, 25))
	dbtest.CreateMovie(t, a.db, bia.ID, "Brazil", "brazil", dbtest.Day(1985, 2, 20))

	w := a.do(t, http.MethodGet, "/movies/user/"+bia.ID, nil, a.token(t, ana.ID))
	require.Equal(t, http.StatusOK, w.Code)
	var movies []model.Movie
	meta := envelopeOf(t, w, &movies)
	require.Len(t, movies, 1)
	assert.Equal(t, "brazil", movies[0].Slug)
	assert.EqualValues(t, 1, meta["total"])

	w = a.do(t, http.MethodGet, "/movies/user/unknown", nil, a.token(t, ana.ID))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "user not found", errorOf(t, w))
}

func TestGetMovieBySlug(t *testing.T) {
	a := newTestAPI(t)
	ana := dbtest.CreateUser(t, a.db, "ana@example.com")
	dbtest.CreateMovie(t, a.db, ana.ID, "Alien", "alien", dbtest.Day(1979, 5, 25))

	w := a.do(t, http.MethodGet, "/movies/alien", nil, a.token(t, ana.ID))
	require.Equal(t, http.StatusOK, w.Code)
	var movie model.Movie
	meta := envelopeOf(t, w, &movie)
	assert.Equal(t, "Alien", movie.Title)
	assert.Equal(t, "/movies/alien", meta["path"])

	w = a.do(t, http.MethodGet, "/movies/predator", nil, a.token(t, ana.ID))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "movie not found", errorOf(t, w))
}

func TestUpdateMovie(t *testing.T) {
	a := newTestAPI(t)
	ana := dbtest.CreateUser(t, a.db, "ana@example.com")
	bia := dbtest.CreateUser(t, a.db, "bia@example.com")
	alien := dbtest.CreateMovie(t, a.db, ana.ID, "Alien", "alien", dbtest.Day(1979, 5, 25))
	path := "/movies/" + alien.ID

	w := a.do(t, http.MethodPatch, path, map[string]interface{}{"tagline": "No espaço ninguém pode ouvir você gritar.", "duration": 117}, a.token(t, ana.ID))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var movie model.Movie
	envelopeOf(t, w, &movie)
	require.NotNil(t, movie.Tagline)
	assert.Equal(t, "No espaço ninguém pode ouvir você gritar.", *movie.Tagline)
	assert.Equal(t, 117, movie.Duration)

	w = a.do(t, http.MethodPatch, path, map[string]interface{}{"title": "Meu"}, a.token(t, bia.ID))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(t, http.MethodPatch, path, map[string]interface{}{"slug": "novo"}, a.token(t, ana.ID))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "updating slug is not allowed", errorOf(t, w))

	w = a.do(t, http.MethodPatch, path, map[string]interface{}{"duration": -3}, a.token(t, ana.ID))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(t, http.MethodPatch, "/movies/unknown", map[string]interface{}{"title": "x"}, a.token(t, ana.ID))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteMovie(t *testing.T) {
	a := newTestAPI(t)
	ana := dbtest.CreateUser(t, a.db, "ana@example.com")
	bia := dbtest.CreateUser(t, a.db, "bia@example.com")
	alien := dbtest.CreateMovie(t, a.db, ana.ID, "Alien", "alien", dbtest.Day(1979, 5, 25))
	require.NoError(t, a.store.UpsertSubscription(context.Background(), bia.ID, alien.ID))

	w := a.do(t, http.MethodDelete, "/movies/"+alien.ID, nil, a.token(t, bia.ID))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(t, http.MethodDelete, "/movies/"+alien.ID, nil, a.token(t, ana.ID))
	require.Equal(t, http.StatusOK, w.Code)
	var movie model.Movie
	envelopeOf(t, w, &movie)
	assert.Equal(t, alien.ID, movie.ID)

	subscribed, err := a.store.IsSubscribed(context.Background(), bia.ID, alien.ID)
	require.NoError(t, err)
	assert.False(t, subscribed)

	w = a.do(t, http.MethodGet, "/movies/alien", nil, a.token(t, ana.ID))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMovieGenres(t *testing.T) {
	a := newTestAPI(t)
	ana := dbtest.CreateUser(t, a.db, "ana@example.com")
	drama := dbtest.CreateGenre(t, a.db, "Drama")
	terror := dbtest.CreateGenre(t, a.db, "Terror")
	alien := dbtest.CreateMovie(t, a.db, ana.ID, "Alien", "alien", dbtest.Day(1979, 5, 25))
	token := a.token(t, ana.ID)

	w := a.do(t, http.MethodPost, "/movies/"+alien.ID+"/genres", map[string]interface{}{"genreIds": []string{drama.ID, terror.ID}}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var movie model.Movie
	envelopeOf(t, w, &movie)
	assert.Len(t, movie.Genres, 2)

	w = a.do(t, http.MethodPost, "/movies/"+alien.ID+"/genres", map[string]interface{}{"genreIds": []string{}}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(t, http.MethodDelete, "/movies/"+alien.ID+"/genres/"+drama.ID, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	envelopeOf(t, w, &movie)
	require.Len(t, movie.Genres, 1)
	assert.Equal(t, "Terror", movie.Genres[0].Name)

	w = a.do(t, http.MethodDelete, "/movies/"+alien.ID+"/genres/"+drama.ID, nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "genre is not associated with the movie", errorOf(t, w))
}

func TestGetGenres_Cached(t *testing.T) {
	a := newTestAPI(t)
	ana := dbtest.CreateUser(t, a.db, "ana@example.com")
	dbtest.CreateGenre(t, a.db, "Terror")
	dbtest.CreateGenre(t, a.db, "Ação")
	token := a.token(t, ana.ID)

	w := a.do(t, http.MethodGet, "/movies/genres", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get(mw.CacheHeader))
	var genres []model.Genre
	envelopeOf(t, w, &genres)
	require.Len(t, genres, 2)
	assert.Equal(t, "Ação", genres[0].Name)

	dbtest.CreateGenre(t, a.db, "Drama")
	w = a.do(t, http.MethodGet, "/movies/genres", nil, token)
	assert.Equal(t, "HIT", w.Header().Get(mw.CacheHeader))
	envelopeOf(t, w, &genres)
	assert.Len(t, genres, 2)
}

package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"movie-catalog-backend/internal/calendar"
	"movie-catalog-backend/internal/model"
	"movie-catalog-backend/internal/parse"
	"movie-catalog-backend/internal/store"
)

// AutoSubscriber subscribes a movie's creator to its release email.
type AutoSubscriber interface {
	AutoSubscribe(ctx context.Context, userID, movieID string) error
}

// CreateMovieInput holds the fields of a new movie. The slug is derived
// from the title.
type CreateMovieInput struct {
	Title            string
	OriginalTitle    string
	Description      string
	Tagline          *string
	ReleaseDate      time.Time
	Duration         int
	Status           model.MovieStatus
	Language         model.Language
	Budget           *float64
	Revenue          *float64
	Popularity       *float64
	Votes            *int
	RatingPercentage *float64
	GenreIDs         []string
	PosterFileID     *string
	BannerFileID     *string
}

// UpdateMovieInput is a partial update; nil fields are left unchanged.
// Slug is only carried so that attempts to change it can be rejected.
type UpdateMovieInput struct {
	Title            *string
	OriginalTitle    *string
	Description      *string
	Tagline          *string
	ReleaseDate      *time.Time
	Duration         *int
	Status           *model.MovieStatus
	Language         *model.Language
	Budget           *float64
	Revenue          *float64
	Popularity       *float64
	Votes            *int
	RatingPercentage *float64
	GenreIDs         []string
	PosterFileID     *string
	BannerFileID     *string
	Slug             *string
}

// MoviePage is one page of a listing.
type MoviePage struct {
	Movies     []model.Movie
	Total      int64
	Page       int
	PerPage    int
	TotalPages int
}

// MovieService manages the movie catalog.
type MovieService struct {
	store      store.Store
	subscriber AutoSubscriber
	clock      calendar.Clock
	log        zerolog.Logger
}

// NewMovieService creates the catalog service.
func NewMovieService(s store.Store, subscriber AutoSubscriber, clock calendar.Clock, log zerolog.Logger) *MovieService {
	return &MovieService{
		store:      s,
		subscriber: subscriber,
		clock:      clock,
		log:        log.With().Str("component", "movies").Logger(),
	}
}

// Create adds a movie owned by userID. When the release day is still
// ahead, the creator is subscribed to the release email; a failure to do
// so is logged and does not fail the creation.
func (s *MovieService) Create(ctx context.Context, userID string, in CreateMovieInput) (*model.Movie, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	genreIDs, err := s.requireGenres(ctx, in.GenreIDs)
	if err != nil {
		return nil, err
	}
	if err := s.requireFile(ctx, in.PosterFileID); err != nil {
		return nil, err
	}
	if err := s.requireFile(ctx, in.BannerFileID); err != nil {
		return nil, err
	}
	if err := validateEnums(&in.Status, &in.Language); err != nil {
		return nil, err
	}
	if in.Duration < 0 {
		return nil, newError(ErrInvalid, "duration must not be negative")
	}

	slug, err := parse.Slugify(in.Title)
	if err != nil {
		return nil, newError(ErrInvalid, "title must contain letters or digits")
	}
	switch _, err := s.store.GetMovieBySlug(ctx, slug); {
	case err == nil:
		return nil, newError(ErrConflict, "movie with this slug already exists")
	case !errors.Is(err, store.ErrNotFound):
		return nil, err
	}

	movie := &model.Movie{
		Title:            in.Title,
		Slug:             slug,
		OriginalTitle:    in.OriginalTitle,
		Description:      in.Description,
		Tagline:          in.Tagline,
		ReleaseDate:      calendar.StartOfDay(in.ReleaseDate),
		Duration:         in.Duration,
		Status:           in.Status,
		Language:         in.Language,
		Budget:           in.Budget,
		Revenue:          in.Revenue,
		Popularity:       in.Popularity,
		Votes:            in.Votes,
		RatingPercentage: in.RatingPercentage,
		UserID:           userID,
		PosterFileID:     nilIfEmpty(in.PosterFileID),
		BannerFileID:     nilIfEmpty(in.BannerFileID),
	}
	if err := s.store.CreateMovie(ctx, movie, genreIDs); err != nil {
		return nil, err
	}

	log := s.log.With().Str("movie_id", movie.ID).Str("user_id", userID).
		Str("release_date", parse.FormatDate(movie.ReleaseDate)).Logger()
	log.Info().Str("title", movie.Title).Msg("movie created")

	if calendar.IsAfterDay(movie.ReleaseDate, s.clock.Now()) {
		if err := s.subscriber.AutoSubscribe(ctx, userID, movie.ID); err != nil {
			log.Error().Err(err).Msg("failed to subscribe creator to release")
		} else {
			log.Info().Msg("creator subscribed to release")
		}
	} else {
		log.Debug().Msg("release day already reached, creator not subscribed")
	}

	return s.store.GetMovieByID(ctx, movie.ID)
}

// List returns one page of movies matching the filter.
func (s *MovieService) List(ctx context.Context, filter store.MovieFilter, page store.Page) (MoviePage, error) {
	if err := validatePage(page); err != nil {
		return MoviePage{}, err
	}
	if filter.Status != "" && !model.ValidStatus(filter.Status) {
		return MoviePage{}, newError(ErrInvalid, "invalid status %q", filter.Status)
	}
	if filter.Language != "" && !model.ValidLanguage(filter.Language) {
		return MoviePage{}, newError(ErrInvalid, "invalid language %q", filter.Language)
	}
	return s.list(ctx, filter, page)
}

// ListByUser returns one page of the movies created by userID.
func (s *MovieService) ListByUser(ctx context.Context, userID string, page store.Page) (MoviePage, error) {
	if err := validatePage(page); err != nil {
		return MoviePage{}, err
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return MoviePage{}, err
	}
	return s.list(ctx, store.MovieFilter{UserID: userID}, page)
}

func (s *MovieService) list(ctx context.Context, filter store.MovieFilter, page store.Page) (MoviePage, error) {
	movies, total, err := s.store.ListMovies(ctx, filter, page)
	if err != nil {
		return MoviePage{}, err
	}
	if movies == nil {
		movies = []model.Movie{}
	}
	return MoviePage{
		Movies:     movies,
		Total:      total,
		Page:       page.Number,
		PerPage:    page.PerPage,
		TotalPages: page.TotalPages(total),
	}, nil
}

// GetBySlug returns a movie by its slug.
func (s *MovieService) GetBySlug(ctx context.Context, slug string) (*model.Movie, error) {
	movie, err := s.store.GetMovieBySlug(ctx, slug)
	if errors.Is(err, store.ErrNotFound) {
		return nil, newError(ErrNotFound, "movie not found")
	}
	return movie, err
}

// Update applies a partial update. Only the creator may update a movie and
// the slug never changes. An empty genre list leaves the links untouched.
func (s *MovieService) Update(ctx context.Context, userID, movieID string, in UpdateMovieInput) (*model.Movie, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.ownedMovie(ctx, userID, movieID, "update"); err != nil {
		return nil, err
	}
	if in.Slug != nil {
		return nil, newError(ErrInvalid, "updating slug is not allowed")
	}

	genreIDs, err := s.requireGenres(ctx, in.GenreIDs)
	if err != nil {
		return nil, err
	}
	if err := s.requireFile(ctx, in.PosterFileID); err != nil {
		return nil, err
	}
	if err := s.requireFile(ctx, in.BannerFileID); err != nil {
		return nil, err
	}
	if err := validateEnums(in.Status, in.Language); err != nil {
		return nil, err
	}
	if in.Duration != nil && *in.Duration < 0 {
		return nil, newError(ErrInvalid, "duration must not be negative")
	}

	changes := store.MovieChanges{Fields: updateFields(in)}
	if len(genreIDs) > 0 {
		changes.GenreIDs = genreIDs
	}

	if err := s.store.UpdateMovie(ctx, movieID, changes); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newError(ErrNotFound, "movie not found")
		}
		return nil, err
	}

	s.log.Info().Str("movie_id", movieID).Int("fields", len(changes.Fields)).Msg("movie updated")
	return s.store.GetMovieByID(ctx, movieID)
}

// updateFields maps the set fields of in to column names. An empty file
// id unlinks the image.
func updateFields(in UpdateMovieInput) map[string]interface{} {
	fields := map[string]interface{}{}
	if in.Title != nil {
		fields["title"] = *in.Title
	}
	if in.OriginalTitle != nil {
		fields["original_title"] = *in.OriginalTitle
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Tagline != nil {
		fields["tagline"] = *in.Tagline
	}
	if in.ReleaseDate != nil {
		fields["release_date"] = calendar.StartOfDay(*in.ReleaseDate)
	}
	if in.Duration != nil {
		fields["duration"] = *in.Duration
	}
	if in.Status != nil {
		fields["status"] = *in.Status
	}
	if in.Language != nil {
		fields["language"] = *in.Language
	}
	if in.Budget != nil {
		fields["budget"] = *in.Budget
	}
	if in.Revenue != nil {
		fields["revenue"] = *in.Revenue
	}
	if in.Popularity != nil {
		fields["popularity"] = *in.Popularity
	}
	if in.Votes != nil {
		fields["votes"] = *in.Votes
	}
	if in.RatingPercentage != nil {
		fields["rating_percentage"] = *in.RatingPercentage
	}
	if in.PosterFileID != nil {
		fields["poster_file_id"] = optionalID(*in.PosterFileID)
	}
	if in.BannerFileID != nil {
		fields["banner_file_id"] = optionalID(*in.BannerFileID)
	}
	return fields
}

func nilIfEmpty(id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	return id
}

func optionalID(id string) interface{} {
	if id == "" {
		return nil
	}
	return id
}

// Delete removes a movie owned by userID and returns it as it was.
func (s *MovieService) Delete(ctx context.Context, userID, movieID string) (*model.Movie, error) {
	movie, err := s.ownedMovie(ctx, userID, movieID, "delete")
	if err != nil {
		return nil, err
	}
	if err := s.store.DeleteMovie(ctx, movieID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newError(ErrNotFound, "movie not found")
		}
		return nil, err
	}

	s.log.Info().Str("movie_id", movieID).Str("user_id", userID).Msg("movie deleted")
	return movie, nil
}

// AddGenres links genres to a movie owned by userID.
func (s *MovieService) AddGenres(ctx context.Context, userID, movieID string, genreIDs []string) (*model.Movie, error) {
	if _, err := s.ownedMovie(ctx, userID, movieID, "modify"); err != nil {
		return nil, err
	}
	if len(genreIDs) == 0 {
		return nil, newError(ErrInvalid, "genreIds must not be empty")
	}
	ids, err := s.requireGenres(ctx, genreIDs)
	if err != nil {
		return nil, err
	}
	if err := s.store.AddGenres(ctx, movieID, ids); err != nil {
		return nil, err
	}
	return s.store.GetMovieByID(ctx, movieID)
}

// RemoveGenre unlinks a genre from a movie owned by userID.
func (s *MovieService) RemoveGenre(ctx context.Context, userID, movieID, genreID string) (*model.Movie, error) {
	if _, err := s.ownedMovie(ctx, userID, movieID, "modify"); err != nil {
		return nil, err
	}
	linked, err := s.store.HasGenre(ctx, movieID, genreID)
	if err != nil {
		return nil, err
	}
	if !linked {
		return nil, newError(ErrNotFound, "genre is not associated with the movie")
	}
	if err := s.store.RemoveGenre(ctx, movieID, genreID); err != nil {
		return nil, err
	}
	return s.store.GetMovieByID(ctx, movieID)
}

// Genres returns every genre ordered by name.
func (s *MovieService) Genres(ctx context.Context) ([]model.Genre, error) {
	return s.store.ListGenres(ctx)
}

func (s *MovieService) ownedMovie(ctx context.Context, userID, movieID, action string) (*model.Movie, error) {
	movie, err := s.store.GetMovieByID(ctx, movieID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, newError(ErrNotFound, "movie not found")
	}
	if err != nil {
		return nil, err
	}
	if movie.UserID != userID {
		return nil, newError(ErrForbidden, "you are not allowed to %s this movie", action)
	}
	return movie, nil
}

func (s *MovieService) requireUser(ctx context.Context, userID string) error {
	ok, err := s.store.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return newError(ErrNotFound, "user not found")
	}
	return nil
}

// requireGenres checks that every id names a genre and returns the ids
// without duplicates.
func (s *MovieService) requireGenres(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	n, err := s.store.CountGenres(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("failed to check genres: %w", err)
	}
	if n != int64(len(unique)) {
		return nil, newError(ErrNotFound, "genre not found")
	}
	return unique, nil
}

func (s *MovieService) requireFile(ctx context.Context, id *string) error {
	if id == nil || *id == "" {
		return nil
	}
	ok, err := s.store.FileExists(ctx, *id)
	if err != nil {
		return err
	}
	if !ok {
		return newError(ErrNotFound, "file not found")
	}
	return nil
}

func validateEnums(status *model.MovieStatus, language *model.Language) error {
	if status != nil && !model.ValidStatus(*status) {
		return newError(ErrInvalid, "invalid status %q", *status)
	}
	if language != nil && !model.ValidLanguage(*language) {
		return newError(ErrInvalid, "invalid language %q", *language)
	}
	return nil
}

func validatePage(p store.Page) error {
	if p.Number < 1 || p.PerPage < 1 {
		return newError(ErrInvalid, "invalid pagination parameters: page and perPage must be positive numbers")
	}
	return nil
}

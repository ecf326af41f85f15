package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"movie-catalog-backend/internal/model"
)

// withDetails preloads everything a movie response carries.
func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("genres.name") }).
		Preload("PosterFile").
		Preload("BannerFile")
}

// CreateMovie inserts the movie and links it to the given genres.
func (s *gormStore) CreateMovie(ctx context.Context, movie *model.Movie, genreIDs []string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(genreIDs) > 0 {
			var genres []model.Genre
			if err := tx.Where("id IN ?", genreIDs).Find(&genres).Error; err != nil {
				return fmt.Errorf("failed to load genres: %w", err)
			}
			movie.Genres = genres
		}

		if err := tx.Omit("Genres.*").Create(movie).Error; err != nil {
			return fmt.Errorf("failed to create movie %q: %w", movie.Slug, err)
		}
		return nil
	})
}

// GetMovieByID returns the movie with its genres and files.
func (s *gormStore) GetMovieByID(ctx context.Context, id string) (*model.Movie, error) {
	var movie model.Movie
	if err := withDetails(s.db.WithContext(ctx)).First(&movie, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &movie, nil
}

// GetMovieBySlug returns the movie with its genres and files.
func (s *gormStore) GetMovieBySlug(ctx context.Context, slug string) (*model.Movie, error) {
	var movie model.Movie
	if err := withDetails(s.db.WithContext(ctx)).First(&movie, "slug = ?", slug).Error; err != nil {
		return nil, notFound(err)
	}
	return &movie, nil
}

// MovieExists reports whether a movie with the id exists.
func (s *gormStore) MovieExists(ctx context.Context, id string) (bool, error) {
	ok, err := s.exists(ctx, &model.Movie{}, "id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to check movie %s: %w", id, err)
	}
	return ok, nil
}

func (s *gormStore) filteredMovies(ctx context.Context, f MovieFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&model.Movie{})

	if f.Title != "" {
		q = q.Where("LOWER(movies.title) LIKE ?", "%"+strings.ToLower(f.Title)+"%")
	}
	if f.Status != "" {
		q = q.Where("movies.status = ?", f.Status)
	}
	if f.Language != "" {
		q = q.Where("movies.language = ?", f.Language)
	}
	if f.ReleaseDateStart != nil {
		q = q.Where("movies.release_date >= ?", f.ReleaseDateStart.UTC())
	}
	if f.ReleaseDateEnd != nil {
		q = q.Where("movies.release_date <= ?", f.ReleaseDateEnd.UTC())
	}
	if f.UserID != "" {
		q = q.Where("movies.user_id = ?", f.UserID)
	}
	if len(f.GenreIDs) > 0 {
		linked := s.db.Table("movie_genres").Select("movie_id").Where("genre_id IN ?", f.GenreIDs)
		q = q.Where("movies.id IN (?)", linked)
	}
	return q
}

// ListMovies returns one page of movies matching the filter and the total
// number of matches.
func (s *gormStore) ListMovies(ctx context.Context, f MovieFilter, page Page) ([]model.Movie, int64, error) {
	var total int64
	if err := s.filteredMovies(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count movies: %w", err)
	}

	var movies []model.Movie
	err := withDetails(s.filteredMovies(ctx, f)).
		Order("movies.created_at DESC, movies.id").
		Offset(page.Offset()).
		Limit(page.PerPage).
		Find(&movies).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list movies: %w", err)
	}
	return movies, total, nil
}

// UpdateMovie applies a partial update in one transaction.
func (s *gormStore) UpdateMovie(ctx context.Context, id string, changes MovieChanges) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		movie := model.Movie{ID: id}

		if len(changes.Fields) > 0 {
			res := tx.Model(&movie).Updates(changes.Fields)
			if res.Error != nil {
				return fmt.Errorf("failed to update movie %s: %w", id, res.Error)
			}
			if res.RowsAffected == 0 {
				return ErrNotFound
			}
		}

		if changes.GenreIDs != nil {
			var genres []model.Genre
			if len(changes.GenreIDs) > 0 {
				if err := tx.Where("id IN ?", changes.GenreIDs).Find(&genres).Error; err != nil {
					return fmt.Errorf("failed to load genres: %w", err)
				}
			}
			if err := tx.Model(&movie).Association("Genres").Replace(genres); err != nil {
				return fmt.Errorf("failed to replace genres of movie %s: %w", id, err)
			}
		}
		return nil
	})
}

// DeleteMovie removes the movie together with its genre links and release
// subscriptions.
func (s *gormStore) DeleteMovie(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		movie := model.Movie{ID: id}

		if err := tx.Where("movie_id = ?", id).Delete(&model.MovieSubscription{}).Error; err != nil {
			return fmt.Errorf("failed to delete subscriptions of movie %s: %w", id, err)
		}
		if err := tx.Model(&movie).Association("Genres").Clear(); err != nil {
			return fmt.Errorf("failed to unlink genres of movie %s: %w", id, err)
		}

		res := tx.Delete(&movie)
		if res.Error != nil {
			return fmt.Errorf("failed to delete movie %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// AddGenres links additional genres to a movie. Already linked genres are
// left as they are.
func (s *gormStore) AddGenres(ctx context.Context, movieID string, genreIDs []string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var genres []model.Genre
		if err := tx.Where("id IN ?", genreIDs).Find(&genres).Error; err != nil {
			return fmt.Errorf("failed to load genres: %w", err)
		}
		if len(genres) == 0 {
			return nil
		}
		if err := tx.Model(&model.Movie{ID: movieID}).Association("Genres").Append(genres); err != nil {
			return fmt.Errorf("failed to link genres to movie %s: %w", movieID, err)
		}
		return nil
	})
}

// RemoveGenre unlinks one genre from a movie.
func (s *gormStore) RemoveGenre(ctx context.Context, movieID, genreID string) error {
	err := s.db.WithContext(ctx).
		Model(&model.Movie{ID: movieID}).
		Association("Genres").
		Delete(&model.Genre{ID: genreID})
	if err != nil {
		return fmt.Errorf("failed to unlink genre %s from movie %s: %w", genreID, movieID, err)
	}
	return nil
}

// HasGenre reports whether the genre is linked to the movie.
func (s *gormStore) HasGenre(ctx context.Context, movieID, genreID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Table("movie_genres").
		Where("movie_id = ? AND genre_id = ?", movieID, genreID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check genre %s of movie %s: %w", genreID, movieID, err)
	}
	return count > 0, nil
}

// FindReleasedOn lists the movies whose release date falls in
// [dayStart, dayEnd).
func (s *gormStore) FindReleasedOn(ctx context.Context, dayStart, dayEnd time.Time) ([]model.Movie, error) {
	var movies []model.Movie
	err := s.db.WithContext(ctx).
		Where("release_date >= ? AND release_date < ?", dayStart.UTC(), dayEnd.UTC()).
		Order("release_date, id").
		Find(&movies).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find movies released between %s and %s: %w",
			dayStart.Format(time.RFC3339), dayEnd.Format(time.RFC3339), err)
	}
	return movies, nil
}

package store

import (
	"context"
	"fmt"

	"movie-catalog-backend/internal/model"
)

// ListGenres returns every genre ordered by name.
func (s *gormStore) ListGenres(ctx context.Context) ([]model.Genre, error) {
	var genres []model.Genre
	if err := s.db.WithContext(ctx).Order("name").Find(&genres).Error; err != nil {
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}
	return genres, nil
}

// CountGenres returns how many of the ids name an existing genre.
func (s *gormStore) CountGenres(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Genre{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count genres: %w", err)
	}
	return count, nil
}

package store

import (
	"context"
	"fmt"

	"movie-catalog-backend/internal/model"
)

func (s *gormStore) CreateFile(ctx context.Context, file *model.File) error {
	if err := s.db.WithContext(ctx).Create(file).Error; err != nil {
		return fmt.Errorf("failed to save file %q: %w", file.Title, err)
	}
	return nil
}

func (s *gormStore) FileExists(ctx context.Context, id string) (bool, error) {
	ok, err := s.exists(ctx, &model.File{}, "id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to check file %s: %w", id, err)
	}
	return ok, nil
}

package store

import (
	"context"
	"fmt"

	"movie-catalog-backend/internal/model"
)

func (s *gormStore) CreateUser(ctx context.Context, user *model.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.Email, err)
	}
	return nil
}

func (s *gormStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *gormStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *gormStore) UserExists(ctx context.Context, id string) (bool, error) {
	ok, err := s.exists(ctx, &model.User{}, "id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to check user %s: %w", id, err)
	}
	return ok, nil
}

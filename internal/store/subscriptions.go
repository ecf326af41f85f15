package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm/clause"

	"movie-catalog-backend/internal/model"
)

// UpsertSubscription creates the subscription or resets an existing one to
// pending. The user and movie are not checked here.
func (s *gormStore) UpsertSubscription(ctx context.Context, userID, movieID string) error {
	sub := model.MovieSubscription{
		UserID:   userID,
		MovieID:  movieID,
		Notified: false,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "movie_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"notified":   false,
			"updated_at": time.Now().UTC(),
		}),
	}).Create(&sub).Error
	if err != nil {
		return fmt.Errorf("failed to upsert subscription for user %s, movie %s: %w", userID, movieID, err)
	}
	return nil
}

// DeleteSubscription removes the subscription if there is one.
func (s *gormStore) DeleteSubscription(ctx context.Context, userID, movieID string) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Delete(&model.MovieSubscription{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete subscription for user %s, movie %s: %w", userID, movieID, err)
	}
	return nil
}

// FindPendingByMovie lists the not-yet-notified subscriptions of a movie
// together with each subscriber's email address.
func (s *gormStore) FindPendingByMovie(ctx context.Context, movieID string) ([]PendingSubscription, error) {
	var pending []PendingSubscription
	err := s.db.WithContext(ctx).
		Table("movie_subscriptions").
		Select("movie_subscriptions.id, movie_subscriptions.user_id, movie_subscriptions.movie_id, users.email").
		Joins("JOIN users ON users.id = movie_subscriptions.user_id").
		Where("movie_subscriptions.movie_id = ? AND movie_subscriptions.notified = ?", movieID, false).
		Order("movie_subscriptions.created_at, movie_subscriptions.id").
		Scan(&pending).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pending subscriptions for movie %s: %w", movieID, err)
	}
	return pending, nil
}

// MarkNotified flags a single subscription as delivered. Repeating the call
// is harmless.
func (s *gormStore) MarkNotified(ctx context.Context, subscriptionID string) error {
	err := s.db.WithContext(ctx).
		Model(&model.MovieSubscription{}).
		Where("id = ?", subscriptionID).
		Update("notified", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark subscription %s notified: %w", subscriptionID, err)
	}
	return nil
}

// IsSubscribed reports whether a subscription row exists, notified or not.
func (s *gormStore) IsSubscribed(ctx context.Context, userID, movieID string) (bool, error) {
	ok, err := s.exists(ctx, &model.MovieSubscription{}, "user_id = ? AND movie_id = ?", userID, movieID)
	if err != nil {
		return false, fmt.Errorf("failed to check subscription for user %s, movie %s: %w", userID, movieID, err)
	}
	return ok, nil
}

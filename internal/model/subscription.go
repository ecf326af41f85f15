package model

import (
	"time"

	"gorm.io/gorm"
)

// MovieSubscription records that a user wants an email when a movie is
// released. Notified flips to true only after a confirmed send and back to
// false only when the user subscribes again.
type MovieSubscription struct {
	ID        string    `gorm:"primaryKey;size:36"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_subscription_user_movie"`
	MovieID   string    `gorm:"size:36;not null;uniqueIndex:idx_subscription_user_movie;index"`
	Notified  bool      `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (s *MovieSubscription) BeforeCreate(tx *gorm.DB) error {
	s.ID = newID(s.ID)
	return nil
}

package model

import "time"

// PushDevice holds a browser push endpoint registered by a user.
type PushDevice struct {
	Endpoint  string    `gorm:"primaryKey;size:512"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	UserID    string    `gorm:"size:36;index;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

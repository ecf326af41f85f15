package model

import (
	"time"

	"gorm.io/gorm"
)

// File is an uploaded image that a movie can use as poster or banner.
type File struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	URL         string    `gorm:"size:512;not null" json:"url"`
	ContentType string    `gorm:"size:64;not null" json:"contentType"`
	Size        int64     `gorm:"not null" json:"size"`
	CreatedAt   time.Time `gorm:"not null" json:"createdAt"`
}

func (f *File) BeforeCreate(tx *gorm.DB) error {
	f.ID = newID(f.ID)
	return nil
}

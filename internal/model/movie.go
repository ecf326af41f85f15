package model

import (
	"time"

	"gorm.io/gorm"
)

// MovieStatus is the production state of a movie.
type MovieStatus string

const (
	StatusReleased     MovieStatus = "RELEASED"
	StatusInProduction MovieStatus = "IN_PRODUCTION"
	StatusPlanned      MovieStatus = "PLANNED"
	StatusCancelled    MovieStatus = "CANCELLED"
)

// Language is the original language of a movie.
type Language string

const (
	LanguageEN Language = "EN"
	LanguagePT Language = "PT"
	LanguageES Language = "ES"
	LanguageFR Language = "FR"
	LanguageDE Language = "DE"
	LanguageJP Language = "JP"
)

// Movie is a catalog entry. ReleaseDate always holds UTC midnight of the
// release day.
type Movie struct {
	ID               string      `gorm:"primaryKey;size:36" json:"id"`
	Title            string      `gorm:"size:255;not null" json:"title"`
	Slug             string      `gorm:"uniqueIndex;size:255;not null" json:"slug"`
	OriginalTitle    string      `gorm:"size:255;not null" json:"originalTitle"`
	Description      string      `gorm:"type:text;not null" json:"description"`
	Tagline          *string     `gorm:"size:512" json:"tagline"`
	ReleaseDate      time.Time   `gorm:"index;not null" json:"releaseDate"`
	Duration         int         `gorm:"not null" json:"duration"`
	Status           MovieStatus `gorm:"size:32;not null" json:"status"`
	Language         Language    `gorm:"size:8;not null" json:"language"`
	Budget           *float64    `json:"budget"`
	Revenue          *float64    `json:"revenue"`
	Popularity       *float64    `json:"popularity"`
	Votes            *int        `json:"votes"`
	RatingPercentage *float64    `json:"ratingPercentage"`
	UserID           string      `gorm:"size:36;index;not null" json:"userId"`
	PosterFileID     *string     `gorm:"size:36" json:"posterFileId"`
	BannerFileID     *string     `gorm:"size:36" json:"bannerFileId"`
	CreatedAt        time.Time   `gorm:"not null" json:"createdAt"`
	UpdatedAt        time.Time   `gorm:"not null" json:"updatedAt"`

	// Associations
	Genres     []Genre `gorm:"many2many:movie_genres;" json:"genres"`
	PosterFile *File   `gorm:"foreignKey:PosterFileID" json:"posterFile"`
	BannerFile *File   `gorm:"foreignKey:BannerFileID" json:"bannerFile"`
}

func (m *Movie) BeforeCreate(tx *gorm.DB) error {
	m.ID = newID(m.ID)
	return nil
}

// ValidStatus reports whether s is a known movie status.
func ValidStatus(s MovieStatus) bool {
	switch s {
	case StatusReleased, StatusInProduction, StatusPlanned, StatusCancelled:
		return true
	}
	return false
}

// ValidLanguage reports whether l is a known language.
func ValidLanguage(l Language) bool {
	switch l {
	case LanguageEN, LanguagePT, LanguageES, LanguageFR, LanguageDE, LanguageJP:
		return true
	}
	return false
}

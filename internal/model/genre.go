package model

import "gorm.io/gorm"

// Genre is a movie category.
type Genre struct {
	ID   string `gorm:"primaryKey;size:36" json:"id"`
	Name string `gorm:"uniqueIndex;size:128;not null" json:"name"`
}

func (g *Genre) BeforeCreate(tx *gorm.DB) error {
	g.ID = newID(g.ID)
	return nil
}

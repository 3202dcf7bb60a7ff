package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Article is editorial content addressed by slug.
type Article struct {
	ID          string     `json:"id" gorm:"type:varchar(36);primaryKey"`
	Title       string     `json:"title" gorm:"size:255;not null"`
	Slug        string     `json:"slug" gorm:"size:255;uniqueIndex;not null"`
	Content     string     `json:"content" gorm:"type:text;not null"`
	Excerpt     *string    `json:"excerpt,omitempty" gorm:"type:text"`
	Image       *string    `json:"image,omitempty" gorm:"size:512"`
	AuthorID    *string    `json:"authorId,omitempty" gorm:"type:varchar(36);index"`
	Author      *User      `json:"author,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	CountryID   *string    `json:"countryId,omitempty" gorm:"type:varchar(36)"`
	CityID      *string    `json:"cityId,omitempty" gorm:"type:varchar(36)"`
	IsPublished bool       `json:"isPublished" gorm:"not null;default:false;index"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	Views       int        `json:"views" gorm:"not null;default:0"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is free text plus a 1-5 score about a country, city or attraction.
// The schema allows any combination of the three references.
type Review struct {
	ID           string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Content      string    `json:"content" gorm:"type:text;not null"`
	Rating       int       `json:"rating" gorm:"not null"`
	UserID       string    `json:"userId" gorm:"type:varchar(36);not null;index"`
	User         *User     `json:"user,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	CountryID    *string   `json:"countryId,omitempty" gorm:"type:varchar(36);index"`
	CityID       *string   `json:"cityId,omitempty" gorm:"type:varchar(36);index"`
	AttractionID *string   `json:"attractionId,omitempty" gorm:"type:varchar(36);index"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// Rating is a bare score; a user holds at most one rating per place.
type Rating struct {
	ID           string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Value        int       `json:"value" gorm:"not null"`
	UserID       string    `json:"userId" gorm:"type:varchar(36);not null;uniqueIndex:idx_rating_user_place"`
	User         *User     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	PlaceKey     string    `json:"-" gorm:"size:255;not null;uniqueIndex:idx_rating_user_place"`
	CountryID    *string   `json:"countryId,omitempty" gorm:"type:varchar(36);index"`
	CityID       *string   `json:"cityId,omitempty" gorm:"type:varchar(36);index"`
	AttractionID *string   `json:"attractionId,omitempty" gorm:"type:varchar(36);index"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (r *Rating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

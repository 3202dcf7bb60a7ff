package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlaceKey identifies the place a user referenced, independent of which
// references survived validation. Unique indexes on (user_id, place_key)
// keep one visited entry and one wishlist entry per user and place.
func PlaceKey(countryID, cityID, attractionID string) string {
	return "country:" + countryID + "|city:" + cityID + "|attraction:" + attractionID
}

// VisitedPlace records that a user has been somewhere.
type VisitedPlace struct {
	ID           string      `json:"id" gorm:"type:varchar(36);primaryKey"`
	UserID       string      `json:"userId" gorm:"type:varchar(36);not null;uniqueIndex:idx_visited_user_place"`
	User         *User       `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	PlaceKey     string      `json:"-" gorm:"size:255;not null;uniqueIndex:idx_visited_user_place"`
	CountryID    *string     `json:"countryId,omitempty" gorm:"type:varchar(36)"`
	Country      *Country    `json:"country,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	CityID       *string     `json:"cityId,omitempty" gorm:"type:varchar(36)"`
	City         *City       `json:"city,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	AttractionID *string     `json:"attractionId,omitempty" gorm:"type:varchar(36)"`
	Attraction   *Attraction `json:"attraction,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	VisitDate    *time.Time  `json:"visitDate,omitempty" gorm:"index"`
	Notes        *string     `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// BeforeCreate sets UUID before creating the record.
func (v *VisitedPlace) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// WishlistItem records a place a user wants to visit.
type WishlistItem struct {
	ID           string      `json:"id" gorm:"type:varchar(36);primaryKey"`
	UserID       string      `json:"userId" gorm:"type:varchar(36);not null;uniqueIndex:idx_wishlist_user_place"`
	User         *User       `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	PlaceKey     string      `json:"-" gorm:"size:255;not null;uniqueIndex:idx_wishlist_user_place"`
	CountryID    *string     `json:"countryId,omitempty" gorm:"type:varchar(36)"`
	Country      *Country    `json:"country,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	CityID       *string     `json:"cityId,omitempty" gorm:"type:varchar(36)"`
	City         *City       `json:"city,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	AttractionID *string     `json:"attractionId,omitempty" gorm:"type:varchar(36)"`
	Attraction   *Attraction `json:"attraction,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	Notes        *string     `json:"notes,omitempty" gorm:"type:text"`
	Priority     int         `json:"priority" gorm:"not null;default:1"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// TableName keeps the historical table name.
func (WishlistItem) TableName() string {
	return "wishlists"
}

// BeforeCreate sets UUID before creating the record.
func (w *WishlistItem) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if w.Priority == 0 {
		w.Priority = 1
	}
	return nil
}

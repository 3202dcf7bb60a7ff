package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Attraction is a point of interest optionally tied to a city and country.
type Attraction struct {
	ID           string              `json:"id" gorm:"type:varchar(36);primaryKey"`
	Name         string              `json:"name" gorm:"size:255;not null;index"`
	Description  *string             `json:"description,omitempty" gorm:"type:text"`
	Image        *string             `json:"image,omitempty" gorm:"size:512"`
	Latitude     *float64            `json:"latitude,omitempty"`
	Longitude    *float64            `json:"longitude,omitempty"`
	Address      *string             `json:"address,omitempty" gorm:"size:512"`
	OpeningHours *string             `json:"openingHours,omitempty" gorm:"size:255"`
	Price        decimal.NullDecimal `json:"price" gorm:"type:decimal(10,2)"`
	Currency     *string             `json:"currency,omitempty" gorm:"size:8"`
	CityID       *string             `json:"cityId,omitempty" gorm:"type:varchar(36);index"`
	City         *City               `json:"city,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	CountryID    *string             `json:"countryId,omitempty" gorm:"type:varchar(36);index"`
	Country      *Country            `json:"country,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (a *Attraction) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

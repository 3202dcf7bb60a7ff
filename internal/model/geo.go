package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Continent is static reference data.
type Continent struct {
	ID          string  `json:"id" gorm:"type:varchar(36);primaryKey"`
	Name        string  `json:"name" gorm:"size:255;uniqueIndex;not null"`
	Code        string  `json:"code" gorm:"size:16;uniqueIndex;not null"`
	Description *string `json:"description,omitempty" gorm:"type:text"`
	Image       *string `json:"image,omitempty" gorm:"size:512"`
}

// BeforeCreate sets UUID before creating the record.
func (c *Continent) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Country is created by seeding or by fallback reconciliation.
type Country struct {
	ID          string     `json:"id" gorm:"type:varchar(36);primaryKey"`
	Name        string     `json:"name" gorm:"size:255;uniqueIndex;not null"`
	Code        string     `json:"code" gorm:"size:16;uniqueIndex;not null"`
	Capital     *string    `json:"capital,omitempty" gorm:"size:255"`
	Currency    *string    `json:"currency,omitempty" gorm:"size:255"`
	Language    *string    `json:"language,omitempty" gorm:"size:255"`
	VisaInfo    *string    `json:"visaInfo,omitempty" gorm:"type:text"`
	Description *string    `json:"description,omitempty" gorm:"type:text"`
	Image       *string    `json:"image,omitempty" gorm:"size:512"`
	Flag        *string    `json:"flag,omitempty" gorm:"size:32"`
	Area        *int64     `json:"area,omitempty"`
	Population  *int64     `json:"population,omitempty"`
	ContinentID *string    `json:"continentId,omitempty" gorm:"type:varchar(36);index"`
	Continent   *Continent `json:"continent,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (c *Country) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Slug is the lowercased country name used in page URLs.
func (c *Country) Slug() string {
	return strings.ToLower(strings.TrimSpace(c.Name))
}

// City belongs to exactly one country; (name, country) is unique.
type City struct {
	ID          string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Name        string    `json:"name" gorm:"size:255;not null;uniqueIndex:idx_city_name_country"`
	CountryID   string    `json:"countryId" gorm:"type:varchar(36);not null;uniqueIndex:idx_city_name_country"`
	Country     *Country  `json:"country,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Description *string   `json:"description,omitempty" gorm:"type:text"`
	Image       *string   `json:"image,omitempty" gorm:"size:512"`
	Population  *int64    `json:"population,omitempty"`
	BestTime    *string   `json:"bestTime,omitempty" gorm:"size:255"`
	Climate     *string   `json:"climate,omitempty" gorm:"size:255"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (c *City) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Route is a multi-day itinerary owned by the user who created it.
type Route struct {
	ID          string       `json:"id" gorm:"type:varchar(36);primaryKey"`
	Title       string       `json:"title" gorm:"size:255;not null"`
	Description *string      `json:"description,omitempty" gorm:"type:text"`
	Duration    *int         `json:"duration,omitempty"`
	Image       *string      `json:"image,omitempty" gorm:"size:512"`
	IsPublic    bool         `json:"isPublic" gorm:"not null;default:false;index"`
	UserID      string       `json:"userId" gorm:"type:varchar(36);not null;index"`
	User        *User        `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Points      []RoutePoint `json:"points" gorm:"foreignKey:RouteID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (r *Route) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// RoutePoint is one stop of a route. Points are ordered by (Day, Order);
// neither value is required to be contiguous.
type RoutePoint struct {
	ID           string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	RouteID      string    `json:"routeId" gorm:"type:varchar(36);not null;index"`
	Day          int       `json:"day" gorm:"not null"`
	Order        int       `json:"order" gorm:"column:position;not null"`
	Title        *string   `json:"title,omitempty" gorm:"size:255"`
	Description  *string   `json:"description,omitempty" gorm:"type:text"`
	CityID       *string   `json:"cityId,omitempty" gorm:"type:varchar(36)"`
	CountryID    *string   `json:"countryId,omitempty" gorm:"type:varchar(36)"`
	AttractionID *string   `json:"attractionId,omitempty" gorm:"type:varchar(36)"`
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// BeforeCreate sets UUID before creating the record.
func (p *RoutePoint) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

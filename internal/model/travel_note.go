package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StringList is stored as a JSON array in a text column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("scan StringList: unsupported type %T", src)
	}
	if len(raw) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(raw, (*[]string)(l))
}

// TravelNote is a diary entry written by a user.
type TravelNote struct {
	ID        string     `json:"id" gorm:"type:varchar(36);primaryKey"`
	Title     string     `json:"title" gorm:"size:255;not null"`
	Content   string     `json:"content" gorm:"type:text;not null"`
	Date      *time.Time `json:"date,omitempty"`
	Images    StringList `json:"images" gorm:"type:text"`
	UserID    string     `json:"userId" gorm:"type:varchar(36);not null;index"`
	User      *User      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CountryID *string    `json:"countryId,omitempty" gorm:"type:varchar(36);index"`
	CityID    *string    `json:"cityId,omitempty" gorm:"type:varchar(36);index"`
	IsPublic  bool       `json:"isPublic" gorm:"not null;default:false"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (n *TravelNote) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// RoleUser is assigned at registration.
	RoleUser = "USER"
	// RoleAdmin is held by the seeded administrator.
	RoleAdmin = "ADMIN"
)

// User represents a registered traveller.
type User struct {
	ID                  string     `json:"id" gorm:"type:varchar(36);primaryKey"`
	Email               string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Name                string     `json:"name" gorm:"size:255"`
	PasswordHash        string     `json:"-" gorm:"column:password;size:255;not null"` // Never expose in JSON
	Avatar              *string    `json:"avatar,omitempty" gorm:"size:512"`
	Bio                 *string    `json:"bio,omitempty" gorm:"type:text"`
	Role                string     `json:"role" gorm:"size:50;default:USER"`
	ResetToken          *string    `json:"-" gorm:"size:128"`
	ResetTokenExpiry    *time.Time `json:"-"`
	ResetTokenCreatedAt *time.Time `json:"-"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

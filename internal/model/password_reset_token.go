package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PasswordResetToken is a single-use credential mailed to a user who forgot their password.
type PasswordResetToken struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	UserID    string    `json:"userId" gorm:"type:varchar(36);not null;index"`
	User      *User     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Token     string    `json:"-" gorm:"size:128;uniqueIndex;not null"`
	Expires   time.Time `json:"expires" gorm:"not null"`
	Used      bool      `json:"used" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"createdAt"`
}

// BeforeCreate sets UUID before creating the record.
func (t *PasswordResetToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// Usable reports whether the token may still be redeemed at the given instant.
// Expiry is a pure predicate; nothing transitions a token into an expired state.
func (t *PasswordResetToken) Usable(now time.Time) bool {
	return !t.Used && t.Expires.After(now)
}

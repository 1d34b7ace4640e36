package model

import (
	"time"
)

// PasswordResetToken is ephemeral: one active token per user (the unique
// user_id index makes a new request supersede the previous token), consumed
// on successful use.
type PasswordResetToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Token     string    `gorm:"size:255;not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}

package model

import "time"

// PasswordResetToken is a single-use credential mailed to a user, valid for
// one hour from issuance.
type PasswordResetToken struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"usuario_id" gorm:"not null;index"`
	Token     string    `json:"-" gorm:"uniqueIndex;size:128;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	Used      bool      `json:"used" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User User `json:"-" gorm:"foreignKey:UserID"`
}

// TableName keeps the table name of the original schema.
func (PasswordResetToken) TableName() string { return "password_reset_tokens" }

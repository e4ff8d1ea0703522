package model

import "time"

// ResetToken only stores the SHA-256 hash of the token that was mailed to the user
type ResetToken struct {
	ID        int       `gorm:"primaryKey;autoIncrement"`
	UserID    string    `gorm:"index;not null"`
	TokenHash string    `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
}

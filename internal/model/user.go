// Package model defines database models
package model

import "time"

const (
	DefaultPhoto = "https://i.ibb.co/4pDNDk1/avatar.png"
	DefaultPhone = "+51"
	DefaultBio   = "bio"
)

type User struct {
	ID           string `gorm:"primaryKey"`
	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Photo        string `gorm:"not null"`
	Phone        string
	Bio          string `gorm:"size:250"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	ResetTokens []ResetToken `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Products    []Product    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// Profile is the public view of a user. It never carries the password hash.
type Profile struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Photo string `json:"photo"`
	Phone string `json:"phone"`
	Bio   string `json:"bio"`
}

func (u *User) Profile() *Profile {
	return &Profile{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Photo: u.Photo,
		Phone: u.Phone,
		Bio:   u.Bio,
	}
}

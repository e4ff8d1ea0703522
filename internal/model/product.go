package model

import "time"

type Product struct {
	ID          string       `gorm:"primaryKey" json:"_id"`
	UserID      string       `gorm:"index;not null" json:"user"`
	Name        string       `gorm:"not null" json:"name"`
	SKU         string       `gorm:"not null" json:"sku"`
	Category    string       `gorm:"not null" json:"category"`
	Quantity    int          `json:"quantity"`
	Price       float64      `json:"price"`
	Description string       `json:"description"`
	Image       ProductImage `gorm:"embedded;embeddedPrefix:image_" json:"image"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// ProductImage is empty when the product was created without an image
type ProductImage struct {
	FileName string `json:"fileName,omitempty"`
	FilePath string `json:"filePath,omitempty"`
	FileType string `json:"fileType,omitempty"`
	FileSize string `json:"fileSize,omitempty"`
	Key      string `json:"-"` // Storage key, needed to delete the object later
}

package models

import (
	"time"
)

// Product represents a catalog entry
type Product struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Code         string    `gorm:"uniqueIndex;not null" json:"code"`
	Name         string    `gorm:"not null" json:"name"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Subcategory  string    `json:"subcategory"`
	Price        float64   `gorm:"not null;default:0" json:"price"`
	Supplier     string    `json:"supplier"`
	Enabled      bool      `gorm:"not null;index" json:"enabled"`
	DisplayOrder *int      `gorm:"index" json:"display_order"` // nullable, unordered products sort last
	ImageURL     *string   `json:"image_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}

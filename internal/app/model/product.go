package model

import (
	"time"
)

type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

func (s ProductStatus) Valid() bool {
	return s == ProductStatusActive || s == ProductStatusInactive
}

// Product rows are hard-deleted together with their cart, wishlist and order item rows.
type Product struct {
	ID          uint          `gorm:"primarykey" json:"id"`                                  // product ID, restarts at 1 after a bulk delete
	Name        string        `gorm:"not null" json:"name"`                                  // display name
	Description string        `gorm:"type:text" json:"description"`                          // free text
	Price       Money         `gorm:"type:decimal(12,2);not null" json:"price"`              // current unit price
	Category    string        `gorm:"type:varchar(100);index" json:"category"`               // free-form category label
	ImageURL    string        `gorm:"column:image" json:"image"`                             // image URL or key
	Status      ProductStatus `gorm:"type:varchar(20);default:'active';index" json:"status"` // only active products are listed and sold
	CreatedAt   time.Time     `json:"created_at"`                                            // created at
	UpdatedAt   time.Time     `json:"updated_at"`                                            // last admin edit
}

func (Product) TableName() string {
	return "products"
}

func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

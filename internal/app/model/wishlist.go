package model

import (
	"time"
)

// WishlistItem is a product a user saved for later.
type WishlistItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                                                         // wishlist entry ID
	UserID    uint      `gorm:"not null;uniqueIndex:idx_wishlist_items_user_product" json:"user_id"`          // owner
	ProductID uint      `gorm:"not null;uniqueIndex:idx_wishlist_items_user_product;index" json:"product_id"` // one entry per user and product
	CreatedAt time.Time `json:"created_at"`                                                                   // added at

	User    User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Product Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
}

func (WishlistItem) TableName() string {
	return "wishlist_items"
}

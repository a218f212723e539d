package model

import (
	"time"
)

// CartItem is one line of a user's cart.
type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                                     // cart line ID
	UserID    uint      `gorm:"not null;uniqueIndex:idx_cart_items_user_product" json:"user_id"`          // owner
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_items_user_product;index" json:"product_id"` // one line per user and product
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`                                       // units, at least 1
	CreatedAt time.Time `json:"created_at"`                                                               // added at
	UpdatedAt time.Time `json:"updated_at"`                                                               // last quantity change

	User    User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Product Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"` // priced at read time
}

func (CartItem) TableName() string {
	return "cart_items"
}

// LineTotal is the current price times quantity.
func (c *CartItem) LineTotal() Money {
	return c.Product.Price.Mul(c.Quantity)
}

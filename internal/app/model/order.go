package model

import (
	"time"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipping  OrderStatus = "shipping"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipping, OrderStatusCancelled},
	OrderStatusShipping:  {OrderStatusDelivered},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipping,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether an admin may move an order from s to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentBankTransfer   PaymentMethod = "bank_transfer"
	PaymentMobilePayment  PaymentMethod = "mobile_payment"
)

// PaymentMethods lists the accepted methods in display order.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentCashOnDelivery, PaymentBankTransfer, PaymentMobilePayment}
}

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCashOnDelivery, PaymentBankTransfer, PaymentMobilePayment:
		return true
	}
	return false
}

// Order is immutable after checkout except for Status.
type Order struct {
	ID              uint          `gorm:"primarykey" json:"id"`                                   // order number
	UserID          uint          `gorm:"not null;index" json:"user_id"`                          // buyer
	TotalAmount     Money         `gorm:"type:decimal(12,2);not null" json:"total_amount"`        // sum of item price times quantity
	DeliveryAddress string        `gorm:"type:text;not null" json:"delivery_address"`             // as entered at checkout
	Phone           string        `gorm:"type:varchar(30);not null" json:"phone"`                 // as entered at checkout
	PaymentMethod   PaymentMethod `gorm:"type:varchar(30);not null" json:"payment_method"`        // chosen at checkout
	Status          OrderStatus   `gorm:"type:varchar(20);default:'pending';index" json:"status"` // changed by admins only
	CreatedAt       time.Time     `json:"created_at"`                                             // placed at
	UpdatedAt       time.Time     `json:"updated_at"`                                             // last status change

	User       User        `gorm:"foreignKey:UserID" json:"-"`
	OrderItems []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem keeps the price paid at checkout; later product price changes do not touch it.
type OrderItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`                     // order line ID
	OrderID   uint      `gorm:"not null;index" json:"order_id"`           // parent order
	ProductID uint      `gorm:"not null;index" json:"product_id"`         // ordered product
	Quantity  int       `gorm:"not null" json:"quantity"`                 // units ordered
	Price     Money     `gorm:"type:decimal(12,2);not null" json:"price"` // unit price paid
	CreatedAt time.Time `json:"created_at"`                               // placed at

	Product Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

func (i *OrderItem) LineTotal() Money {
	return i.Price.Mul(i.Quantity)
}

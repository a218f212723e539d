package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Address is a saved delivery address. A user has at most one default address,
// which prefills checkout.
type Address struct {
	ID            uint           `gorm:"primaryKey" json:"id"`                     // address ID
	UserID        uint           `gorm:"not null;index" json:"user_id"`            // owner
	Label         string         `gorm:"size:100" json:"label"`                    // e.g. "Home", "Office"
	Recipient     string         `gorm:"size:100;not null" json:"recipient"`       // who receives the parcel
	Phone         string         `gorm:"size:30;not null" json:"phone"`            // recipient's phone
	Address       string         `gorm:"type:text;not null" json:"address"`        // street and city
	DetailAddress string         `gorm:"type:text" json:"detail_address"`          // flat, floor, landmark
	IsDefault     bool           `gorm:"not null;default:false" json:"is_default"` // used to prefill checkout
	CreatedAt     time.Time      `json:"created_at"`                               // created at
	UpdatedAt     time.Time      `json:"updated_at"`                               // last edit
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                           // soft delete

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Address) TableName() string {
	return "addresses"
}

// FullAddress joins the street address with the detail line.
func (a Address) FullAddress() string {
	street := strings.TrimSpace(a.Address)
	detail := strings.TrimSpace(a.DetailAddress)
	switch {
	case detail == "":
		return street
	case street == "":
		return detail
	default:
		return street + ", " + detail
	}
}

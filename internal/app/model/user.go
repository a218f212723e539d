package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`                        // user ID
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`           // login email, stored lower-case
	PasswordHash string         `gorm:"not null" json:"-"`                           // bcrypt hash
	Name         string         `gorm:"not null" json:"name"`                        // display name
	Phone        string         `json:"phone"`                                       // contact phone
	Address      string         `gorm:"type:text" json:"address"`                    // profile address, used when no saved address is default
	City         string         `json:"city"`                                        // profile city
	Role         UserRole       `gorm:"type:varchar(20);default:'user'" json:"role"` // user or admin
	CreatedAt    time.Time      `json:"created_at"`                                  // registered at
	UpdatedAt    time.Time      `json:"updated_at"`                                  // last profile change
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                              // soft delete
}

func (User) TableName() string {
	return "users"
}

package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email    string  `gorm:"uniqueIndex;not null"`
	Password string  `gorm:"not null"`
	Name     string  `gorm:"not null"`
	Role     string  `gorm:"default:'user'"`
	WalletID *uint   `gorm:"unique;default:null"`
	Wallet   *Wallet `gorm:"foreignKey:WalletID"`

	LastLoginAt time.Time
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet statuses
const (
	WalletStatusActive = "active"
	WalletStatusLocked = "locked"
)

// Wallet holds a user's balance. Balances are stored as numeric(12,2)
// and are only ever mutated through the transfer engine's lock-and-adjust
// path; the CHECK constraint backs up the non-negative invariant.
type Wallet struct {
	ID        uint            `gorm:"primarykey"`
	UserID    uint            `gorm:"uniqueIndex;not null"`
	Balance   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0;check:balance >= 0"`
	Status    string          `gorm:"default:'active'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

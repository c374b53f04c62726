package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types
const (
	TransactionTypeTransfer   = "transfer"
	TransactionTypeCommission = "commission"
)

// Transaction statuses
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
)

// Transaction is one ledger record. Records are written with their final
// status at creation time and never updated afterwards; every record
// produced by one logical transfer shares a GroupID (one transfer record
// plus at most one commission record).
//
// SenderID is nullable: records representing system-originated credits
// (deposits, adjustments) have no sending wallet.
type Transaction struct {
	ID          uint            `gorm:"primarykey"`
	SenderID    *uint           `gorm:"index:idx_transactions_sender_created"`
	RecipientID uint            `gorm:"not null;index:idx_transactions_recipient_created"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Type        string          `gorm:"not null;default:'transfer'"`
	Status      string          `gorm:"not null;default:'pending';index"`
	GroupID     string          `gorm:"type:uuid;not null;index"`
	Description string
	CreatedAt   time.Time `gorm:"index:idx_transactions_sender_created;index:idx_transactions_recipient_created"`
}

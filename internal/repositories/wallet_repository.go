package repositories

import (
	"context"
	"errors"

	"fundflow/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrWalletNotFound     = errors.New("wallet not found")
	ErrDuplicateWallet    = errors.New("wallet already exists")
	ErrTransactionFailed  = errors.New("transaction failed")
	ErrInvalidTransaction = errors.New("invalid transaction")
)

// LedgerTx is the handle the transfer engine receives inside a locked
// storage transaction. Balance changes are expressed as relative deltas
// against the locked row, never as overwrites, so concurrent transactions
// cannot silently lose each other's updates.
type LedgerTx interface {
	// Wallet returns the locked row for id, if it exists.
	Wallet(id uint) (*models.Wallet, bool)
	// AdjustBalance applies a relative balance change to a locked wallet.
	AdjustBalance(id uint, delta decimal.Decimal) error
	// CreateTransaction inserts a ledger record within the transaction.
	CreateTransaction(txn *models.Transaction) error
}

// WalletRepository defines the interface for wallet-related database operations
type WalletRepository interface {
	// Core wallet operations
	Create(wallet *models.Wallet) error
	GetByID(id uint) (*models.Wallet, error)
	GetByUserID(userID uint) (*models.Wallet, error)
	UpdateStatus(walletID uint, status string) error

	// WithLockedWallets runs fn inside one storage transaction holding
	// exclusive row locks on the given wallets. Rows are locked in
	// ascending id order regardless of the order ids are passed in.
	WithLockedWallets(ctx context.Context, ids []uint, fn func(LedgerTx) error) error
}

package repositories

import (
	"context"
	"time"

	"fundflow/internal/models"
)

// TransactionRepository defines read and maintenance operations over the
// append-only transaction log. Records are never updated here; the only
// mutation is the retention sweeper's bulk delete of terminal rows.
type TransactionRepository interface {
	GetByID(id uint) (*models.Transaction, error)
	GetByGroupID(groupID string) ([]models.Transaction, error)

	// GetWalletHistory returns records where the wallet is sender or
	// recipient, newest first.
	GetWalletHistory(ctx context.Context, walletID uint, limit, offset int) ([]models.Transaction, error)

	// DeleteCompletedBefore bulk-deletes completed records created before
	// the cutoff and reports how many were removed. Non-terminal records
	// are never touched.
	DeleteCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

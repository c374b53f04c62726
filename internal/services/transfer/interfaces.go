package transfer

import (
	"context"

	"fundflow/internal/repositories"

	"github.com/shopspring/decimal"
)

// Ledger is the storage contract the engine needs: exclusive row locks on
// a set of wallets inside one all-or-nothing transaction.
type Ledger interface {
	WithLockedWallets(ctx context.Context, ids []uint, fn func(repositories.LedgerTx) error) error
}

// NotificationScheduler enqueues the post-commit transfer notification.
// Scheduling is fire-and-forget; it must never block or return an error
// that could fail an already-committed transfer.
type NotificationScheduler interface {
	Schedule(recipientID uint, amount decimal.Decimal, senderID uint, groupID string)
}

// Service executes wallet-to-wallet transfers.
type Service interface {
	ExecuteTransfer(ctx context.Context, senderID, recipientID uint, amount decimal.Decimal, note string) (*Result, error)
}

package wallet

import (
	"context"

	"fundflow/internal/models"

	"github.com/shopspring/decimal"
)

// CacheOperator defines the caching operations used by the wallet service.
type CacheOperator interface {
	GetWallet(ctx context.Context, walletID uint) (*models.Wallet, error)
	CacheWallet(ctx context.Context, wallet *models.Wallet) error
	InvalidateWallet(ctx context.Context, walletID uint) error
}

// Service defines read and lifecycle operations over wallets. All balance
// mutation goes through the transfer engine; this service never writes a
// balance.
type Service interface {
	GetWallet(ctx context.Context, walletID uint) (*models.Wallet, error)
	GetByUserID(ctx context.Context, userID uint) (*models.Wallet, error)
	GetBalance(ctx context.Context, walletID uint) (decimal.Decimal, error)
	CreateWallet(ctx context.Context, userID uint) (*models.Wallet, error)

	// Invalidate drops cached copies of the given wallets, called after a
	// transfer commits.
	Invalidate(ctx context.Context, walletIDs ...uint)
}

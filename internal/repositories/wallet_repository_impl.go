package repositories

import (
	"context"
	"fmt"
	"sort"

	"fundflow/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{
		db: db,
	}
}

func (r *walletRepository) Create(wallet *models.Wallet) error {
	result := r.db.Create(wallet)
	if result.Error != nil {
		return fmt.Errorf("failed to create wallet: %w", result.Error)
	}
	return nil
}

func (r *walletRepository) GetByID(id uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.First(&wallet, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

func (r *walletRepository) GetByUserID(userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

func (r *walletRepository) UpdateStatus(walletID uint, status string) error {
	result := r.db.Model(&models.Wallet{}).Where("id = ?", walletID).Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update wallet status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrWalletNotFound
	}
	return nil
}

func (r *walletRepository) WithLockedWallets(ctx context.Context, ids []uint, fn func(LedgerTx) error) error {
	// De-duplicate and sort: locking in ascending id order is the
	// deadlock-avoidance invariant for overlapping transfers.
	seen := make(map[uint]bool, len(ids))
	locked := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			locked = append(locked, id)
		}
	}
	sort.Slice(locked, func(i, j int) bool { return locked[i] < locked[j] })

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var wallets []models.Wallet
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id IN ?", locked).
			Order("id").
			Find(&wallets).Error
		if err != nil {
			return fmt.Errorf("failed to lock wallets: %w", err)
		}

		lt := &ledgerTx{db: tx, wallets: make(map[uint]*models.Wallet, len(wallets))}
		for i := range wallets {
			lt.wallets[wallets[i].ID] = &wallets[i]
		}
		return fn(lt)
	})
}

// ledgerTx wraps a gorm transaction plus the rows locked at its start.
type ledgerTx struct {
	db      *gorm.DB
	wallets map[uint]*models.Wallet
}

func (t *ledgerTx) Wallet(id uint) (*models.Wallet, bool) {
	w, ok := t.wallets[id]
	return w, ok
}

func (t *ledgerTx) AdjustBalance(id uint, delta decimal.Decimal) error {
	result := t.db.Model(&models.Wallet{}).
		Where("id = ?", id).
		Update("balance", gorm.Expr("balance + ?", delta))
	if result.Error != nil {
		return fmt.Errorf("failed to adjust balance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrWalletNotFound
	}
	return nil
}

func (t *ledgerTx) CreateTransaction(txn *models.Transaction) error {
	if err := t.db.Create(txn).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

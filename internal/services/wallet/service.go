// Package wallet provides read and lifecycle operations for wallets,
// with a Redis read-through cache in front of Postgres.
package wallet

import (
	"context"
	"fmt"
	"log"

	"fundflow/internal/models"
	"fundflow/internal/repositories"

	"github.com/shopspring/decimal"
)

type service struct {
	repo  repositories.WalletRepository
	cache CacheOperator
}

// NewService creates a new wallet service.
func NewService(repo repositories.WalletRepository, cache CacheOperator) Service {
	if repo == nil {
		panic("repo is required")
	}
	return &service{
		repo:  repo,
		cache: cache,
	}
}

func (s *service) GetWallet(ctx context.Context, walletID uint) (*models.Wallet, error) {
	if s.cache != nil {
		if wallet, err := s.cache.GetWallet(ctx, walletID); err == nil {
			return wallet, nil
		}
	}

	wallet, err := s.repo.GetByID(walletID)
	if err != nil {
		if err == repositories.ErrWalletNotFound {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.CacheWallet(ctx, wallet); err != nil {
			log.Printf("failed to cache wallet %d: %v", walletID, err)
		}
	}
	return wallet, nil
}

func (s *service) GetByUserID(ctx context.Context, userID uint) (*models.Wallet, error) {
	wallet, err := s.repo.GetByUserID(userID)
	if err != nil {
		if err == repositories.ErrWalletNotFound {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return wallet, nil
}

func (s *service) GetBalance(ctx context.Context, walletID uint) (decimal.Decimal, error) {
	wallet, err := s.GetWallet(ctx, walletID)
	if err != nil {
		return decimal.Zero, err
	}
	return wallet.Balance, nil
}

func (s *service) CreateWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	if _, err := s.repo.GetByUserID(userID); err == nil {
		return nil, ErrWalletExists
	}

	wallet := &models.Wallet{
		UserID:  userID,
		Balance: decimal.Zero,
		Status:  models.WalletStatusActive,
	}
	if err := s.repo.Create(wallet); err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}
	return wallet, nil
}

func (s *service) Invalidate(ctx context.Context, walletIDs ...uint) {
	if s.cache == nil {
		return
	}
	for _, id := range walletIDs {
		if err := s.cache.InvalidateWallet(ctx, id); err != nil {
			log.Printf("failed to invalidate wallet cache %d: %v", id, err)
		}
	}
}

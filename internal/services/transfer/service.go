package transfer

import (
	"context"
	"errors"
	"fmt"
	"log"

	"fundflow/internal/models"
	"fundflow/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// service implements the transfer Service interface.
type service struct {
	ledger    Ledger
	scheduler NotificationScheduler
	config    Config
}

// NewService creates a new transfer service instance. Zero config fields
// fall back to the default commission policy.
func NewService(ledger Ledger, scheduler NotificationScheduler, config Config) Service {
	if ledger == nil {
		panic("ledger is required")
	}
	if config.CommissionThreshold.IsZero() {
		config.CommissionThreshold = DefaultCommissionThreshold
	}
	if config.CommissionRate.IsZero() {
		config.CommissionRate = DefaultCommissionRate
	}
	if config.CollectorWalletID == 0 {
		config.CollectorWalletID = DefaultCollectorWalletID
	}

	return &service{
		ledger:    ledger,
		scheduler: scheduler,
		config:    config,
	}
}

// ExecuteTransfer moves funds between two wallets, charging a commission
// on amounts above the configured threshold. The whole mutation runs
// under row locks in one storage transaction; the recipient notification
// is scheduled only after the commit is durable.
func (s *service) ExecuteTransfer(ctx context.Context, senderID, recipientID uint, amount decimal.Decimal, note string) (*Result, error) {
	if senderID == recipientID {
		return nil, ErrSelfTransfer
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	var result *Result
	ids := []uint{senderID, recipientID, s.config.CollectorWalletID}

	err := s.ledger.WithLockedWallets(ctx, ids, func(tx repositories.LedgerTx) error {
		// Balances are re-read under lock; a pre-lock snapshot could be
		// stale by the time the locks are held.
		sender, ok := tx.Wallet(senderID)
		if !ok {
			return &WalletNotFoundError{Role: "sender", WalletID: senderID}
		}
		if _, ok := tx.Wallet(recipientID); !ok {
			return &WalletNotFoundError{Role: "recipient", WalletID: recipientID}
		}

		commission := decimal.Zero
		if amount.GreaterThan(s.config.CommissionThreshold) {
			commission = amount.Mul(s.config.CommissionRate).Round(moneyScale)
		}
		totalDebit := amount.Add(commission)

		if sender.Balance.LessThan(totalDebit) {
			return &InsufficientFundsError{Available: sender.Balance, Required: totalDebit}
		}

		groupID := uuid.New().String()

		if err := tx.AdjustBalance(senderID, totalDebit.Neg()); err != nil {
			return err
		}
		if err := tx.AdjustBalance(recipientID, amount); err != nil {
			return err
		}

		from := senderID
		record := &models.Transaction{
			SenderID:    &from,
			RecipientID: recipientID,
			Amount:      amount,
			Type:        models.TransactionTypeTransfer,
			Status:      models.TransactionStatusCompleted,
			GroupID:     groupID,
			Description: note,
		}
		if err := tx.CreateTransaction(record); err != nil {
			return err
		}

		if commission.IsPositive() {
			if _, ok := tx.Wallet(s.config.CollectorWalletID); !ok {
				return fmt.Errorf("commission collector wallet %d missing", s.config.CollectorWalletID)
			}
			if err := tx.AdjustBalance(s.config.CollectorWalletID, commission); err != nil {
				return err
			}
			if err := tx.CreateTransaction(&models.Transaction{
				SenderID:    &from,
				RecipientID: s.config.CollectorWalletID,
				Amount:      commission,
				Type:        models.TransactionTypeCommission,
				Status:      models.TransactionStatusCompleted,
				GroupID:     groupID,
				Description: fmt.Sprintf("Commission for transfer %s", groupID),
			}); err != nil {
				return err
			}
		}

		result = &Result{
			TransactionID: record.ID,
			GroupID:       groupID,
			Amount:        amount,
			Commission:    commission,
			TotalDebited:  totalDebit,
		}
		return nil
	})
	if err != nil {
		var notFound *WalletNotFoundError
		var insufficient *InsufficientFundsError
		if errors.As(err, &notFound) || errors.As(err, &insufficient) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}

	log.Printf("transfer completed: %s from wallet %d to wallet %d, commission: %s",
		result.Amount.StringFixed(2), senderID, recipientID, result.Commission.StringFixed(2))

	// The transfer is committed at this point. Scheduling is best-effort:
	// a full queue is the scheduler's problem, never the caller's.
	if s.scheduler != nil {
		s.scheduler.Schedule(recipientID, amount, senderID, result.GroupID)
	}

	return result, nil
}

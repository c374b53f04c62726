package transfer

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Service errors
var (
	ErrSelfTransfer       = errors.New("cannot transfer to the same wallet")
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrPersistenceFailure = errors.New("transfer could not be persisted")
)

// WalletNotFoundError reports which side of the transfer is missing.
type WalletNotFoundError struct {
	Role     string // "sender" or "recipient"
	WalletID uint
}

func (e *WalletNotFoundError) Error() string {
	return fmt.Sprintf("%s wallet %d not found", e.Role, e.WalletID)
}

// InsufficientFundsError carries the balance available against the total
// debit required (amount plus commission).
type InsufficientFundsError struct {
	Available decimal.Decimal
	Required  decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: available %s, required %s",
		e.Available.StringFixed(2), e.Required.StringFixed(2))
}

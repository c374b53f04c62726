package transfer

import "github.com/shopspring/decimal"

// Config holds the commission policy and the collector wallet. It is
// passed to NewService so tests can vary policy without shared state.
type Config struct {
	// CommissionThreshold is the amount above which a commission applies.
	CommissionThreshold decimal.Decimal
	// CommissionRate is the flat rate applied to the nominal amount.
	CommissionRate decimal.Decimal
	// CollectorWalletID is the wallet credited with commissions.
	CollectorWalletID uint
}

// Result describes a committed transfer.
type Result struct {
	TransactionID uint            `json:"transaction_id"`
	GroupID       string          `json:"transaction_group"`
	Amount        decimal.Decimal `json:"amount"`
	Commission    decimal.Decimal `json:"commission"`
	TotalDebited  decimal.Decimal `json:"total_debited"`
}

package transfer

import "github.com/shopspring/decimal"

// Default commission policy
var (
	DefaultCommissionThreshold = decimal.RequireFromString("1000.00")
	DefaultCommissionRate      = decimal.RequireFromString("0.10")
)

// DefaultCollectorWalletID is the wallet seeded by cmd/admin_seed.
const DefaultCollectorWalletID uint = 1

// moneyScale is the decimal precision balances are stored at.
const moneyScale = 2

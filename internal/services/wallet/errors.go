package wallet

import "errors"

// Service errors
var (
	ErrWalletNotFound   = errors.New("wallet not found")
	ErrWalletExists     = errors.New("user already has a wallet")
	ErrWalletLocked     = errors.New("wallet is locked")
	ErrInvalidOperation = errors.New("invalid operation")
)

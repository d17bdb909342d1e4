package common

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	// ErrTransferFailed indicates the host ledger rejected a transfer. It is
	// always a hard failure; callers must roll back any staged state.
	ErrTransferFailed = errors.New("common: ledger transfer failed")
	// ErrInsufficientPool indicates the funding pool cannot cover a payout.
	ErrInsufficientPool = errors.New("common: insufficient pool balance")
)

// Ledger is the fungible token ledger collaborator. It is owned by the host
// chain; modules only move balances through it and never hold funds
// themselves.
type Ledger interface {
	BalanceOf(addr [20]byte) (*big.Int, error)
	Transfer(from [20]byte, to [20]byte, amount *big.Int) error
}

// PayOut moves amount from the pool to the recipient after checking the pool
// can cover it. A short pool yields ErrInsufficientPool; a rejected transfer
// is wrapped in ErrTransferFailed so callers can match on the sentinel.
func PayOut(ledger Ledger, pool [20]byte, to [20]byte, amount *big.Int) error {
	if ledger == nil {
		return ErrTransferFailed
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil
	}
	balance, err := ledger.BalanceOf(pool)
	if err != nil {
		return err
	}
	if balance == nil || balance.Cmp(amount) < 0 {
		return ErrInsufficientPool
	}
	if err := ledger.Transfer(pool, to, amount); err != nil {
		return fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}
	return nil
}

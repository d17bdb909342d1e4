package state

import (
	"fmt"
	"math/big"
	"sync"
)

// Ledger is an in-memory fungible token ledger for tests and development
// nodes. Production deployments delegate to the host chain's ledger instead.
type Ledger struct {
	mu       sync.Mutex
	balances map[[20]byte]*big.Int
}

// NewLedger constructs an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{balances: make(map[[20]byte]*big.Int)}
}

// Mint credits freshly created tokens to an account. It exists so development
// nodes can fund reward pools; it is not part of the module-facing interface.
func (l *Ledger) Mint(addr [20]byte, amount *big.Int) {
	if amount == nil || amount.Sign() <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balances[addr] == nil {
		l.balances[addr] = big.NewInt(0)
	}
	l.balances[addr] = new(big.Int).Add(l.balances[addr], amount)
}

// BalanceOf reports the current balance of an account.
func (l *Ledger) BalanceOf(addr [20]byte) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if bal, ok := l.balances[addr]; ok {
		return new(big.Int).Set(bal), nil
	}
	return big.NewInt(0), nil
}

// Transfer moves amount between accounts, failing on insufficient funds.
func (l *Ledger) Transfer(from, to [20]byte, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return fmt.Errorf("transfer amount must be positive")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	balance := l.balances[from]
	if balance == nil || balance.Cmp(amount) < 0 {
		return fmt.Errorf("insufficient balance")
	}
	l.balances[from] = new(big.Int).Sub(balance, amount)
	if l.balances[to] == nil {
		l.balances[to] = big.NewInt(0)
	}
	l.balances[to] = new(big.Int).Add(l.balances[to], amount)
	return nil
}

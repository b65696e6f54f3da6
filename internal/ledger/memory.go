package ledger

import (
	"context"
	"sync"

	id "terraspark/pkg/domain"
	"terraspark/pkg/platform/sentinel"
)

// InMemory is a process-local ledger. The default for development wiring and
// the workhorse of the unit tests; one mutex over the balance table gives the
// all-or-nothing transfer the port demands.
type InMemory struct {
	mu       sync.Mutex
	balances map[id.AccountID]uint64
}

func NewInMemory() *InMemory {
	return &InMemory{balances: make(map[id.AccountID]uint64)}
}

// Deposit credits an account out of thin air. Seeding only; not part of the
// Ledger port.
func (l *InMemory) Deposit(_ context.Context, account id.AccountID, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[account] += amount
	return nil
}

func (l *InMemory) Transfer(_ context.Context, from, to id.AccountID, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balances[from] < amount {
		return sentinel.ErrInsufficientFunds
	}
	l.balances[from] -= amount
	l.balances[to] += amount
	return nil
}

func (l *InMemory) Balance(_ context.Context, account id.AccountID) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[account], nil
}

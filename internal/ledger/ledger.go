// Package ledger defines the Value Custody Ledger port: the external
// collaborator holding fungible balances per account.
//
// The registry consumes exactly one primitive — an atomic transfer that
// either fully applies or fails with no partial effect. Everything else
// (account creation, settlement, the token itself) belongs to the ledger
// operator.
package ledger

import (
	"context"

	id "terraspark/pkg/domain"
)

// Ledger is the custody port consumed by the lifecycle engine.
type Ledger interface {
	// Transfer atomically moves amount from one account to another. Returns
	// sentinel.ErrInsufficientFunds (possibly wrapped) when the source cannot
	// cover the amount; no partial effect in any failure case.
	Transfer(ctx context.Context, from, to id.AccountID, amount uint64) error

	// Balance reports the current balance of an account. Accounts that never
	// received funds report zero.
	Balance(ctx context.Context, account id.AccountID) (uint64, error)
}

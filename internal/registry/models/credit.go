package models

import (
	"math"
	"time"

	id "terraspark/pkg/domain"
	dErrors "terraspark/pkg/domain-errors"
)

// Credit is the central aggregate: a certificate attesting a unit of
// renewable-sourced production, backed by value locked in a per-credit
// custody account.
//
// Invariants:
//   - Amount is positive and immutable after creation
//   - Retired implies Validated
//   - Validated and Retired each transition false→true exactly once and
//     never revert
//   - Owner changes only through transfer, and only while validated and
//     not retired
//   - TransferredAt is set iff at least one transfer occurred
//
// Retirement is terminal: the record stays in the store as an immutable
// audit trail, it is never deleted.
type Credit struct {
	ID              id.CreditID   `json:"id"`
	Amount          uint64        `json:"amount"`
	RenewableSource string        `json:"renewable_source"`
	ProductionDate  string        `json:"production_date"`
	FacilityID      id.FacilityID `json:"facility_id"`
	Producer        id.AccountID  `json:"producer"`
	Owner           id.AccountID  `json:"owner"`
	Validated       bool          `json:"validated"`
	Validator       *id.AccountID `json:"validator,omitempty"`
	ValidatedAt     *time.Time    `json:"validated_at,omitempty"`
	Retired         bool          `json:"retired"`
	RetiredAt       *time.Time    `json:"retired_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	TransferredAt   *time.Time    `json:"transferred_at,omitempty"`
}

// NewCredit constructs an unvalidated, unretired credit owned by its
// producer. Amount checks run here, before any custody movement is attempted,
// so callers get CodeInvalidAmount without partial effects.
func NewCredit(creditID id.CreditID, producer id.AccountID, amount uint64, renewableSource, productionDate string, facilityID id.FacilityID, now time.Time) (*Credit, error) {
	if amount == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidAmount, "amount must be greater than zero")
	}
	// The postgres store persists amounts as BIGINT; anything above the
	// signed 64-bit range would wrap negative on insert.
	if amount > math.MaxInt64 {
		return nil, dErrors.New(dErrors.CodeInvalidAmount, "amount exceeds the maximum supported value")
	}
	if renewableSource == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "renewable source cannot be empty")
	}
	return &Credit{
		ID:              creditID,
		Amount:          amount,
		RenewableSource: renewableSource,
		ProductionDate:  productionDate,
		FacilityID:      facilityID,
		Producer:        producer,
		Owner:           producer,
		Validated:       false,
		Retired:         false,
		CreatedAt:       now,
	}, nil
}

// CustodyAccount returns the ledger account holding this credit's locked
// value, derived from the credit ID.
func (c *Credit) CustodyAccount() id.AccountID {
	return c.ID.CustodyAccount()
}

// CanValidate checks whether the credit may receive validation.
// Use with ApplyValidation in Execute callbacks.
func (c *Credit) CanValidate() error {
	if c.Retired {
		return dErrors.New(dErrors.CodeAlreadyRetired, "credit is retired")
	}
	if c.Validated {
		return dErrors.New(dErrors.CodeAlreadyValidated, "credit is already validated")
	}
	return nil
}

// ApplyValidation stamps the validator and timestamp. Call CanValidate first;
// the pair runs under the store's per-record lock.
func (c *Credit) ApplyValidation(validator id.AccountID, now time.Time) {
	c.Validated = true
	c.Validator = &validator
	c.ValidatedAt = &now
}

// CanTransfer checks whether caller may move ownership to another account.
func (c *Credit) CanTransfer(caller id.AccountID) error {
	if !c.Validated {
		return dErrors.New(dErrors.CodeNotValidated, "credit must be validated before transfer")
	}
	if c.Retired {
		return dErrors.New(dErrors.CodeAlreadyRetired, "credit is already retired")
	}
	if c.Owner != caller {
		return dErrors.New(dErrors.CodeNotOwner, "caller is not the credit owner")
	}
	return nil
}

// ApplyTransfer moves certificate ownership. The custodied value stays where
// it is; only the logical owner pointer changes.
func (c *Credit) ApplyTransfer(newOwner id.AccountID, now time.Time) {
	c.Owner = newOwner
	c.TransferredAt = &now
}

// CanRetire checks whether caller may terminally consume the credit.
func (c *Credit) CanRetire(caller id.AccountID) error {
	if !c.Validated {
		return dErrors.New(dErrors.CodeNotValidated, "credit must be validated before retirement")
	}
	if c.Retired {
		return dErrors.New(dErrors.CodeAlreadyRetired, "credit is already retired")
	}
	if c.Owner != caller {
		return dErrors.New(dErrors.CodeNotOwner, "caller is not the credit owner")
	}
	return nil
}

// ApplyRetirement marks the credit retired. The custody release must have
// succeeded before this is applied; the service sequences the two under the
// store's per-record lock.
func (c *Credit) ApplyRetirement(now time.Time) {
	c.Retired = true
	c.RetiredAt = &now
}

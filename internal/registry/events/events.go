// Package events defines the lifecycle events the engine emits after each
// successful state transition, and the Publisher port sinks implement.
//
// Emission is observability plumbing, not part of any transaction: the engine
// hands a committed transition to the dispatcher and moves on. A sink that
// drops an event never rolls back the transition it describes.
package events

import (
	"context"
	"time"

	id "terraspark/pkg/domain"
)

// Type discriminates event payloads on the wire.
type Type string

const (
	TypeCreditIssued      Type = "credit_issued"
	TypeCreditValidated   Type = "credit_validated"
	TypeCreditTransferred Type = "credit_transferred"
	TypeCreditRetired     Type = "credit_retired"
	TypeFacilityCertified Type = "facility_certified"
)

// Event is the envelope for all lifecycle events. Exactly one payload field
// is non-nil, matching Kind.
type Event struct {
	Kind       Type               `json:"kind"`
	OccurredAt time.Time          `json:"occurred_at"`
	Issued     *CreditIssued      `json:"credit_issued,omitempty"`
	Validated  *CreditValidated   `json:"credit_validated,omitempty"`
	Transfer   *CreditTransferred `json:"credit_transferred,omitempty"`
	Retired    *CreditRetired     `json:"credit_retired,omitempty"`
	Certified  *FacilityCertified `json:"facility_certified,omitempty"`
}

// CreditIssued is emitted once per successful issuance.
type CreditIssued struct {
	Credit          id.CreditID  `json:"credit"`
	Producer        id.AccountID `json:"producer"`
	Amount          uint64       `json:"amount"`
	RenewableSource string       `json:"renewable_source"`
}

// CreditValidated is emitted when a validator stamps a credit.
type CreditValidated struct {
	Credit      id.CreditID  `json:"credit"`
	Validator   id.AccountID `json:"validator"`
	ValidatedAt time.Time    `json:"validated_at"`
}

// CreditTransferred is emitted on every ownership transfer.
type CreditTransferred struct {
	Credit        id.CreditID  `json:"credit"`
	From          id.AccountID `json:"from"`
	To            id.AccountID `json:"to"`
	TransferredAt time.Time    `json:"transferred_at"`
}

// CreditRetired is emitted when a credit is terminally consumed.
type CreditRetired struct {
	Credit    id.CreditID  `json:"credit"`
	Owner     id.AccountID `json:"owner"`
	Amount    uint64       `json:"amount"`
	RetiredAt time.Time    `json:"retired_at"`
}

// FacilityCertified is emitted once per facility certification.
type FacilityCertified struct {
	Facility        id.FacilityID `json:"facility"`
	Producer        id.AccountID  `json:"producer"`
	RenewableSource string        `json:"renewable_source"`
	Capacity        uint64        `json:"capacity"`
}

// CreditID returns the credit the event concerns, or the nil ID for facility
// events. Used as the partition key so per-credit ordering survives Kafka.
func (e Event) CreditID() id.CreditID {
	switch {
	case e.Issued != nil:
		return e.Issued.Credit
	case e.Validated != nil:
		return e.Validated.Credit
	case e.Transfer != nil:
		return e.Transfer.Credit
	case e.Retired != nil:
		return e.Retired.Credit
	}
	return id.CreditID{}
}

// Publisher delivers events to an external sink.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

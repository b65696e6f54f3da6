package domain

import (
	"github.com/google/uuid"

	dErrors "terraspark/pkg/domain-errors"
)

// Typed identifiers for the registry's entities. Using distinct types keeps a
// CreditID from ever being passed where a FacilityID or AccountID is expected;
// the compiler enforces what a plain uuid.UUID would not.
//
// Construct via the Parse* functions at trust boundaries (HTTP handlers,
// message consumers); direct conversion bypasses validation.
type (
	// CreditID identifies a single credit record.
	CreditID uuid.UUID

	// FacilityID identifies a certified production facility.
	FacilityID uuid.UUID

	// AccountID identifies a participant identity: producers, owners,
	// validators, and the per-credit custody accounts all live in this space.
	AccountID uuid.UUID
)

func parseUUID(s, what string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+what)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" cannot be the nil UUID")
	}
	return u, nil
}

// ParseCreditID validates and returns a CreditID from external input.
func ParseCreditID(s string) (CreditID, error) {
	u, err := parseUUID(s, "credit id")
	if err != nil {
		return CreditID{}, err
	}
	return CreditID(u), nil
}

// ParseFacilityID validates and returns a FacilityID from external input.
func ParseFacilityID(s string) (FacilityID, error) {
	u, err := parseUUID(s, "facility id")
	if err != nil {
		return FacilityID{}, err
	}
	return FacilityID(u), nil
}

// ParseAccountID validates and returns an AccountID from external input.
func ParseAccountID(s string) (AccountID, error) {
	u, err := parseUUID(s, "account id")
	if err != nil {
		return AccountID{}, err
	}
	return AccountID(u), nil
}

func (c CreditID) String() string   { return uuid.UUID(c).String() }
func (f FacilityID) String() string { return uuid.UUID(f).String() }
func (a AccountID) String() string  { return uuid.UUID(a).String() }

func (c CreditID) IsNil() bool   { return uuid.UUID(c) == uuid.Nil }
func (f FacilityID) IsNil() bool { return uuid.UUID(f) == uuid.Nil }
func (a AccountID) IsNil() bool  { return uuid.UUID(a) == uuid.Nil }

// Text marshaling keeps the canonical UUID string on the wire. Defined types
// do not inherit uuid.UUID's methods, so these delegate explicitly.

func (c CreditID) MarshalText() ([]byte, error)   { return uuid.UUID(c).MarshalText() }
func (f FacilityID) MarshalText() ([]byte, error) { return uuid.UUID(f).MarshalText() }
func (a AccountID) MarshalText() ([]byte, error)  { return uuid.UUID(a).MarshalText() }

func (c *CreditID) UnmarshalText(b []byte) error   { return (*uuid.UUID)(c).UnmarshalText(b) }
func (f *FacilityID) UnmarshalText(b []byte) error { return (*uuid.UUID)(f).UnmarshalText(b) }
func (a *AccountID) UnmarshalText(b []byte) error  { return (*uuid.UUID)(a).UnmarshalText(b) }

// CustodyAccount derives the custody AccountID tied 1:1 to a credit. The
// derivation is deterministic (UUIDv5 in a dedicated namespace) so the custody
// account never needs to be stored alongside the record.
func (c CreditID) CustodyAccount() AccountID {
	raw := uuid.UUID(c)
	return AccountID(uuid.NewSHA1(custodyNamespace, raw[:]))
}

// custodyNamespace isolates custody account derivation from any other UUIDv5
// usage. The value is fixed for the life of the registry.
var custodyNamespace = uuid.MustParse("7f1c2a4e-9d35-4b61-8f0a-5c3e6d2b1a90")

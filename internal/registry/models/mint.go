package models

import (
	"time"

	id "terraspark/pkg/domain"
	dErrors "terraspark/pkg/domain-errors"
)

// CreditMint describes the registry deployment itself: display metadata plus
// the authority that configured it. One record exists per deployment, created
// at initialization and immutable except by its authority (no operation
// currently exercises that).
type CreditMint struct {
	Name        string       `json:"name"`
	Symbol      string       `json:"symbol"`
	MetadataURI string       `json:"metadata_uri"`
	Authority   id.AccountID `json:"authority"`
	CreatedAt   time.Time    `json:"created_at"`
}

// NewCreditMint constructs the registry's mint record.
func NewCreditMint(name, symbol, metadataURI string, authority id.AccountID, now time.Time) (*CreditMint, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "mint name cannot be empty")
	}
	if symbol == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "mint symbol cannot be empty")
	}
	if authority.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "mint authority is required")
	}
	return &CreditMint{
		Name:        name,
		Symbol:      symbol,
		MetadataURI: metadataURI,
		Authority:   authority,
		CreatedAt:   now,
	}, nil
}

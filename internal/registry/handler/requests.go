package handler

import (
	"strings"

	id "terraspark/pkg/domain"
	dErrors "terraspark/pkg/domain-errors"
)

// IssueRequest is the HTTP request body for POST /v1/credits.
type IssueRequest struct {
	Amount          uint64 `json:"amount"`
	RenewableSource string `json:"renewable_source"`
	ProductionDate  string `json:"production_date"`
	FacilityID      string `json:"facility_id"`

	// Parsed values (populated by Validate)
	parsedFacilityID id.FacilityID
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *IssueRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.Amount == 0 {
		return dErrors.New(dErrors.CodeInvalidAmount, "amount must be greater than zero")
	}
	r.RenewableSource = strings.TrimSpace(r.RenewableSource)
	if r.RenewableSource == "" {
		return dErrors.New(dErrors.CodeValidation, "renewable_source is required")
	}
	facilityID, err := id.ParseFacilityID(strings.TrimSpace(r.FacilityID))
	if err != nil {
		return err
	}
	r.parsedFacilityID = facilityID
	return nil
}

// ParsedFacilityID returns the facility ID parsed during Validate.
func (r *IssueRequest) ParsedFacilityID() id.FacilityID {
	return r.parsedFacilityID
}

// TransferRequest is the HTTP request body for POST /v1/credits/{id}/transfer.
type TransferRequest struct {
	NewOwner string `json:"new_owner"`

	parsedNewOwner id.AccountID
}

// Validate validates and parses the request.
func (r *TransferRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	newOwner, err := id.ParseAccountID(strings.TrimSpace(r.NewOwner))
	if err != nil {
		return err
	}
	r.parsedNewOwner = newOwner
	return nil
}

// ParsedNewOwner returns the account ID parsed during Validate.
func (r *TransferRequest) ParsedNewOwner() id.AccountID {
	return r.parsedNewOwner
}

// CertifyRequest is the HTTP request body for POST /v1/facilities.
type CertifyRequest struct {
	Name            string `json:"name"`
	Location        string `json:"location"`
	RenewableSource string `json:"renewable_source"`
	Capacity        uint64 `json:"capacity"`
}

// Validate validates the request.
func (r *CertifyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	r.RenewableSource = strings.TrimSpace(r.RenewableSource)
	if r.RenewableSource == "" {
		return dErrors.New(dErrors.CodeValidation, "renewable_source is required")
	}
	if r.Capacity == 0 {
		return dErrors.New(dErrors.CodeValidation, "capacity must be greater than zero")
	}
	return nil
}

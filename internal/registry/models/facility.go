package models

import (
	"time"

	id "terraspark/pkg/domain"
	dErrors "terraspark/pkg/domain-errors"
)

// Facility is a certified renewable-production site. Records are immutable
// once created; there is no decertification operation, so Certified is
// always true on a stored record. Capacity and RenewableSource are advisory
// metadata consumed informationally by issuance.
type Facility struct {
	ID              id.FacilityID `json:"id"`
	Name            string        `json:"name"`
	Location        string        `json:"location"`
	RenewableSource string        `json:"renewable_source"`
	Capacity        uint64        `json:"capacity"`
	Producer        id.AccountID  `json:"producer"`
	Certified       bool          `json:"certified"`
	CertifiedAt     time.Time     `json:"certified_at"`
}

// NewFacility constructs a certified facility record.
func NewFacility(facilityID id.FacilityID, producer id.AccountID, name, location, renewableSource string, capacity uint64, now time.Time) (*Facility, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "facility name cannot be empty")
	}
	if renewableSource == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "renewable source cannot be empty")
	}
	if capacity == 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "capacity must be greater than zero")
	}
	return &Facility{
		ID:              facilityID,
		Name:            name,
		Location:        location,
		RenewableSource: renewableSource,
		Capacity:        capacity,
		Producer:        producer,
		Certified:       true,
		CertifiedAt:     now,
	}, nil
}

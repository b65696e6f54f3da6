package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"terraspark/internal/registry/events"
	"terraspark/internal/registry/models"
	id "terraspark/pkg/domain"
	dErrors "terraspark/pkg/domain-errors"
	"terraspark/pkg/requestcontext"
)

// CertifyRequest carries the parameters of a facility certification.
type CertifyRequest struct {
	Producer        id.AccountID
	Name            string
	Location        string
	RenewableSource string
	Capacity        uint64
}

// Certify records a certified production facility. The record is immutable;
// there is no decertification in the current scope. Who may certify is the
// policy collaborator's decision.
func (s *Service) Certify(ctx context.Context, req CertifyRequest) (_ *models.Facility, err error) {
	ctx, span := s.tracer.Start(ctx, "registry.certify")
	defer span.End()
	start := time.Now()
	defer func() { s.observe("certify", start, err) }()

	if !s.policy.IsAuthorizedToCertify(ctx, req.Producer) {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "identity is not authorized to certify facilities")
	}
	if req.Capacity == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidAmount, "capacity must be greater than zero")
	}

	now := requestcontext.Now(ctx)
	facilityID := id.FacilityID(uuid.New())
	facility, err := models.NewFacility(facilityID, req.Producer, req.Name, req.Location, req.RenewableSource, req.Capacity, now)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
		}
		return nil, err
	}
	span.SetAttributes(attribute.String("facility_id", facilityID.String()))

	if err := s.facilities.Create(ctx, facility); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create facility record")
	}

	if s.metrics != nil {
		s.metrics.FacilitiesCertified.Inc()
	}
	s.emit(ctx, events.Event{
		Kind:       events.TypeFacilityCertified,
		OccurredAt: now,
		Certified: &events.FacilityCertified{
			Facility:        facilityID,
			Producer:        req.Producer,
			RenewableSource: req.RenewableSource,
			Capacity:        req.Capacity,
		},
	})
	s.logger.InfoContext(ctx, "facility certified",
		"request_id", requestcontext.RequestID(ctx),
		"facility_id", facilityID,
		"producer", req.Producer,
		"capacity", req.Capacity,
	)
	return facility, nil
}

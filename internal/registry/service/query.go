package service

import (
	"context"
	"errors"

	"terraspark/internal/registry/models"
	id "terraspark/pkg/domain"
	dErrors "terraspark/pkg/domain-errors"
	"terraspark/pkg/platform/sentinel"
)

// GetCredit returns a credit by ID.
func (s *Service) GetCredit(ctx context.Context, creditID id.CreditID) (*models.Credit, error) {
	credit, err := s.credits.FindByID(ctx, creditID)
	if err != nil {
		return nil, wrapCreditErr(err)
	}
	return credit, nil
}

// ListCreditsByOwner returns all credits currently held by owner.
func (s *Service) ListCreditsByOwner(ctx context.Context, owner id.AccountID) ([]*models.Credit, error) {
	credits, err := s.credits.ListByOwner(ctx, owner)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "credit store failure")
	}
	return credits, nil
}

// ListCreditsByProducer returns all credits originally issued by producer.
func (s *Service) ListCreditsByProducer(ctx context.Context, producer id.AccountID) ([]*models.Credit, error) {
	credits, err := s.credits.ListByProducer(ctx, producer)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "credit store failure")
	}
	return credits, nil
}

// GetFacility returns a facility by ID.
func (s *Service) GetFacility(ctx context.Context, facilityID id.FacilityID) (*models.Facility, error) {
	facility, err := s.facilities.FindByID(ctx, facilityID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "facility not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "facility store failure")
	}
	return facility, nil
}

// ListFacilitiesByProducer returns all facilities certified for producer.
func (s *Service) ListFacilitiesByProducer(ctx context.Context, producer id.AccountID) ([]*models.Facility, error) {
	facilities, err := s.facilities.ListByProducer(ctx, producer)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "facility store failure")
	}
	return facilities, nil
}

// GetMint returns the registry's CreditMint record.
func (s *Service) GetMint(ctx context.Context) (*models.CreditMint, error) {
	mint, err := s.mints.Get(ctx)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "registry is not initialized")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "mint store failure")
	}
	return mint, nil
}

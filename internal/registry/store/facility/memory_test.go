package facility

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"terraspark/internal/registry/models"
	id "terraspark/pkg/domain"
	"terraspark/pkg/platform/sentinel"
)

type FacilityStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *FacilityStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestFacilityStoreSuite(t *testing.T) {
	suite.Run(t, new(FacilityStoreSuite))
}

func (s *FacilityStoreSuite) newFacility(producer id.AccountID) *models.Facility {
	facility, err := models.NewFacility(
		id.FacilityID(uuid.New()),
		producer,
		"North Field Electrolyzer",
		"Hamburg",
		"wind",
		500,
		time.Now(),
	)
	s.Require().NoError(err)
	return facility
}

func (s *FacilityStoreSuite) TestCreationAndLookups() {
	s.Run("creates and finds facility by ID", func() {
		facility := s.newFacility(id.AccountID(uuid.New()))
		s.Require().NoError(s.store.Create(s.ctx, facility))

		found, err := s.store.FindByID(s.ctx, facility.ID)
		s.Require().NoError(err)
		s.Equal(facility.Name, found.Name)
		s.True(found.Certified)
	})

	s.Run("rejects duplicate ID", func() {
		facility := s.newFacility(id.AccountID(uuid.New()))
		s.Require().NoError(s.store.Create(s.ctx, facility))
		s.Require().ErrorIs(s.store.Create(s.ctx, facility), sentinel.ErrConflict)
	})

	s.Run("returns ErrNotFound for unknown ID", func() {
		_, err := s.store.FindByID(s.ctx, id.FacilityID(uuid.New()))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *FacilityStoreSuite) TestListByProducer() {
	producer := id.AccountID(uuid.New())
	s.Require().NoError(s.store.Create(s.ctx, s.newFacility(producer)))
	s.Require().NoError(s.store.Create(s.ctx, s.newFacility(producer)))
	s.Require().NoError(s.store.Create(s.ctx, s.newFacility(id.AccountID(uuid.New()))))

	facilities, err := s.store.ListByProducer(s.ctx, producer)
	s.Require().NoError(err)
	s.Len(facilities, 2)

	none, err := s.store.ListByProducer(s.ctx, id.AccountID(uuid.New()))
	s.Require().NoError(err)
	s.Empty(none)
}

package facility

import (
	"context"
	"sync"

	"terraspark/internal/registry/models"
	id "terraspark/pkg/domain"
	"terraspark/pkg/platform/sentinel"
)

// InMemory stores facility records in process memory. Facilities are written
// once by certification and never mutated, so a single RWMutex over the map
// is all the coordination needed.
type InMemory struct {
	mu      sync.RWMutex
	records map[id.FacilityID]*models.Facility
}

func NewInMemory() *InMemory {
	return &InMemory{records: make(map[id.FacilityID]*models.Facility)}
}

// Create inserts a facility record. Returns sentinel.ErrConflict if the ID is
// already taken.
func (s *InMemory) Create(_ context.Context, facility *models.Facility) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[facility.ID]; exists {
		return sentinel.ErrConflict
	}
	cp := *facility
	s.records[facility.ID] = &cp
	return nil
}

// FindByID returns a copy of the record or sentinel.ErrNotFound.
func (s *InMemory) FindByID(_ context.Context, facilityID id.FacilityID) (*models.Facility, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[facilityID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *record
	return &cp, nil
}

// ListByProducer returns all facilities certified for producer.
func (s *InMemory) ListByProducer(_ context.Context, producer id.AccountID) ([]*models.Facility, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Facility
	for _, record := range s.records {
		if record.Producer == producer {
			cp := *record
			out = append(out, &cp)
		}
	}
	return out, nil
}

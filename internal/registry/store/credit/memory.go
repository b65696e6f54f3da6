package credit

import (
	"context"
	"sync"

	"terraspark/internal/registry/models"
	id "terraspark/pkg/domain"
	"terraspark/pkg/platform/sentinel"
)

// InMemory stores credit records in process memory.
//
// Execute serializes operations per credit: a dedicated mutex per record is
// held across the caller's whole callback, so a loser of a race observes the
// winner's post-state when its own callback finally runs. Operations on
// different credits proceed in parallel.
type InMemory struct {
	mu      sync.RWMutex
	records map[id.CreditID]*models.Credit
	locks   map[id.CreditID]*sync.Mutex
}

func NewInMemory() *InMemory {
	return &InMemory{
		records: make(map[id.CreditID]*models.Credit),
		locks:   make(map[id.CreditID]*sync.Mutex),
	}
}

// Create inserts a new credit record. Returns sentinel.ErrConflict if the ID
// is already taken.
func (s *InMemory) Create(_ context.Context, credit *models.Credit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[credit.ID]; exists {
		return sentinel.ErrConflict
	}
	cp := *credit
	s.records[credit.ID] = &cp
	return nil
}

// FindByID returns a copy of the record or sentinel.ErrNotFound.
func (s *InMemory) FindByID(_ context.Context, creditID id.CreditID) (*models.Credit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[creditID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *record
	return &cp, nil
}

// ListByOwner returns all credits currently held by owner.
func (s *InMemory) ListByOwner(_ context.Context, owner id.AccountID) ([]*models.Credit, error) {
	return s.list(func(c *models.Credit) bool { return c.Owner == owner })
}

// ListByProducer returns all credits originally issued by producer.
func (s *InMemory) ListByProducer(_ context.Context, producer id.AccountID) ([]*models.Credit, error) {
	return s.list(func(c *models.Credit) bool { return c.Producer == producer })
}

func (s *InMemory) list(match func(*models.Credit) bool) ([]*models.Credit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Credit
	for _, record := range s.records {
		if match(record) {
			cp := *record
			out = append(out, &cp)
		}
	}
	return out, nil
}

// Execute runs fn against the record under the per-record lock and persists
// the result iff fn returns nil. fn receives a private copy, so a failing
// callback leaves the stored record untouched regardless of what it did to
// the copy.
func (s *InMemory) Execute(_ context.Context, creditID id.CreditID, fn func(credit *models.Credit) error) (*models.Credit, error) {
	lock, err := s.recordLock(creditID)
	if err != nil {
		return nil, err
	}
	lock.Lock()
	defer lock.Unlock()

	s.mu.RLock()
	record, ok := s.records[creditID]
	s.mu.RUnlock()
	if !ok {
		return nil, sentinel.ErrNotFound
	}

	working := *record
	if err := fn(&working); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.records[creditID] = &working
	s.mu.Unlock()

	cp := working
	return &cp, nil
}

func (s *InMemory) recordLock(creditID id.CreditID) (*sync.Mutex, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[creditID]; !exists {
		return nil, sentinel.ErrNotFound
	}
	lock, ok := s.locks[creditID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[creditID] = lock
	}
	return lock, nil
}

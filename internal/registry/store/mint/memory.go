package mint

import (
	"context"
	"sync"

	"terraspark/internal/registry/models"
	"terraspark/pkg/platform/sentinel"
)

// InMemory holds the single CreditMint record for the deployment.
type InMemory struct {
	mu     sync.RWMutex
	record *models.CreditMint
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

// Create stores the mint record. A second create returns
// sentinel.ErrConflict; one registry deployment has exactly one mint.
func (s *InMemory) Create(_ context.Context, mint *models.CreditMint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record != nil {
		return sentinel.ErrConflict
	}
	cp := *mint
	s.record = &cp
	return nil
}

// Get returns the mint record or sentinel.ErrNotFound before initialization.
func (s *InMemory) Get(_ context.Context) (*models.CreditMint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.record == nil {
		return nil, sentinel.ErrNotFound
	}
	cp := *s.record
	return &cp, nil
}

package store

import (
	"context"
	"sync"
	"time"

	"plansign/internal/contract/models"
	"plansign/pkg/platform/sentinel"
)

// InMemory keeps the aggregate store lightweight and testable. Writes are
// serialized behind a mutex, which also gives ReplaceAudit its atomicity.
type InMemory struct {
	mu        sync.RWMutex
	contracts map[string]*models.Contract
}

func NewInMemory() *InMemory {
	return &InMemory{contracts: make(map[string]*models.Contract)}
}

func (s *InMemory) Create(_ context.Context, contract *models.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.contracts[contract.ID]; exists {
		return sentinel.ErrConflict
	}
	s.contracts[contract.ID] = contract.Clone()
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id string) (*models.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.contracts[id]; ok {
		return c.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) FindByEvent(_ context.Context, eventID string) ([]*models.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Contract
	for _, c := range s.contracts {
		if c.EventID == eventID {
			out = append(out, c.Clone())
		}
	}
	return out, nil
}

func (s *InMemory) Update(_ context.Context, contract *models.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contracts[contract.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.contracts[contract.ID] = contract.Clone()
	return nil
}

func (s *InMemory) ReplaceAudit(_ context.Context, contractID string, record models.SignatureAudit, newState models.WorkflowState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contracts[contractID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if c.AuditTrail == nil {
		c.AuditTrail = make(map[string]models.SignatureAudit)
	}
	c.AuditTrail[record.FieldID] = record
	c.Workflow.Status = newState
	c.LastEdited = time.Now()
	return nil
}

func (s *InMemory) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contracts[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.contracts, id)
	return nil
}

package audit

import (
	"context"
	"sync"
)

// Store is an append-only sink for lifecycle events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByContract(ctx context.Context, contractID string) ([]Event, error)
}

// InMemoryStore keeps events in insertion order, for tests and single-node
// deployments without Kafka.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *InMemoryStore) ListByContract(_ context.Context, contractID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, e := range s.events {
		if e.ContractID == contractID {
			out = append(out, e)
		}
	}
	return out, nil
}

// Package notify is the boundary to the notification/send collaborator. The
// core never dispatches anything itself; it only consumes the fact that a
// contract has been sent to its signers, as the precondition for the
// saved -> sent transition.
package notify

import (
	"context"
	"sync"
)

// DispatchSignal records and reports whether a contract has been dispatched.
type DispatchSignal interface {
	MarkDispatched(ctx context.Context, contractID string) error
	Dispatched(ctx context.Context, contractID string) (bool, error)
}

// InMemory is the single-node implementation.
type InMemory struct {
	mu         sync.RWMutex
	dispatched map[string]bool
}

func NewInMemory() *InMemory {
	return &InMemory{dispatched: make(map[string]bool)}
}

func (s *InMemory) MarkDispatched(_ context.Context, contractID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatched[contractID] = true
	return nil
}

func (s *InMemory) Dispatched(_ context.Context, contractID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dispatched[contractID], nil
}

package store

import (
	"context"

	"plansign/internal/contract/models"
)

// ContractStore persists the Contract aggregate. Implementations are
// last-writer-wins at the record granularity; ReplaceAudit is the single
// atomic replace-or-append primitive the signing pipeline relies on, so no
// read-modify-write ever spans a network call.
type ContractStore interface {
	Create(ctx context.Context, contract *models.Contract) error
	FindByID(ctx context.Context, id string) (*models.Contract, error)
	FindByEvent(ctx context.Context, eventID string) ([]*models.Contract, error)
	// Update overwrites the aggregate (fields, workflow, lastEdited).
	Update(ctx context.Context, contract *models.Contract) error
	// ReplaceAudit atomically inserts or replaces the audit record for its
	// field and moves the workflow to newState in the same write.
	ReplaceAudit(ctx context.Context, contractID string, record models.SignatureAudit, newState models.WorkflowState) error
	// Delete removes the aggregate, cascading its document reference and all
	// audit records.
	Delete(ctx context.Context, id string) error
}

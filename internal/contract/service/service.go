// Package service orchestrates the contract aggregate: field configuration in
// draft, the workflow state machine, and audit-record driven state
// re-evaluation. Handlers stay thin; stores stay dumb.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"plansign/internal/audit"
	"plansign/internal/contract/models"
	"plansign/internal/contract/store"
	"plansign/internal/notify"
	"plansign/internal/platform/metrics"
	dErrors "plansign/pkg/domain-errors"
	"plansign/pkg/platform/sentinel"
)

type Service struct {
	store    store.ContractStore
	dispatch notify.DispatchSignal
	auditor  *audit.Publisher
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time
}

func New(contracts store.ContractStore, dispatch notify.DispatchSignal, auditor *audit.Publisher, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		store:    contracts,
		dispatch: dispatch,
		auditor:  auditor,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateParams describes a new contract attached to an event.
type CreateParams struct {
	EventID      string
	FileName     string
	ContractURL  string
	IsElectronic bool
}

func (s *Service) Create(ctx context.Context, params CreateParams, actor string) (*models.Contract, error) {
	if params.FileName == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "fileName must not be empty")
	}
	c := &models.Contract{
		ID:          uuid.NewString(),
		EventID:     params.EventID,
		FileName:    params.FileName,
		ContractURL: params.ContractURL,
		LastEdited:  s.now(),
		Fields:      []models.SignatureField{},
		AuditTrail:  map[string]models.SignatureAudit{},
		Workflow:    models.SignatureWorkflow{IsElectronic: params.IsElectronic},
	}
	if params.IsElectronic {
		c.Workflow.Status = models.WorkflowDraft
	}
	if err := s.store.Create(ctx, c); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to create contract", err)
	}
	s.metrics.ContractsCreated.Inc()
	s.emit(ctx, audit.Event{ContractID: c.ID, Actor: actor, Action: audit.ActionContractCreated, Detail: params.FileName})
	return c, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Contract, error) {
	return s.find(ctx, id)
}

func (s *Service) ListByEvent(ctx context.Context, eventID string) ([]*models.Contract, error) {
	contracts, err := s.store.FindByEvent(ctx, eventID)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to list contracts", err)
	}
	return contracts, nil
}

// Delete removes the aggregate and cascades its document reference and all
// audit records with it.
func (s *Service) Delete(ctx context.Context, id string, actor string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "contract not found")
		}
		return dErrors.Wrap(dErrors.CodeInternal, "failed to delete contract", err)
	}
	s.emit(ctx, audit.Event{ContractID: id, Actor: actor, Action: audit.ActionContractDeleted})
	return nil
}

// AddField appends a field with a generated unique id and empty assigned
// email. Allowed only in draft.
func (s *Service) AddField(ctx context.Context, contractID string, fieldType models.FieldType, role models.SignerRole, actor string) (*models.SignatureField, error) {
	c, err := s.findElectronic(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if c.Workflow.Status != models.WorkflowDraft {
		return nil, dErrors.Newf(dErrors.CodeInvalidState, "fields can only be added in draft, contract is %s", c.Workflow.Status)
	}
	if !fieldType.Valid() {
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "unknown field type %q", fieldType)
	}
	if !role.Valid() {
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "unknown signer role %q", role)
	}

	field := models.SignatureField{
		ID:         uuid.NewString(),
		Type:       fieldType,
		Page:       1,
		SignerRole: role,
		Required:   fieldType == models.FieldSignature,
	}
	c.Fields = append(c.Fields, field)
	c.LastEdited = s.now()
	if err := s.store.Update(ctx, c); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to add field", err)
	}
	s.emit(ctx, audit.Event{ContractID: c.ID, FieldID: field.ID, Actor: actor, Action: audit.ActionFieldAdded, Detail: string(fieldType) + "/" + string(role)})
	return &field, nil
}

// UpdateField applies a partial patch. Allowed only in draft; the signer role
// is frozen once an audit record exists for the field.
func (s *Service) UpdateField(ctx context.Context, contractID, fieldID string, patch models.FieldPatch, actor string) (*models.SignatureField, error) {
	c, err := s.findElectronic(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if c.Workflow.Status != models.WorkflowDraft {
		return nil, dErrors.Newf(dErrors.CodeInvalidState, "fields can only be edited in draft, contract is %s", c.Workflow.Status)
	}
	field := c.FieldByID(fieldID)
	if field == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "field not found")
	}
	if patch.SignerRole != nil && *patch.SignerRole != field.SignerRole {
		if _, signed := c.Audit(fieldID); signed {
			return nil, dErrors.New(dErrors.CodeInvalidState, "signer role cannot change after the field has been signed")
		}
		if !patch.SignerRole.Valid() {
			return nil, dErrors.Newf(dErrors.CodeBadRequest, "unknown signer role %q", *patch.SignerRole)
		}
		field.SignerRole = *patch.SignerRole
	}
	if patch.Type != nil {
		if !patch.Type.Valid() {
			return nil, dErrors.Newf(dErrors.CodeBadRequest, "unknown field type %q", *patch.Type)
		}
		field.Type = *patch.Type
	}
	if patch.Page != nil {
		field.Page = *patch.Page
	}
	if patch.X != nil {
		field.X = *patch.X
	}
	if patch.Y != nil {
		field.Y = *patch.Y
	}
	if patch.Required != nil {
		field.Required = *patch.Required
	}
	if patch.AssignedEmail != nil {
		field.AssignedEmail = *patch.AssignedEmail
	}

	c.LastEdited = s.now()
	if err := s.store.Update(ctx, c); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to update field", err)
	}
	updated := *field
	s.emit(ctx, audit.Event{ContractID: c.ID, FieldID: fieldID, Actor: actor, Action: audit.ActionFieldUpdated})
	return &updated, nil
}

// RemoveField deletes a field. Allowed only in draft.
func (s *Service) RemoveField(ctx context.Context, contractID, fieldID string, actor string) error {
	c, err := s.findElectronic(ctx, contractID)
	if err != nil {
		return err
	}
	if c.Workflow.Status != models.WorkflowDraft {
		return dErrors.Newf(dErrors.CodeInvalidState, "fields can only be removed in draft, contract is %s", c.Workflow.Status)
	}
	idx := -1
	for i := range c.Fields {
		if c.Fields[i].ID == fieldID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return dErrors.New(dErrors.CodeNotFound, "field not found")
	}
	c.Fields = append(c.Fields[:idx], c.Fields[idx+1:]...)
	c.LastEdited = s.now()
	if err := s.store.Update(ctx, c); err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "failed to remove field", err)
	}
	s.emit(ctx, audit.Event{ContractID: c.ID, FieldID: fieldID, Actor: actor, Action: audit.ActionFieldRemoved})
	return nil
}

// Save finalizes the field configuration: draft -> saved. Every validation
// problem is reported in one aggregate error; the state is left unchanged on
// failure.
func (s *Service) Save(ctx context.Context, contractID string, actor string) (*models.Contract, error) {
	c, err := s.findElectronic(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if !c.Workflow.Status.CanTransition(models.WorkflowSaved) {
		return nil, dErrors.Newf(dErrors.CodeInvalidState, "cannot save contract in state %s", c.Workflow.Status)
	}
	if err := validateFieldsForSave(c); err != nil {
		return nil, err
	}
	return s.transition(ctx, c, models.WorkflowSaved, audit.ActionContractSaved, actor)
}

// Send marks the contract as dispatched to signers: saved -> sent. The
// dispatch itself is the notification collaborator's job; this transition
// only requires its signal.
func (s *Service) Send(ctx context.Context, contractID string, actor string) (*models.Contract, error) {
	c, err := s.findElectronic(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if !c.Workflow.Status.CanTransition(models.WorkflowSent) {
		return nil, dErrors.Newf(dErrors.CodeInvalidState, "cannot send contract in state %s", c.Workflow.Status)
	}
	dispatched, err := s.dispatch.Dispatched(ctx, c.ID)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to check dispatch signal", err)
	}
	if !dispatched {
		return nil, dErrors.New(dErrors.CodeInvalidState, "contract has not been dispatched to signers")
	}
	return s.transition(ctx, c, models.WorkflowSent, audit.ActionContractSent, actor)
}

// Cancel moves any non-terminal contract to cancelled. Irreversible.
func (s *Service) Cancel(ctx context.Context, contractID string, actor string) (*models.Contract, error) {
	c, err := s.findElectronic(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if !c.Workflow.Status.CanTransition(models.WorkflowCancelled) {
		return nil, dErrors.Newf(dErrors.CodeInvalidState, "cannot cancel contract in state %s", c.Workflow.Status)
	}
	return s.transition(ctx, c, models.WorkflowCancelled, audit.ActionContractCancelled, actor)
}

// RecordSignature persists a signature audit record and re-evaluates the
// workflow in the same atomic store write. Re-signing a field replaces its
// record; once the contract is completed or cancelled every attempt is
// rejected.
func (s *Service) RecordSignature(ctx context.Context, contractID string, record models.SignatureAudit) (*models.Contract, error) {
	c, err := s.findElectronic(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if c.Workflow.Status != models.WorkflowSent && c.Workflow.Status != models.WorkflowPartiallySigned {
		return nil, dErrors.Newf(dErrors.CodeInvalidState, "contract in state %s does not accept signatures", c.Workflow.Status)
	}
	field := c.FieldByID(record.FieldID)
	if field == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "field not found")
	}

	_, replacing := c.Audit(record.FieldID)
	c.AuditTrail[record.FieldID] = record
	next := c.NextStateForAudit()

	if err := s.store.ReplaceAudit(ctx, c.ID, record, next); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "contract not found")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to persist audit record", err)
	}
	c.Workflow.Status = next
	c.LastEdited = s.now()

	s.metrics.SignaturesCaptured.Inc()
	s.metrics.ObserveTransition(string(next))
	action := audit.ActionSignatureCaptured
	if replacing {
		action = audit.ActionSignatureReplaced
	}
	s.emit(ctx, audit.Event{ContractID: c.ID, FieldID: record.FieldID, Actor: record.SignerID, Action: action, Detail: string(record.SignerRole)})
	return c, nil
}

func (s *Service) transition(ctx context.Context, c *models.Contract, to models.WorkflowState, action string, actor string) (*models.Contract, error) {
	c.Workflow.Status = to
	c.LastEdited = s.now()
	if err := s.store.Update(ctx, c); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to persist transition", err)
	}
	s.metrics.ObserveTransition(string(to))
	s.emit(ctx, audit.Event{ContractID: c.ID, Actor: actor, Action: action})
	return c, nil
}

func (s *Service) find(ctx context.Context, id string) (*models.Contract, error) {
	c, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "contract not found")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load contract", err)
	}
	return c, nil
}

// findElectronic loads the aggregate and rejects workflow operations on
// manually managed contracts.
func (s *Service) findElectronic(ctx context.Context, id string) (*models.Contract, error) {
	c, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.Workflow.IsElectronic {
		return nil, dErrors.New(dErrors.CodeValidation, "contract is not electronically signed; its workflow is managed manually")
	}
	return c, nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed",
			"action", event.Action,
			"contract_id", event.ContractID,
			"error", err,
		)
	}
}

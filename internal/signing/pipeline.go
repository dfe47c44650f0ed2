// Package signing implements the capture-to-storage pipeline: validate the
// captured payload, authenticate the signer, decode the artifact, transmit it
// to the storage collaborator, and persist the resulting audit record against
// the contract. No step retries; the caller re-invokes the whole pipeline on
// failure, and cancelling the context abandons the in-flight upload without
// writing a partial record.
package signing

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"plansign/internal/contract/models"
	"plansign/internal/identity"
	"plansign/internal/platform/metrics"
	"plansign/internal/signing/storage"
	dErrors "plansign/pkg/domain-errors"
	"plansign/pkg/email"
)

// Contracts is the slice of the contract service the pipeline needs.
type Contracts interface {
	Get(ctx context.Context, id string) (*models.Contract, error)
	RecordSignature(ctx context.Context, contractID string, record models.SignatureAudit) (*models.Contract, error)
}

// CaptureRequest is one signing attempt against one field.
type CaptureRequest struct {
	ContractID string
	FieldID    string
	// Payload is the captured signature image as a data URL.
	Payload string
	// Credential is the signer's short-lived bearer token, also forwarded to
	// the storage collaborator for the authenticated upload.
	Credential string
	UserAgent  string
}

// CaptureResult reports the persisted record and the contract state after
// re-evaluation.
type CaptureResult struct {
	Record   models.SignatureAudit
	Contract *models.Contract
}

type Pipeline struct {
	contracts Contracts
	verifier  identity.Verifier
	storage   storage.Client
	metrics   *metrics.Metrics
	logger    *slog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

func NewPipeline(contracts Contracts, verifier identity.Verifier, store storage.Client, m *metrics.Metrics, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		contracts: contracts,
		verifier:  verifier,
		storage:   store,
		metrics:   m,
		logger:    logger,
		tracer:    otel.Tracer("plansign/internal/signing"),
		now:       time.Now,
	}
}

// Sign runs the full capture-to-audit-record sequence.
func (p *Pipeline) Sign(ctx context.Context, req CaptureRequest) (*CaptureResult, error) {
	ctx, span := p.tracer.Start(ctx, "signing.Sign", trace.WithAttributes(
		attribute.String("contract.id", req.ContractID),
		attribute.String("field.id", req.FieldID),
	))
	defer span.End()

	if err := validatePayload(req.Payload); err != nil {
		return nil, p.fail(ctx, span, req, err)
	}

	signer, err := p.verifier.Verify(ctx, req.Credential)
	if err != nil {
		if !dErrors.Is(err, dErrors.CodeAuthRequired) {
			err = dErrors.Wrap(dErrors.CodeAuthRequired, "signer is not authenticated", err)
		}
		return nil, p.fail(ctx, span, req, err)
	}

	// Load the aggregate before the network round trip: signing a completed
	// or cancelled contract must fail without touching the collaborator.
	contract, err := p.contracts.Get(ctx, req.ContractID)
	if err != nil {
		return nil, p.fail(ctx, span, req, err)
	}
	if !contract.Workflow.IsElectronic {
		return nil, p.fail(ctx, span, req, dErrors.New(dErrors.CodeValidation, "contract is not electronically signed"))
	}
	if contract.Workflow.Status != models.WorkflowSent && contract.Workflow.Status != models.WorkflowPartiallySigned {
		return nil, p.fail(ctx, span, req,
			dErrors.Newf(dErrors.CodeInvalidState, "contract in state %s does not accept signatures", contract.Workflow.Status))
	}
	field := contract.FieldByID(req.FieldID)
	if field == nil {
		return nil, p.fail(ctx, span, req, dErrors.New(dErrors.CodeNotFound, "field not found"))
	}

	artifact, err := p.decode(ctx, req.Payload)
	if err != nil {
		return nil, p.fail(ctx, span, req, err)
	}

	result, err := p.upload(ctx, req, artifact)
	if err != nil {
		p.metrics.UploadFailures.Inc()
		return nil, p.fail(ctx, span, req, err)
	}

	record := models.SignatureAudit{
		FieldID:       req.FieldID,
		SignerRole:    field.SignerRole,
		SignerID:      signer.SignerID,
		SignatureURL:  result.DownloadURL,
		SignatureData: req.Payload,
		SignerName:    signerName(signer),
		SignerEmail:   signer.Email,
		SignedAt:      p.now(),
		StorageMethod: models.StorageRemote,
		Device:        identity.DescribeDevice(req.UserAgent),
	}
	if err := ValidateAudit(record); err != nil {
		return nil, p.fail(ctx, span, req, err)
	}

	updated, err := p.persist(ctx, req.ContractID, record)
	if err != nil {
		return nil, p.fail(ctx, span, req, err)
	}

	p.logger.InfoContext(ctx, "signature captured",
		"contract_id", req.ContractID,
		"field_id", req.FieldID,
		"signer_id", signer.SignerID,
		"workflow_status", updated.Workflow.Status,
	)
	return &CaptureResult{Record: record, Contract: updated}, nil
}

func (p *Pipeline) decode(ctx context.Context, payload string) (storage.Artifact, error) {
	_, span := p.tracer.Start(ctx, "signing.decode")
	defer span.End()
	artifact, err := decodePayload(payload)
	if err != nil {
		span.RecordError(err)
		return storage.Artifact{}, err
	}
	span.SetAttributes(
		attribute.String("artifact.content_type", artifact.ContentType),
		attribute.Int("artifact.bytes", len(artifact.Data)),
	)
	return artifact, nil
}

func (p *Pipeline) upload(ctx context.Context, req CaptureRequest, artifact storage.Artifact) (storage.UploadResult, error) {
	ctx, span := p.tracer.Start(ctx, "signing.upload")
	defer span.End()
	result, err := p.storage.Upload(ctx, req.ContractID, req.FieldID, artifact, req.Credential)
	if err != nil {
		span.RecordError(err)
		return storage.UploadResult{}, err
	}
	return result, nil
}

func (p *Pipeline) persist(ctx context.Context, contractID string, record models.SignatureAudit) (*models.Contract, error) {
	ctx, span := p.tracer.Start(ctx, "signing.persist")
	defer span.End()
	updated, err := p.contracts.RecordSignature(ctx, contractID, record)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return updated, nil
}

func (p *Pipeline) fail(ctx context.Context, span trace.Span, req CaptureRequest, err error) error {
	span.RecordError(err)
	p.logger.WarnContext(ctx, "signature capture failed",
		"contract_id", req.ContractID,
		"field_id", req.FieldID,
		"error", err.Error(),
	)
	return err
}

func signerName(signer identity.Identity) string {
	if signer.Name != "" {
		return signer.Name
	}
	if signer.Email == "" {
		return ""
	}
	first, last := email.DeriveNameFromEmail(signer.Email)
	return first + " " + last
}

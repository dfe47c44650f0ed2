package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Producer ships events to an external stream. The Kafka implementation lives
// in kafka.go; tests substitute fakes.
type Producer interface {
	Publish(ctx context.Context, event Event) error
}

// Publisher captures structured lifecycle events. It is append-only and fans
// out to the store and, when configured, a stream producer. Store writes are
// authoritative; producer failures are logged, never propagated. The trail
// is observability, the per-field SignatureAudit records are the legal proof.
type Publisher struct {
	store    Store
	producer Producer
	logger   *slog.Logger
}

func NewPublisher(store Store, producer Producer, logger *slog.Logger) *Publisher {
	return &Publisher{store: store, producer: producer, logger: logger}
}

func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := p.store.Append(ctx, event); err != nil {
		return err
	}
	if p.producer != nil {
		if err := p.producer.Publish(ctx, event); err != nil {
			p.logger.WarnContext(ctx, "audit event publish failed",
				"action", event.Action,
				"contract_id", event.ContractID,
				"error", err,
			)
		}
	}
	return nil
}

func (p *Publisher) List(ctx context.Context, contractID string) ([]Event, error) {
	return p.store.ListByContract(ctx, contractID)
}

package kafka

import (
	"context"

	"github.com/nyayatech/BareAct-Intelligence/internal/domain/statute"
	"github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/nyayatech/BareAct-Intelligence/pkg/errors"
	"github.com/nyayatech/BareAct-Intelligence/pkg/types/common"
)

// DefaultEventSource identifies this service in event envelopes.
const DefaultEventSource = "bareact-pipeline"

// eventPublisher adapts the Producer to the statute.EventPublisher port.
// Messages are keyed by aggregate ID so every event for one statute lands on
// the same partition, preserving per-document ordering.
type eventPublisher struct {
	producer *Producer
	source   string
	logger   logging.Logger
}

// NewEventPublisher wraps a producer as a domain event publisher. The
// publisher owns the producer and closes it on Close. Empty source falls back
// to DefaultEventSource.
func NewEventPublisher(producer *Producer, source string, logger logging.Logger) statute.EventPublisher {
	if source == "" {
		source = DefaultEventSource
	}
	return &eventPublisher{
		producer: producer,
		source:   source,
		logger:   logger,
	}
}

// Publish wraps each event in an envelope and writes it to the topic named
// after its event type. Remaining events are still attempted after a failure;
// the first error is returned.
func (p *eventPublisher) Publish(ctx context.Context, events ...common.DomainEvent) error {
	var firstErr error
	for _, event := range events {
		if event == nil {
			continue
		}
		if err := p.publishOne(ctx, event); err != nil {
			p.logger.Warn("Event publish failed",
				logging.String("event_type", event.EventType()),
				logging.String("aggregate_id", event.AggregateID()),
				logging.Err(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (p *eventPublisher) publishOne(ctx context.Context, event common.DomainEvent) error {
	env, err := NewEventEnvelope(event.EventType(), p.source, event)
	if err != nil {
		return err
	}

	msg, err := env.ToMessage(event.EventType())
	if err != nil {
		return err
	}
	msg.Key = []byte(event.AggregateID())

	if err := p.producer.Publish(ctx, msg); err != nil {
		return errors.Wrap(err, errors.ErrCodeEventPublishFailed, "failed to publish "+event.EventType())
	}
	return nil
}

func (p *eventPublisher) Close() error {
	return p.producer.Close()
}

// Package event hands domain events collected during a use case to the
// event bus once the surrounding transaction has committed.
package event

import (
	"context"

	"github.com/shop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Dispatcher publishes domain events after commit. Publishing failures are
// logged and never reported to the caller: the state change has already
// been committed.
type Dispatcher struct {
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewDispatcher creates a dispatcher. A nil publisher discards events.
func NewDispatcher(publisher shared.EventPublisher, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{publisher: publisher, logger: logger}
}

// Dispatch publishes the events in order
func (d *Dispatcher) Dispatch(ctx context.Context, events ...shared.DomainEvent) {
	if d == nil || d.publisher == nil || len(events) == 0 {
		return
	}
	if err := d.publisher.Publish(ctx, events...); err != nil {
		d.logger.Warn("Failed to publish domain events",
			zap.Int("count", len(events)),
			zap.String("first_event_type", events[0].EventType()),
			zap.Error(err),
		)
	}
}

// DispatchFrom publishes and clears the pending events of each aggregate
func (d *Dispatcher) DispatchFrom(ctx context.Context, aggregates ...shared.AggregateRoot) {
	var events []shared.DomainEvent
	for _, agg := range aggregates {
		if agg == nil {
			continue
		}
		events = append(events, shared.PullDomainEvents(agg)...)
	}
	d.Dispatch(ctx, events...)
}

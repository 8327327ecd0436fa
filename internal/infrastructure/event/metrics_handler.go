package event

import (
	"context"

	"github.com/shop/backend/internal/domain/sales"
	"github.com/shop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SalesMetrics receives counts derived from sales events.
type SalesMetrics interface {
	RecordOrderCreated(ctx context.Context, paymentMethod string)
	RecordOrderDeleted(ctx context.Context, lineItems int)
	RecordLineItemAdded(ctx context.Context, outcome string)
	RecordLineItemUpdated(ctx context.Context, moved bool)
	RecordLineItemRemoved(ctx context.Context)
	RecordReconciliation(ctx context.Context, oldTotal, newTotal decimal.Decimal)
}

// MetricsHandler turns sales events into metric updates.
type MetricsHandler struct {
	metrics SalesMetrics
}

// NewMetricsHandler creates a handler that records into metrics.
func NewMetricsHandler(metrics SalesMetrics) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// EventTypes lists the sales events that carry a metric.
func (h *MetricsHandler) EventTypes() []string {
	return []string{
		sales.EventTypeOrderCreated,
		sales.EventTypeOrderDeleted,
		sales.EventTypeOrderTotalReconciled,
		sales.EventTypeLineItemAdded,
		sales.EventTypeLineItemUpdated,
		sales.EventTypeLineItemRemoved,
	}
}

// Handle records the metric for event. Unknown events are ignored.
func (h *MetricsHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *sales.OrderCreatedEvent:
		h.metrics.RecordOrderCreated(ctx, string(e.PaymentMethod))
	case *sales.OrderDeletedEvent:
		h.metrics.RecordOrderDeleted(ctx, e.LineItemCount)
	case *sales.OrderTotalReconciledEvent:
		h.metrics.RecordReconciliation(ctx, e.OldTotal.Amount(), e.NewTotal.Amount())
	case *sales.LineItemAddedEvent:
		h.metrics.RecordLineItemAdded(ctx, e.Outcome.String())
	case *sales.LineItemUpdatedEvent:
		h.metrics.RecordLineItemUpdated(ctx, e.PreviousOrderID != e.OrderID)
	case *sales.LineItemRemovedEvent:
		h.metrics.RecordLineItemRemoved(ctx)
	}
	return nil
}

var _ shared.EventHandler = (*MetricsHandler)(nil)

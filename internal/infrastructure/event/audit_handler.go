package event

import (
	"context"

	"github.com/shop/backend/internal/domain/catalog"
	"github.com/shop/backend/internal/domain/sales"
	"github.com/shop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AuditLogHandler writes one structured log line per domain event. It
// subscribes to every event type.
type AuditLogHandler struct {
	logger *zap.Logger
}

// NewAuditLogHandler creates an audit handler logging under the "audit" name.
func NewAuditLogHandler(logger *zap.Logger) *AuditLogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditLogHandler{logger: logger.Named("audit")}
}

// EventTypes returns nil so the handler receives all events.
func (h *AuditLogHandler) EventTypes() []string {
	return nil
}

// Handle logs the event with the fields that matter for its type.
func (h *AuditLogHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	}
	fields = append(fields, auditFields(event)...)
	h.logger.Info(event.EventType(), fields...)
	return nil
}

func auditFields(event shared.DomainEvent) []zap.Field {
	switch e := event.(type) {
	case *catalog.ProductCreatedEvent:
		return []zap.Field{zap.String("name", e.Name), zap.Stringer("price", e.Price)}
	case *catalog.ProductPriceChangedEvent:
		return []zap.Field{zap.Stringer("old_price", e.OldPrice), zap.Stringer("new_price", e.NewPrice)}
	case *catalog.ProductDeletedEvent:
		return []zap.Field{zap.String("name", e.Name)}
	case *sales.OrderCreatedEvent:
		return []zap.Field{zap.String("payment_method", string(e.PaymentMethod))}
	case *sales.OrderUpdatedEvent:
		return []zap.Field{zap.String("old_status", string(e.OldStatus)), zap.String("new_status", string(e.NewStatus))}
	case *sales.OrderDeletedEvent:
		return []zap.Field{zap.Int("line_items_removed", e.LineItemCount)}
	case *sales.OrderTotalReconciledEvent:
		return []zap.Field{zap.Stringer("old_total", e.OldTotal), zap.Stringer("new_total", e.NewTotal)}
	case *sales.LineItemAddedEvent:
		return []zap.Field{
			zap.String("order_id", e.OrderID.String()),
			zap.String("product_id", e.ProductID.String()),
			zap.String("outcome", e.Outcome.String()),
			zap.Int("quantity", e.Quantity),
			zap.Stringer("subtotal", e.Subtotal),
		}
	case *sales.LineItemUpdatedEvent:
		return []zap.Field{
			zap.String("previous_order_id", e.PreviousOrderID.String()),
			zap.String("order_id", e.OrderID.String()),
			zap.String("product_id", e.ProductID.String()),
		}
	case *sales.LineItemRemovedEvent:
		return []zap.Field{zap.String("order_id", e.OrderID.String())}
	default:
		return nil
	}
}

var _ shared.EventHandler = (*AuditLogHandler)(nil)

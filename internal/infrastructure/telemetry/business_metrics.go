package telemetry

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when a metrics constructor receives no meter.
var ErrMeterNil = errors.New("meter cannot be nil")

// BusinessMetricsConfig configures BusinessMetrics.
type BusinessMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

// BusinessMetrics records order and line item activity.
type BusinessMetrics struct {
	ordersCreated     *Counter
	ordersDeleted     *Counter
	lineItemsAdded    *Counter
	lineItemsUpdated  *Counter
	lineItemsRemoved  *Counter
	lineItemsCascaded *Counter
	reconciliations   *Counter
	orderTotal        *Histogram
	logger            *zap.Logger
}

// NewBusinessMetrics creates every business instrument on cfg.Meter.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	bm := &BusinessMetrics{logger: logger}

	counters := []struct {
		dst  **Counter
		name string
		desc string
		unit string
	}{
		{&bm.ordersCreated, "shop.orders.created", "Orders created", "{order}"},
		{&bm.ordersDeleted, "shop.orders.deleted", "Orders deleted", "{order}"},
		{&bm.lineItemsAdded, "shop.line_items.added", "Products added to orders, by outcome", "{line_item}"},
		{&bm.lineItemsUpdated, "shop.line_items.updated", "Line items revised", "{line_item}"},
		{&bm.lineItemsRemoved, "shop.line_items.removed", "Line items removed individually", "{line_item}"},
		{&bm.lineItemsCascaded, "shop.line_items.cascaded", "Line items removed with their order", "{line_item}"},
		{&bm.reconciliations, "shop.orders.reconciliations", "Order total reconciliations that changed the total", "{reconciliation}"},
	}
	for _, c := range counters {
		counter, err := NewCounter(cfg.Meter, c.name, c.desc, c.unit)
		if err != nil {
			return nil, err
		}
		*c.dst = counter
	}

	hist, err := NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "shop.orders.total",
		Description: "Order total after reconciliation",
		Unit:        "{currency}",
		Boundaries:  AmountBuckets,
	})
	if err != nil {
		return nil, err
	}
	bm.orderTotal = hist

	logger.Debug("Business metrics registered", zap.Int("instruments", len(counters)+1))
	return bm, nil
}

// RecordOrderCreated counts a new order.
func (m *BusinessMetrics) RecordOrderCreated(ctx context.Context, paymentMethod string) {
	m.ordersCreated.Inc(ctx, AttrPaymentMethod.String(paymentMethod))
}

// RecordOrderDeleted counts a deleted order and the line items removed with it.
func (m *BusinessMetrics) RecordOrderDeleted(ctx context.Context, lineItems int) {
	m.ordersDeleted.Inc(ctx)
	if lineItems > 0 {
		m.lineItemsCascaded.Add(ctx, int64(lineItems))
	}
}

// RecordLineItemAdded counts an add, labelled CREATED or MERGED.
func (m *BusinessMetrics) RecordLineItemAdded(ctx context.Context, outcome string) {
	m.lineItemsAdded.Inc(ctx, AttrOutcome.String(outcome))
}

// RecordLineItemUpdated counts a revision. moved is true when the item
// changed orders.
func (m *BusinessMetrics) RecordLineItemUpdated(ctx context.Context, moved bool) {
	m.lineItemsUpdated.Inc(ctx, attribute.Bool("moved", moved))
}

// RecordLineItemRemoved counts a single line item removal.
func (m *BusinessMetrics) RecordLineItemRemoved(ctx context.Context) {
	m.lineItemsRemoved.Inc(ctx)
}

// RecordReconciliation counts a total change and records the new total.
func (m *BusinessMetrics) RecordReconciliation(ctx context.Context, oldTotal, newTotal decimal.Decimal) {
	direction := "up"
	if newTotal.LessThan(oldTotal) {
		direction = "down"
	}
	m.reconciliations.Inc(ctx, AttrChanged.String(direction))
	m.orderTotal.Record(ctx, newTotal.InexactFloat64())
}

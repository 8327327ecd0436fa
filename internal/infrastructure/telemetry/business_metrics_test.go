package telemetry

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestBusinessMetrics(t *testing.T) (*BusinessMetrics, func() map[string]metricdata.Metrics) {
	t.Helper()
	mp, reader := newTestMeterProvider(t)
	bm, err := NewBusinessMetrics(BusinessMetricsConfig{Meter: mp.Meter("shop")})
	require.NoError(t, err)
	return bm, func() map[string]metricdata.Metrics { return collect(t, reader) }
}

func TestNewBusinessMetrics_NilMeter(t *testing.T) {
	bm, err := NewBusinessMetrics(BusinessMetricsConfig{})
	assert.ErrorIs(t, err, ErrMeterNil)
	assert.Nil(t, bm)
}

func TestNewBusinessMetrics_NoopMeter(t *testing.T) {
	bm, err := NewBusinessMetrics(BusinessMetricsConfig{Meter: noop.NewMeterProvider().Meter("noop")})
	require.NoError(t, err)

	ctx := context.Background()
	bm.RecordOrderCreated(ctx, "CARD")
	bm.RecordLineItemAdded(ctx, "CREATED")
	bm.RecordReconciliation(ctx, decimal.Zero, decimal.RequireFromString("10.00"))
}

func TestBusinessMetrics_Orders(t *testing.T) {
	bm, snapshot := newTestBusinessMetrics(t)
	ctx := context.Background()

	bm.RecordOrderCreated(ctx, "CASH")
	bm.RecordOrderCreated(ctx, "CARD")
	bm.RecordOrderCreated(ctx, "CARD")
	bm.RecordOrderDeleted(ctx, 3)
	bm.RecordOrderDeleted(ctx, 0)

	metrics := snapshot()
	created := metrics["shop.orders.created"]
	assert.Equal(t, int64(2), sumValue(t, created, AttrPaymentMethod.String("CARD")))
	assert.Equal(t, int64(1), sumValue(t, created, AttrPaymentMethod.String("CASH")))
	assert.Equal(t, int64(2), sumValue(t, metrics["shop.orders.deleted"]))
	assert.Equal(t, int64(3), sumValue(t, metrics["shop.line_items.cascaded"]))
}

func TestBusinessMetrics_LineItems(t *testing.T) {
	bm, snapshot := newTestBusinessMetrics(t)
	ctx := context.Background()

	bm.RecordLineItemAdded(ctx, "CREATED")
	bm.RecordLineItemAdded(ctx, "MERGED")
	bm.RecordLineItemAdded(ctx, "MERGED")
	bm.RecordLineItemUpdated(ctx, true)
	bm.RecordLineItemUpdated(ctx, false)
	bm.RecordLineItemRemoved(ctx)

	metrics := snapshot()
	added := metrics["shop.line_items.added"]
	assert.Equal(t, int64(1), sumValue(t, added, AttrOutcome.String("CREATED")))
	assert.Equal(t, int64(2), sumValue(t, added, AttrOutcome.String("MERGED")))
	assert.Equal(t, int64(1), sumValue(t, metrics["shop.line_items.updated"], attribute.Bool("moved", true)))
	assert.Equal(t, int64(1), sumValue(t, metrics["shop.line_items.removed"]))
}

func TestBusinessMetrics_Reconciliation(t *testing.T) {
	bm, snapshot := newTestBusinessMetrics(t)
	ctx := context.Background()

	bm.RecordReconciliation(ctx, decimal.Zero, decimal.RequireFromString("135.50"))
	bm.RecordReconciliation(ctx, decimal.RequireFromString("135.50"), decimal.RequireFromString("45.00"))

	metrics := snapshot()
	recon := metrics["shop.orders.reconciliations"]
	assert.Equal(t, int64(1), sumValue(t, recon, AttrChanged.String("up")))
	assert.Equal(t, int64(1), sumValue(t, recon, AttrChanged.String("down")))

	hist, ok := metrics["shop.orders.total"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(2), hist.DataPoints[0].Count)
	assert.InDelta(t, 180.50, hist.DataPoints[0].Sum, 1e-9)
}

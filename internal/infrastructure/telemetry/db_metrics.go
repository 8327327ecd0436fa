package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBDurationBuckets are in seconds.
var DBDurationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

var attrDBOperation = attribute.Key("db.operation")

// DBMetrics counts queries, times them, and observes the connection pool.
type DBMetrics struct {
	queries      *Counter
	duration     *Histogram
	registration metric.Registration
	logger       *zap.Logger
}

// RegisterDBMetrics attaches query instruments to db and pool gauges read
// from sqlDB at collection time. sqlDB may be nil.
func RegisterDBMetrics(db *gorm.DB, sqlDB *sql.DB, meter metric.Meter, logger *zap.Logger) (*DBMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	queries, err := NewCounter(meter, "db.client.queries", "Database statements by operation", "{query}")
	if err != nil {
		return nil, err
	}
	duration, err := NewHistogram(meter, HistogramOpts{
		Name:        "db.client.query.duration",
		Description: "Database statement latency",
		Unit:        "s",
		Boundaries:  DBDurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	m := &DBMetrics{queries: queries, duration: duration, logger: logger}

	if sqlDB != nil {
		if err := m.observePool(meter, sqlDB); err != nil {
			return nil, err
		}
	}

	if err := registerAround(db, "shop_metrics", markQueryStart, m.after); err != nil {
		return nil, fmt.Errorf("failed to register db metrics callbacks: %w", err)
	}
	return m, nil
}

func (m *DBMetrics) observePool(meter metric.Meter, sqlDB *sql.DB) error {
	conns, err := meter.Int64ObservableGauge("db.client.connections",
		metric.WithDescription("Connections in the pool by state"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return err
	}
	maxConns, err := meter.Int64ObservableGauge("db.client.connections.max",
		metric.WithDescription("Maximum open connections"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return err
	}
	waits, err := meter.Int64ObservableCounter("db.client.connections.waits",
		metric.WithDescription("Connection requests that had to wait"),
		metric.WithUnit("{wait}"))
	if err != nil {
		return err
	}

	m.registration, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := sqlDB.Stats()
		o.ObserveInt64(conns, int64(stats.InUse), metric.WithAttributes(AttrDBState.String("in_use")))
		o.ObserveInt64(conns, int64(stats.Idle), metric.WithAttributes(AttrDBState.String("idle")))
		o.ObserveInt64(maxConns, int64(stats.MaxOpenConnections))
		o.ObserveInt64(waits, stats.WaitCount)
		return nil
	}, conns, maxConns, waits)
	return err
}

func (m *DBMetrics) after(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		ctx = context.Background()
	}
	op := attrDBOperation.String(operationOf(db.Statement.SQL.String()))
	status := attribute.Bool("error", db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound))

	m.queries.Inc(ctx, op, status)
	if elapsed, ok := queryElapsed(ctx); ok {
		m.duration.RecordDuration(ctx, elapsed, op)
	}
}

// Stop unregisters the pool callback.
func (m *DBMetrics) Stop() {
	if m.registration == nil {
		return
	}
	if err := m.registration.Unregister(); err != nil {
		m.logger.Warn("Failed to unregister db pool metrics", zap.Error(err))
	}
	m.registration = nil
}

func operationOf(statement string) string {
	fields := strings.Fields(statement)
	if len(fields) == 0 {
		return "other"
	}
	switch op := strings.ToLower(fields[0]); op {
	case "select", "insert", "update", "delete":
		return op
	default:
		return "other"
	}
}

package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shop/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// HTTPMetricsConfig holds configuration for HTTP metrics middleware.
type HTTPMetricsConfig struct {
	MeterProvider *telemetry.MeterProvider
	Logger        *zap.Logger
}

type httpMetrics struct {
	requestTotal    *telemetry.Counter
	requestDuration *telemetry.Histogram
	requestSize     *telemetry.Histogram
	responseSize    *telemetry.Histogram
	activeRequests  metric.Int64UpDownCounter
}

func newHTTPMetrics(meter metric.Meter) (*httpMetrics, error) {
	requestTotal, err := telemetry.NewCounter(meter,
		"http.server.requests", "Total number of HTTP requests", "{request}")
	if err != nil {
		return nil, err
	}
	requestDuration, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "http.server.request.duration",
		Description: "HTTP request latency",
		Unit:        "s",
		Boundaries:  telemetry.HTTPDurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	requestSize, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "http.server.request.body.size",
		Description: "HTTP request body size",
		Unit:        "By",
		Boundaries:  telemetry.SizeBuckets,
	})
	if err != nil {
		return nil, err
	}
	responseSize, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "http.server.response.body.size",
		Description: "HTTP response body size",
		Unit:        "By",
		Boundaries:  telemetry.SizeBuckets,
	})
	if err != nil {
		return nil, err
	}
	activeRequests, err := meter.Int64UpDownCounter(
		"http.server.active_requests",
		metric.WithDescription("Number of in-flight HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	return &httpMetrics{
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		requestSize:     requestSize,
		responseSize:    responseSize,
		activeRequests:  activeRequests,
	}, nil
}

// HTTPMetrics returns a middleware recording request count, latency, body
// sizes and in-flight requests. It is a no-op when metrics are disabled or
// the instruments cannot be created.
func HTTPMetrics(cfg HTTPMetricsConfig) gin.HandlerFunc {
	if !cfg.MeterProvider.IsEnabled() {
		return passThrough
	}
	mw, err := HTTPMetricsWithMeter(cfg.MeterProvider.Meter("shop/http"))
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("HTTP metrics disabled", zap.Error(err))
		}
		return passThrough
	}
	return mw
}

// HTTPMetricsWithMeter builds the metrics middleware on an existing meter.
func HTTPMetricsWithMeter(meter metric.Meter) (gin.HandlerFunc, error) {
	metrics, err := newHTTPMetrics(meter)
	if err != nil {
		return nil, err
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()
		metrics.activeRequests.Add(ctx, 1)

		c.Next()

		metrics.activeRequests.Add(ctx, -1)

		base := []attribute.KeyValue{
			telemetry.AttrHTTPMethod.String(c.Request.Method),
			telemetry.AttrHTTPRoute.String(routePattern(c)),
		}
		metrics.requestTotal.Inc(ctx, append(base, telemetry.AttrHTTPStatusCode.Int(c.Writer.Status()))...)
		metrics.requestDuration.RecordDuration(ctx, time.Since(start), base...)
		if size := c.Request.ContentLength; size > 0 {
			metrics.requestSize.Record(ctx, float64(size), base...)
		}
		if size := c.Writer.Size(); size > 0 {
			metrics.responseSize.Record(ctx, float64(size), base...)
		}
	}, nil
}

// routePattern returns the matched route (e.g. "/api/v1/orders/:id") so ids
// never end up as attribute values.
func routePattern(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unmatched"
}

func passThrough(c *gin.Context) {
	c.Next()
}

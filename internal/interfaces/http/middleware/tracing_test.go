package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTracedRouter(t *testing.T, status int) (*gin.Engine, *tracetest.SpanRecorder) {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() {
		_ = tp.Shutdown(t.Context())
	})

	cfg := DefaultTracingConfig()
	cfg.TracerProvider = tp

	router := gin.New()
	router.Use(RequestID(), TracingWithConfig(cfg), SpanAttributes())
	router.POST("/api/v1/orders/:id/reconcile", func(c *gin.Context) {
		c.Status(status)
	})
	return router, sr
}

func spanAttrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	attrs := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	return attrs
}

func TestTracingWithConfig_Disabled(t *testing.T) {
	cfg := DefaultTracingConfig()
	cfg.Enabled = false

	router := gin.New()
	router.Use(TracingWithConfig(cfg))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTracing_SpanCarriesRequestAttributes(t *testing.T) {
	router, sr := newTracedRouter(t, http.StatusOK)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/42/reconcile", nil)
	req.Header.Set(RequestIDHeader, "req-trace")
	req.Header.Set(IdempotencyKeyHeader, "key-1")
	router.ServeHTTP(httptest.NewRecorder(), req)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	attrs := spanAttrs(spans[0])
	assert.Equal(t, "req-trace", attrs["request_id"].AsString())
	assert.Equal(t, "key-1", attrs["idempotency_key"].AsString())
	assert.Contains(t, spans[0].Name(), "/api/v1/orders/:id/reconcile")
	assert.NotEqual(t, codes.Error, spans[0].Status().Code)
}

func TestTracing_ServerErrorMarksSpan(t *testing.T) {
	router, sr := newTracedRouter(t, http.StatusInternalServerError)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/orders/1/reconcile", nil))

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}

func TestSpanAttributes_WithoutSpan(t *testing.T) {
	router := gin.New()
	router.Use(SpanAttributes())
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

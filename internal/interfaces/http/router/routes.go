package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shop/backend/internal/infrastructure/logger"
	"github.com/shop/backend/internal/infrastructure/telemetry"
	"github.com/shop/backend/internal/interfaces/http/dto"
	"github.com/shop/backend/internal/interfaces/http/handler"
	"github.com/shop/backend/internal/interfaces/http/middleware"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Handlers are the endpoint handlers served by the engine
type Handlers struct {
	Product  *handler.ProductHandler
	Order    *handler.OrderHandler
	LineItem *handler.LineItemHandler
	Health   *handler.HealthHandler
}

// EngineConfig configures the middleware chain
type EngineConfig struct {
	Logger         *zap.Logger
	ServiceName    string
	TrustedProxies []string
	MaxBodySize    int64
	CORS           middleware.CORSConfig

	TracingEnabled bool
	TracerProvider trace.TracerProvider
	MeterProvider  *telemetry.MeterProvider
	Profiling      bool

	Idempotency middleware.IdempotencyConfig
}

// NewEngine builds the gin engine with the full middleware chain and the
// /api/v1 routes.
func NewEngine(cfg EngineConfig, h Handlers) (*gin.Engine, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if len(cfg.CORS.AllowOrigins) == 0 {
		cfg.CORS = middleware.DefaultCORSConfig()
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(
		logger.Recovery(cfg.Logger),
		middleware.RequestID(),
		logger.GinMiddleware(cfg.Logger),
		middleware.Secure(),
		middleware.CORSWithConfig(cfg.CORS),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName:    cfg.ServiceName,
			Enabled:        cfg.TracingEnabled,
			TracerProvider: cfg.TracerProvider,
		}),
		middleware.SpanAttributes(),
		middleware.HTTPMetrics(middleware.HTTPMetricsConfig{MeterProvider: cfg.MeterProvider, Logger: cfg.Logger}),
		middleware.Profiling(middleware.ProfilingConfig{
			Enabled:   cfg.Profiling,
			SkipPaths: middleware.DefaultProfilingConfig().SkipPaths,
		}),
		middleware.BodyLimit(cfg.MaxBodySize),
	)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeNotFound, "Route not found", middleware.GetRequestID(c)))
	})
	engine.HandleMethodNotAllowed = true
	engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeBadRequest, "Method not allowed", middleware.GetRequestID(c)))
	})

	if h.Health != nil {
		engine.GET("/health", h.Health.Health)
	}

	r := NewRouter(engine)
	for _, group := range apiGroups(h, middleware.Idempotency(cfg.Idempotency)) {
		r.Register(group)
	}
	r.Setup()
	return engine, nil
}

// apiGroups maps the handlers onto their resource groups. Creating routes
// get the idempotency middleware.
func apiGroups(h Handlers, idempotent gin.HandlerFunc) []*DomainGroup {
	var groups []*DomainGroup

	if h.Health != nil {
		groups = append(groups, NewDomainGroup("health", "/health").
			GET("", h.Health.Health))
	}
	if h.Product != nil {
		groups = append(groups, NewDomainGroup("products", "/products").
			GET("", h.Product.List).
			POST("", idempotent, h.Product.Create).
			GET("/available", h.Product.ListAvailable).
			GET("/:id", h.Product.Get).
			PUT("/:id", h.Product.Update).
			DELETE("/:id", h.Product.Delete))
	}
	if h.Order != nil {
		groups = append(groups, NewDomainGroup("orders", "/orders").
			GET("", h.Order.List).
			POST("", idempotent, h.Order.Create).
			POST("/with-item", idempotent, h.Order.CreateWithItem).
			GET("/:id", h.Order.Get).
			PUT("/:id", h.Order.Update).
			DELETE("/:id", h.Order.Delete).
			POST("/:id/reconcile", h.Order.Reconcile))
	}
	if h.LineItem != nil {
		groups = append(groups, NewDomainGroup("line-items", "/line-items").
			GET("", h.LineItem.List).
			POST("", idempotent, h.LineItem.Create).
			GET("/:id", h.LineItem.Get).
			PUT("/:id", h.LineItem.Update).
			DELETE("/:id", h.LineItem.Delete))
	}
	return groups
}

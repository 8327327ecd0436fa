package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shop/backend/internal/interfaces/http/dto"
)

// Pinger reports whether a dependency is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler serves the liveness/readiness endpoint
type HealthHandler struct {
	BaseHandler
	db        Pinger
	version   string
	startTime time.Time
	timeout   time.Duration
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db Pinger, version string) *HealthHandler {
	return &HealthHandler{
		db:        db,
		version:   version,
		startTime: time.Now(),
		timeout:   2 * time.Second,
	}
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status   string `json:"status" example:"healthy"`
	Database string `json:"database" example:"up"`
	Version  string `json:"version" example:"1.0.0"`
	Uptime   string `json:"uptime" example:"1h30m45s"`
}

// Health godoc
// @Summary      Health check
// @Description  503 when the database does not answer a ping.
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response{data=HealthResponse}
// @Failure      503 {object} dto.Response{data=HealthResponse}
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:   "healthy",
		Database: "up",
		Version:  h.version,
		Uptime:   time.Since(h.startTime).Round(time.Second).String(),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()
	if err := h.db.PingContext(ctx); err != nil {
		_ = c.Error(err)
		resp.Status = "unhealthy"
		resp.Database = "down"
		c.JSON(http.StatusServiceUnavailable, dto.Response{
			Success: false,
			Data:    resp,
			Error:   &dto.ErrorInfo{Code: dto.ErrCodeUnavailable, Message: "Database is unreachable"},
		})
		return
	}
	h.Success(c, resp)
}

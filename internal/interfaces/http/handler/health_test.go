package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/shop/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		ping       error
		wantStatus int
		wantDB     string
	}{
		{"database up", nil, http.StatusOK, "up"},
		{"database down", assert.AnError, http.StatusServiceUnavailable, "down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(pingFunc(func(ctx context.Context) error {
				_, hasDeadline := ctx.Deadline()
				assert.True(t, hasDeadline)
				return tt.ping
			}), "1.0.0")
			r := newTestEngine()
			r.GET("/health", h.Health)

			w := performRequest(r, http.MethodGet, "/health", "")

			assert.Equal(t, tt.wantStatus, w.Code)
			var got HealthResponse
			resp := decodeResponse(t, w, &got)
			assert.Equal(t, tt.wantDB, got.Database)
			assert.Equal(t, "1.0.0", got.Version)
			if tt.ping != nil {
				assert.Equal(t, dto.ErrCodeUnavailable, resp.Error.Code)
			}
		})
	}
}

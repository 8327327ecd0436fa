package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestRouter(l *zap.Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("request_id", "req-42")
		c.Next()
	})
	router.Use(Recovery(l), GinMiddleware(l))
	return router
}

func TestGinMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		status int
		level  zapcore.Level
	}{
		{"success logs info", http.StatusOK, zapcore.InfoLevel},
		{"client error logs warn", http.StatusNotFound, zapcore.WarnLevel},
		{"server error logs error", http.StatusInternalServerError, zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, recorded := observer.New(zapcore.DebugLevel)
			router := newTestRouter(zap.New(core))
			router.GET("/orders", func(c *gin.Context) {
				FromContext(c.Request.Context()).Debug("inside handler")
				c.Status(tt.status)
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/orders?page=2", nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			inside := recorded.FilterMessage("inside handler").All()
			require.Len(t, inside, 1)
			assert.Equal(t, "req-42", inside[0].ContextMap()["request_id"])

			logs := recorded.FilterMessage("HTTP Request").All()
			require.Len(t, logs, 1)
			assert.Equal(t, tt.level, logs[0].Level)
			fields := logs[0].ContextMap()
			assert.Equal(t, "req-42", fields["request_id"])
			assert.Equal(t, "/orders", fields["path"])
			assert.Equal(t, "page=2", fields["query"])
		})
	}
}

func TestRecovery(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)
	router := newTestRouter(zap.New(core))
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Len(t, recorded.FilterMessage("Panic recovered").All(), 1)
}

package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

const (
	// IdempotencyKeyHeader names the client supplied retry key
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotentReplayHeader is set on responses served from the store
	IdempotentReplayHeader = "Idempotent-Replayed"
	// MaxIdempotencyKeyLength caps the key size
	MaxIdempotencyKeyLength = 255
)

// IdempotencyConfig configures the Idempotency middleware.
type IdempotencyConfig struct {
	Store  shared.IdempotencyStore
	TTL    time.Duration
	Logger *zap.Logger
}

// Idempotency makes POST requests carrying an Idempotency-Key safe to retry.
// The first request with a key runs and its response (status < 500) is
// stored; later requests with the same key and the same method, path and
// body get the stored response back. A retry that arrives while the first
// request is still running, or that reuses the key for a different request,
// gets 409. Requests without the header pass through.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	if cfg.Store == nil {
		return passThrough
	}
	if cfg.TTL <= 0 {
		cfg.TTL = shared.DefaultIdempotencyConfig().TTL
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if c.Request.Method != http.MethodPost || key == "" {
			c.Next()
			return
		}
		if len(key) > MaxIdempotencyKeyLength {
			abortWithError(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Idempotency-Key is too long")
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				abortWithError(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size")
				return
			}
			abortWithError(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Could not read request body")
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		ctx := c.Request.Context()
		fingerprint := requestFingerprint(c.Request.Method, c.Request.URL.Path, body)
		existing, owner, err := cfg.Store.Reserve(ctx, key, fingerprint, cfg.TTL)
		if err != nil {
			// The store is an optimisation; an outage must not block writes.
			cfg.Logger.Warn("Idempotency store unavailable", zap.Error(err))
			c.Next()
			return
		}

		if !owner {
			switch {
			case existing.Fingerprint != fingerprint:
				abortWithError(c, http.StatusConflict, dto.ErrCodeIdempotencyReused, shared.ErrIdempotencyKeyReused.Error())
			case !existing.Completed:
				abortWithError(c, http.StatusConflict, dto.ErrCodeIdempotencyInFlight, "A request with this Idempotency-Key is still being processed")
			default:
				c.Header(IdempotentReplayHeader, "true")
				c.Data(existing.StatusCode, "application/json; charset=utf-8", existing.Body)
				c.Abort()
			}
			return
		}

		recorder := &responseRecorder{ResponseWriter: c.Writer}
		c.Writer = recorder

		c.Next()

		status := recorder.Status()
		if status >= http.StatusInternalServerError {
			if err := cfg.Store.Release(ctx, key); err != nil {
				cfg.Logger.Warn("Failed to release idempotency key", zap.Error(err))
			}
			return
		}
		record := shared.IdempotencyRecord{
			Fingerprint: fingerprint,
			StatusCode:  status,
			Body:        recorder.body.Bytes(),
		}
		if err := cfg.Store.Complete(ctx, key, record, cfg.TTL); err != nil {
			cfg.Logger.Warn("Failed to store idempotent response", zap.Error(err))
		}
	}
}

// requestFingerprint identifies a request by method, path and body hash
func requestFingerprint(method, path string, body []byte) string {
	sum := sha256.Sum256(body)
	return method + " " + path + " " + hex.EncodeToString(sum[:])
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}

// responseRecorder keeps a copy of the response body for later replay
type responseRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *responseRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *responseRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

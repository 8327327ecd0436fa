package shared

import (
	"context"
	"errors"
	"time"
)

// ErrIdempotencyKeyReused is returned when a key arrives with a different
// request fingerprint than the one it was first used with.
var ErrIdempotencyKeyReused = errors.New("idempotency key reused with a different request")

// IdempotencyRecord is what a store keeps per Idempotency-Key.
type IdempotencyRecord struct {
	Fingerprint string `json:"fingerprint"`
	Completed   bool   `json:"completed"`
	StatusCode  int    `json:"status_code,omitempty"`
	Body        []byte `json:"body,omitempty"`
}

// IdempotencyStore remembers the outcome of mutating requests so a retried
// request replays the first response instead of running twice.
type IdempotencyStore interface {
	// Reserve claims key for a request with the given fingerprint. It returns
	// (nil, true, nil) when the caller owns the key. Otherwise it returns the
	// existing record and false; a record with Completed == false is still
	// in flight.
	Reserve(ctx context.Context, key, fingerprint string, ttl time.Duration) (*IdempotencyRecord, bool, error)

	// Complete stores the final response for a reserved key.
	Complete(ctx context.Context, key string, record IdempotencyRecord, ttl time.Duration) error

	// Release forgets a reservation so the request can be retried.
	Release(ctx context.Context, key string) error

	Close() error
}

// IdempotencyConfig configures Idempotency-Key handling.
type IdempotencyConfig struct {
	TTL     time.Duration
	Enabled bool
}

// DefaultIdempotencyConfig keeps responses for 24 hours.
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}

package dto

import (
	"net/http"

	"github.com/shop/backend/internal/domain/shared"
)

// Error codes produced by the HTTP layer itself. Domain errors keep their
// own code (e.g. PRODUCT_IN_USE) and only borrow the status of their kind.
const (
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeInvalidJSON     = "INVALID_JSON"
	ErrCodeInvalidID       = "INVALID_ID"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeUnavailable     = "SERVICE_UNAVAILABLE"

	// ErrCodeIdempotencyInFlight is returned while the first request
	// carrying the same Idempotency-Key is still running
	ErrCodeIdempotencyInFlight = "IDEMPOTENCY_KEY_IN_FLIGHT"
	// ErrCodeIdempotencyReused is returned when a key is replayed with a
	// different request
	ErrCodeIdempotencyReused = "IDEMPOTENCY_KEY_REUSED"
)

// KindHTTPStatus maps domain error kinds to HTTP status codes
var KindHTTPStatus = map[shared.ErrorKind]int{
	shared.KindValidation:           http.StatusBadRequest,
	shared.KindNotFound:             http.StatusNotFound,
	shared.KindReferentialIntegrity: http.StatusConflict,
	shared.KindConflict:             http.StatusConflict,
}

// StatusForKind returns the HTTP status of a domain error kind, 500 when
// the kind is unknown
func StatusForKind(kind shared.ErrorKind) int {
	if status, ok := KindHTTPStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

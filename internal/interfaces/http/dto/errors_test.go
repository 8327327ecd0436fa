package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/shop/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusForKind(t *testing.T) {
	tests := []struct {
		kind     shared.ErrorKind
		expected int
	}{
		{shared.KindValidation, http.StatusBadRequest},
		{shared.KindNotFound, http.StatusNotFound},
		{shared.KindReferentialIntegrity, http.StatusConflict},
		{shared.KindConflict, http.StatusConflict},
		{shared.ErrorKind("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.expected, StatusForKind(tt.kind))
		})
	}
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID("PRODUCT_IN_USE", "Product is referenced", "req-1")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "PRODUCT_IN_USE", resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	assert.Nil(t, resp.Data)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{{Field: "name", Message: "This field is required"}}
	resp := NewValidationErrorResponse("Request validation failed", "req-2", details)

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, details, resp.Error.Details)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	tests := []struct {
		name       string
		total      int64
		pageSize   int
		totalPages int
	}{
		{"exact", 100, 50, 2},
		{"remainder", 101, 50, 3},
		{"empty", 0, 50, 0},
		{"zero page size", 10, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := NewSuccessResponseWithMeta([]string{}, tt.total, 1, tt.pageSize)
			require.NotNil(t, resp.Meta)
			assert.True(t, resp.Success)
			assert.Equal(t, tt.totalPages, resp.Meta.TotalPages)
		})
	}
}

func TestResponseJSONEnvelope(t *testing.T) {
	raw, err := json.Marshal(NewSuccessResponse(map[string]string{"id": "x"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":{"id":"x"}}`, string(raw))

	raw, err = json.Marshal(NewErrorResponse(ErrCodeNotFound, "missing"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":{"code":"NOT_FOUND","message":"missing"}}`, string(raw))
}

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shop/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type priceRequest struct {
	Name     string           `json:"name" binding:"required,max=5"`
	Price    *decimal.Decimal `json:"price" binding:"required,decimal_gte0"`
	Discount *decimal.Decimal `json:"discount" binding:"omitempty,decimal_gte0"`
}

func newValidationRouter() *gin.Engine {
	SetupValidator()
	router := gin.New()
	router.POST("/test", func(c *gin.Context) {
		var req priceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(req.Price.StringFixed(2)))
	})
	return router
}

func postJSON(router http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSetupValidator_Idempotent(t *testing.T) {
	SetupValidator()
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)
	assert.NotNil(t, v)
}

func TestDecimalGTE0(t *testing.T) {
	router := newValidationRouter()

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantFields []string
	}{
		{"valid string price", `{"name":"deck","price":"10.50"}`, http.StatusOK, nil},
		{"valid numeric price", `{"name":"deck","price":0}`, http.StatusOK, nil},
		{"negative price", `{"name":"deck","price":"-0.01"}`, http.StatusBadRequest, []string{"price"}},
		{"missing price", `{"name":"deck"}`, http.StatusBadRequest, []string{"price"}},
		{"negative discount", `{"name":"deck","price":"1","discount":"-5"}`, http.StatusBadRequest, []string{"discount"}},
		{"name too long and negative price", `{"name":"cards!","price":"-1"}`, http.StatusBadRequest, []string{"name", "price"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(router, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantFields == nil {
				return
			}

			var resp dto.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)

			fields := make([]string, 0, len(resp.Error.Details))
			for _, d := range resp.Error.Details {
				fields = append(fields, d.Field)
			}
			assert.ElementsMatch(t, tt.wantFields, fields)
		})
	}
}

func TestValidationMessage_DecimalTag(t *testing.T) {
	router := newValidationRouter()
	w := postJSON(router, `{"name":"deck","price":"-3"}`)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "Must be a non-negative amount", resp.Error.Details[0].Message)
}

func TestValidationDetails_NonValidatorError(t *testing.T) {
	assert.Nil(t, ValidationDetails(assert.AnError))
}

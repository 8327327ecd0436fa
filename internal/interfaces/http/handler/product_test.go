package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/shop/backend/internal/application/catalog"
	"github.com/shop/backend/internal/domain/catalog"
	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/domain/shared/valueobject"
	"github.com/shop/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupProductRouter(svc *MockProductService) *gin.Engine {
	r := newTestEngine()
	h := NewProductHandler(svc)
	r.GET("/products", h.List)
	r.GET("/products/available", h.ListAvailable)
	r.GET("/products/:id", h.Get)
	r.POST("/products", h.Create)
	r.PUT("/products/:id", h.Update)
	r.DELETE("/products/:id", h.Delete)
	return r
}

func deckOfCards() *catalogapp.ProductResponse {
	return &catalogapp.ProductResponse{
		ID:           uuid.New(),
		Name:         "Deck of Cards",
		Category:     "Games",
		Price:        valueobject.MustMoney("10.00"),
		Stock:        4,
		Available:    true,
		RegisteredOn: "2026-10-17",
	}
}

func TestProductHandler_Create(t *testing.T) {
	t.Run("creates product", func(t *testing.T) {
		svc := new(MockProductService)
		product := deckOfCards()
		svc.On("CreateProduct", mock.Anything, mock.MatchedBy(func(in catalogapp.CreateProductInput) bool {
			return in.Name == "Deck of Cards" && in.Price != nil && in.Price.Equal(decimal.RequireFromString("10"))
		})).Return(product, nil)

		w := performRequest(setupProductRouter(svc), http.MethodPost, "/products",
			`{"name":"Deck of Cards","category":"Games","price":"10.00","stock":4}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		var got map[string]any
		resp := decodeResponse(t, w, &got)
		assert.True(t, resp.Success)
		assert.Equal(t, "10.00", got["price"])
		assert.Equal(t, product.ID.String(), got["id"])
		svc.AssertExpectations(t)
	})

	t.Run("negative price is rejected before the service", func(t *testing.T) {
		svc := new(MockProductService)

		w := performRequest(setupProductRouter(svc), http.MethodPost, "/products",
			`{"name":"Deck of Cards","price":"-1"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w, nil)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "price", resp.Error.Details[0].Field)
		svc.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		svc := new(MockProductService)

		w := performRequest(setupProductRouter(svc), http.MethodPost, "/products", `{"name":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w, nil)
		assert.Equal(t, dto.ErrCodeInvalidJSON, resp.Error.Code)
	})

	t.Run("wrong field type", func(t *testing.T) {
		svc := new(MockProductService)

		w := performRequest(setupProductRouter(svc), http.MethodPost, "/products",
			`{"name":"Deck","price":"1","stock":"many"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w, nil)
		assert.Equal(t, dto.ErrCodeInvalidJSON, resp.Error.Code)
		assert.Contains(t, resp.Error.Message, "stock")
	})

	t.Run("domain validation error keeps its code", func(t *testing.T) {
		svc := new(MockProductService)
		svc.On("CreateProduct", mock.Anything, mock.Anything).
			Return(nil, shared.NewValidationError("INVALID_PRICE", "price must have at most 2 decimals"))

		w := performRequest(setupProductRouter(svc), http.MethodPost, "/products",
			`{"name":"Deck","price":"1.005"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w, nil)
		assert.Equal(t, "INVALID_PRICE", resp.Error.Code)
	})
}

func TestProductHandler_List(t *testing.T) {
	t.Run("passes filters and returns meta", func(t *testing.T) {
		svc := new(MockProductService)
		page := shared.NewPaginated([]catalogapp.ProductResponse{*deckOfCards()}, 3, 2, 1)
		svc.On("ListProducts", mock.Anything, catalogapp.ProductListQuery{
			Search: "deck", Category: "Games", Page: 2, PageSize: 1,
		}).Return(&page, nil)

		w := performRequest(setupProductRouter(svc), http.MethodGet,
			"/products?search=deck&category=Games&page=2&page_size=1", "")

		assert.Equal(t, http.StatusOK, w.Code)
		var items []catalogapp.ProductResponse
		resp := decodeResponse(t, w, &items)
		require.NotNil(t, resp.Meta)
		assert.Len(t, items, 1)
		assert.Equal(t, int64(3), resp.Meta.Total)
		assert.Equal(t, 3, resp.Meta.TotalPages)
		svc.AssertExpectations(t)
	})

	t.Run("empty page serialises as an empty array", func(t *testing.T) {
		svc := new(MockProductService)
		page := shared.NewPaginated[catalogapp.ProductResponse](nil, 0, 1, 50)
		svc.On("ListProducts", mock.Anything, mock.Anything).Return(&page, nil)

		w := performRequest(setupProductRouter(svc), http.MethodGet, "/products", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"data":[]`)
	})

	t.Run("page size above the maximum", func(t *testing.T) {
		svc := new(MockProductService)

		w := performRequest(setupProductRouter(svc), http.MethodGet, "/products?page_size=501", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "ListProducts", mock.Anything, mock.Anything)
	})

	t.Run("available listing forces the stock filter", func(t *testing.T) {
		svc := new(MockProductService)
		page := shared.NewPaginated([]catalogapp.ProductResponse{}, 0, 1, 50)
		svc.On("ListProducts", mock.Anything, mock.MatchedBy(func(q catalogapp.ProductListQuery) bool {
			return q.Available && q.Search == "cards"
		})).Return(&page, nil)

		w := performRequest(setupProductRouter(svc), http.MethodGet, "/products/available?search=cards", "")

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})
}

func TestProductHandler_Get(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		svc := new(MockProductService)

		w := performRequest(setupProductRouter(svc), http.MethodGet, "/products/not-a-uuid", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w, nil)
		assert.Equal(t, dto.ErrCodeInvalidID, resp.Error.Code)
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(MockProductService)
		id := uuid.New()
		svc.On("GetProduct", mock.Anything, id).Return(nil, catalog.NewProductNotFoundError(id))

		w := performRequest(setupProductRouter(svc), http.MethodGet, "/products/"+id.String(), "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeResponse(t, w, nil)
		assert.Equal(t, "PRODUCT_NOT_FOUND", resp.Error.Code)
		assert.NotEmpty(t, resp.Error.RequestID)
	})
}

func TestProductHandler_Update(t *testing.T) {
	svc := new(MockProductService)
	product := deckOfCards()
	product.Price = valueobject.MustMoney("12.50")
	svc.On("UpdateProduct", mock.Anything, product.ID, mock.MatchedBy(func(in catalogapp.UpdateProductInput) bool {
		return in.Name == nil && in.Price != nil && in.Price.String() == "12.5"
	})).Return(product, nil)

	w := performRequest(setupProductRouter(svc), http.MethodPut, "/products/"+product.ID.String(), `{"price":12.50}`)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestProductHandler_Delete(t *testing.T) {
	id := uuid.New()
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"deleted", nil, http.StatusNoContent, ""},
		{"not found", catalog.NewProductNotFoundError(id), http.StatusNotFound, "PRODUCT_NOT_FOUND"},
		{"still referenced", catalog.NewProductInUseError(id, 2), http.StatusConflict, "PRODUCT_IN_USE"},
		{"wrapped conflict", fmt.Errorf("delete product: %w", shared.NewConflictError("CONFLICT", "modified")), http.StatusConflict, "CONFLICT"},
		{"infrastructure failure", assert.AnError, http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockProductService)
			svc.On("DeleteProduct", mock.Anything, id).Return(tt.err)

			w := performRequest(setupProductRouter(svc), http.MethodDelete, "/products/"+id.String(), "")

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				resp := decodeResponse(t, w, nil)
				assert.Equal(t, tt.wantCode, resp.Error.Code)
			}
			if tt.wantStatus == http.StatusInternalServerError {
				assert.NotContains(t, w.Body.String(), assert.AnError.Error())
			}
		})
	}
}

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/shop/backend/internal/application/catalog"
	salesapp "github.com/shop/backend/internal/application/sales"
	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/interfaces/http/dto"
	"github.com/shop/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// MockProductService implements ProductService for testing
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) CreateProduct(ctx context.Context, in catalogapp.CreateProductInput) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductResponse), args.Error(1)
}

func (m *MockProductService) UpdateProduct(ctx context.Context, id uuid.UUID, in catalogapp.UpdateProductInput) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductResponse), args.Error(1)
}

func (m *MockProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProductService) ListProducts(ctx context.Context, query catalogapp.ProductListQuery) (*shared.Paginated[catalogapp.ProductResponse], error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[catalogapp.ProductResponse]), args.Error(1)
}

func (m *MockProductService) GetProduct(ctx context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductResponse), args.Error(1)
}

// MockOrderService implements OrderService for testing
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, in salesapp.CreateOrderInput) (*salesapp.OrderResponse, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*salesapp.OrderResponse), args.Error(1)
}

func (m *MockOrderService) CreateOrderWithItem(ctx context.Context, in salesapp.CreateOrderWithItemInput) (*salesapp.OrderDetailResponse, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*salesapp.OrderDetailResponse), args.Error(1)
}

func (m *MockOrderService) UpdateOrder(ctx context.Context, id uuid.UUID, in salesapp.UpdateOrderInput) (*salesapp.OrderResponse, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*salesapp.OrderResponse), args.Error(1)
}

func (m *MockOrderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockOrderService) ListOrders(ctx context.Context, query salesapp.OrderListQuery) (*shared.Paginated[salesapp.OrderListItemResponse], error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[salesapp.OrderListItemResponse]), args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, id uuid.UUID) (*salesapp.OrderDetailResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*salesapp.OrderDetailResponse), args.Error(1)
}

func (m *MockOrderService) ReconcileOrder(ctx context.Context, id uuid.UUID) (*salesapp.OrderResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*salesapp.OrderResponse), args.Error(1)
}

// MockLineItemService implements LineItemService for testing
type MockLineItemService struct {
	mock.Mock
}

func (m *MockLineItemService) AddLineItem(ctx context.Context, in salesapp.AddLineItemInput) (*salesapp.AddLineItemResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*salesapp.AddLineItemResult), args.Error(1)
}

func (m *MockLineItemService) UpdateLineItem(ctx context.Context, id uuid.UUID, in salesapp.UpdateLineItemInput) (*salesapp.LineItemResponse, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*salesapp.LineItemResponse), args.Error(1)
}

func (m *MockLineItemService) RemoveLineItem(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLineItemService) ListLineItems(ctx context.Context, query salesapp.LineItemListQuery) (*shared.Paginated[salesapp.LineItemResponse], error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[salesapp.LineItemResponse]), args.Error(1)
}

func (m *MockLineItemService) GetLineItem(ctx context.Context, id uuid.UUID) (*salesapp.LineItemResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*salesapp.LineItemResponse), args.Error(1)
}

func newTestEngine() *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	return r
}

func performRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decodeResponse unmarshals the envelope; Data is decoded into data when non-nil
func decodeResponse(t *testing.T, w *httptest.ResponseRecorder, data any) dto.Response {
	t.Helper()

	var raw struct {
		dto.Response
		RawData json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	if data != nil {
		require.NoError(t, json.Unmarshal(raw.RawData, data))
	}
	return raw.Response
}

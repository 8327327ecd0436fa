package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/shop/backend/internal/domain/catalog"
	"github.com/shop/backend/internal/domain/sales"
	"github.com/shop/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository is a mock implementation of OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*sales.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter sales.OrderFilter) ([]sales.Order, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]sales.Order), args.Error(1)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter sales.OrderFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *sales.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockLineItemRepository is a mock implementation of LineItemRepository
type MockLineItemRepository struct {
	mock.Mock
}

func (m *MockLineItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.LineItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.LineItem), args.Error(1)
}

func (m *MockLineItemRepository) FindByOrderAndProduct(ctx context.Context, orderID, productID uuid.UUID) (*sales.LineItem, error) {
	args := m.Called(ctx, orderID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.LineItem), args.Error(1)
}

func (m *MockLineItemRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]sales.LineItem, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]sales.LineItem), args.Error(1)
}

func (m *MockLineItemRepository) FindAll(ctx context.Context, filter sales.LineItemFilter) ([]sales.LineItem, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]sales.LineItem), args.Error(1)
}

func (m *MockLineItemRepository) Count(ctx context.Context, filter sales.LineItemFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLineItemRepository) FirstItemSummaries(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID]sales.FirstItemSummary, error) {
	args := m.Called(ctx, orderIDs)
	return args.Get(0).(map[uuid.UUID]sales.FirstItemSummary), args.Error(1)
}

func (m *MockLineItemRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLineItemRepository) Save(ctx context.Context, item *sales.LineItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockLineItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLineItemRepository) DeleteByOrder(ctx context.Context, orderID uuid.UUID) (int64, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(int64), args.Error(1)
}

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context, filter catalog.ProductFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type capturingPublisher struct {
	types []string
}

func (p *capturingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	for _, e := range events {
		p.types = append(p.types, e.EventType())
	}
	return nil
}

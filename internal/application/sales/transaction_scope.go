package sales

import (
	"context"

	"github.com/shop/backend/internal/domain/catalog"
	"github.com/shop/backend/internal/domain/sales"
)

// TransactionScope provides transactional access to the sales repositories.
// Every multi-step order and line item mutation runs inside one Execute call.
type TransactionScope interface {
	// Execute runs fn within a database transaction. The transaction is
	// rolled back when fn returns an error and committed otherwise.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all sales repositories within a transaction.
// All repositories returned share the same underlying database transaction.
//
//   - OrderRepo: the Order aggregate root. Line item mutations lock the
//     owning order row through FindByIDForUpdate before anything else.
//   - LineItemRepo: line items of the locked orders.
//   - ProductRepo: read-only here, used to snapshot unit prices.
type TransactionalRepositories interface {
	OrderRepo() sales.OrderRepository
	LineItemRepo() sales.LineItemRepository
	ProductRepo() catalog.ProductRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use transactions.
// This is useful for testing or when transaction support is not required.
type NoOpTransactionScope struct {
	orderRepo    sales.OrderRepository
	lineItemRepo sales.LineItemRepository
	productRepo  catalog.ProductRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	orderRepo sales.OrderRepository,
	lineItemRepo sales.LineItemRepository,
	productRepo catalog.ProductRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		orderRepo:    orderRepo,
		lineItemRepo: lineItemRepo,
		productRepo:  productRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// OrderRepo returns the order repository.
func (s *NoOpTransactionScope) OrderRepo() sales.OrderRepository {
	return s.orderRepo
}

// LineItemRepo returns the line item repository.
func (s *NoOpTransactionScope) LineItemRepo() sales.LineItemRepository {
	return s.lineItemRepo
}

// ProductRepo returns the product repository.
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)

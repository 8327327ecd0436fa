package catalog

import (
	"context"

	"github.com/shop/backend/internal/domain/catalog"
)

// TransactionScope provides transactional access to catalog repositories.
// All repository operations inside Execute share one database transaction
// and are committed or rolled back together.
type TransactionScope interface {
	// Execute runs fn within a database transaction. The transaction is
	// rolled back when fn returns an error and committed otherwise.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories a catalog
// transaction needs.
type TransactionalRepositories interface {
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() catalog.ProductRepository
	// ReferenceCounter counts line items referencing a product within the
	// current transaction
	ReferenceCounter() catalog.ProductReferenceCounter
}

// NoOpTransactionScope is a transaction scope that doesn't actually use transactions.
// This is useful for testing or when transaction support is not required.
type NoOpTransactionScope struct {
	productRepo catalog.ProductRepository
	counter     catalog.ProductReferenceCounter
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(productRepo catalog.ProductRepository, counter catalog.ProductReferenceCounter) *NoOpTransactionScope {
	return &NoOpTransactionScope{productRepo: productRepo, counter: counter}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ProductRepo returns the product repository.
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

// ReferenceCounter returns the line item reference counter.
func (s *NoOpTransactionScope) ReferenceCounter() catalog.ProductReferenceCounter {
	return s.counter
}

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)

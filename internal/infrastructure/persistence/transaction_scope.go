package persistence

import (
	"context"

	appcatalog "github.com/shop/backend/internal/application/catalog"
	appsales "github.com/shop/backend/internal/application/sales"
	"github.com/shop/backend/internal/domain/catalog"
	"github.com/shop/backend/internal/domain/sales"
	"gorm.io/gorm"
)

// GormTransactionScope runs repository work inside one GORM transaction. It
// serves both the catalog and the sales application services.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
// If fn returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appsales.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// Catalog returns the same scope typed for the catalog service
func (s *GormTransactionScope) Catalog() appcatalog.TransactionScope {
	return catalogTransactionScope{db: s.db}
}

type catalogTransactionScope struct {
	db *gorm.DB
}

func (s catalogTransactionScope) Execute(ctx context.Context, fn func(repos appcatalog.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// OrderRepo returns the order repository scoped to the current transaction.
func (r *gormTransactionalRepositories) OrderRepo() sales.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

// LineItemRepo returns the line item repository scoped to the current transaction.
func (r *gormTransactionalRepositories) LineItemRepo() sales.LineItemRepository {
	return NewGormLineItemRepository(r.tx)
}

// ProductRepo returns the product repository scoped to the current transaction.
func (r *gormTransactionalRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// ReferenceCounter returns the line item reference counter scoped to the current transaction.
func (r *gormTransactionalRepositories) ReferenceCounter() catalog.ProductReferenceCounter {
	return NewGormLineItemRepository(r.tx)
}

var (
	_ appsales.TransactionScope            = (*GormTransactionScope)(nil)
	_ appcatalog.TransactionScope          = catalogTransactionScope{}
	_ appsales.TransactionalRepositories   = (*gormTransactionalRepositories)(nil)
	_ appcatalog.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)

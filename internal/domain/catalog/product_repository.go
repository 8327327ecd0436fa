package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shop/backend/internal/domain/shared"
)

// ProductFilter narrows a product listing
type ProductFilter struct {
	shared.Filter
	// Category matches exactly when non-empty
	Category string
	// OnlyAvailable keeps products with stock > 0
	OnlyAvailable bool
}

// ProductRepository defines the interface for product persistence.
// Listings are ordered by name ascending.
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDForUpdate finds a product and locks its row until the
	// surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindAll finds all products matching the filter
	FindAll(ctx context.Context, filter ProductFilter) ([]Product, error)

	// Count counts products matching the filter
	Count(ctx context.Context, filter ProductFilter) (int64, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// Delete deletes a product
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductReferenceCounter reports how many line items point at a product.
// Implemented by the sales ledger's storage.
type ProductReferenceCounter interface {
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
}

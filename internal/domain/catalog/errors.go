package catalog

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shop/backend/internal/domain/shared"
)

// NewProductNotFoundError reports an unknown product id
func NewProductNotFoundError(id uuid.UUID) *shared.DomainError {
	return shared.NewNotFoundError("PRODUCT_NOT_FOUND", fmt.Sprintf("Product %s not found", id))
}

// NewProductInUseError reports a product that line items still reference
func NewProductInUseError(id uuid.UUID, references int64) *shared.DomainError {
	return shared.NewReferentialIntegrityError("PRODUCT_IN_USE",
		fmt.Sprintf("Product %s is referenced by %d line item(s) and cannot be deleted", id, references))
}

package sales

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shop/backend/internal/domain/shared"
)

// NewOrderNotFoundError reports an unknown order id
func NewOrderNotFoundError(id uuid.UUID) *shared.DomainError {
	return shared.NewNotFoundError("ORDER_NOT_FOUND", fmt.Sprintf("Order %s not found", id))
}

// NewLineItemNotFoundError reports an unknown line item id
func NewLineItemNotFoundError(id uuid.UUID) *shared.DomainError {
	return shared.NewNotFoundError("LINE_ITEM_NOT_FOUND", fmt.Sprintf("Line item %s not found", id))
}

// NewDuplicateLineItemError reports an (order, product) pair that another
// line item already holds
func NewDuplicateLineItemError(orderID, productID uuid.UUID) *shared.DomainError {
	return shared.NewValidationError("DUPLICATE_LINE_ITEM",
		fmt.Sprintf("Order %s already has a line item for product %s", orderID, productID))
}

package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/shop/backend/internal/domain/shared"
)

// OrderFilter narrows an order listing
type OrderFilter struct {
	shared.Filter // Search matches the customer name
	Status        OrderStatus
	PaymentMethod PaymentMethod
}

// OrderRepository defines the interface for order persistence.
// Listings are ordered by creation time, newest first.
type OrderRepository interface {
	// FindByID finds an order by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByIDForUpdate finds an order and locks its row until the
	// surrounding transaction ends. All line item mutations lock the owning
	// order first, which serialises them per order.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindAll finds orders matching the filter
	FindAll(ctx context.Context, filter OrderFilter) ([]Order, error)

	// Count counts orders matching the filter
	Count(ctx context.Context, filter OrderFilter) (int64, error)

	// Save creates or updates an order, including its total
	Save(ctx context.Context, order *Order) error

	// Delete deletes an order
	Delete(ctx context.Context, id uuid.UUID) error
}

// LineItemFilter narrows a line item listing
type LineItemFilter struct {
	shared.Filter
	OrderID *uuid.UUID
}

// FirstItemSummary is the display annotation of an order listing: the
// product name and quantity of the order's earliest line item.
type FirstItemSummary struct {
	OrderID     uuid.UUID
	ProductName string
	Quantity    int
}

// LineItemRepository defines the interface for line item persistence.
// Listings are ordered by the owning order's creation time, newest first.
type LineItemRepository interface {
	// FindByID finds a line item by ID
	FindByID(ctx context.Context, id uuid.UUID) (*LineItem, error)

	// FindByOrderAndProduct finds the line item for an (order, product) pair
	FindByOrderAndProduct(ctx context.Context, orderID, productID uuid.UUID) (*LineItem, error)

	// FindByOrder finds all line items of an order, oldest first
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]LineItem, error)

	// FindAll finds line items matching the filter
	FindAll(ctx context.Context, filter LineItemFilter) ([]LineItem, error)

	// Count counts line items matching the filter
	Count(ctx context.Context, filter LineItemFilter) (int64, error)

	// FirstItemSummaries returns the first line item summary of each given order
	FirstItemSummaries(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID]FirstItemSummary, error)

	// CountByProduct counts line items referencing a product
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)

	// Save creates or updates a line item
	Save(ctx context.Context, item *LineItem) error

	// Delete deletes a line item
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByOrder deletes every line item of an order and returns how many
	DeleteByOrder(ctx context.Context, orderID uuid.UUID) (int64, error)
}

package sales

import (
	"github.com/google/uuid"
	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/domain/shared/valueobject"
)

// Aggregate type constants
const (
	AggregateTypeOrder    = "Order"
	AggregateTypeLineItem = "LineItem"
)

// Event type constants
const (
	EventTypeOrderCreated         = "OrderCreated"
	EventTypeOrderUpdated         = "OrderUpdated"
	EventTypeOrderDeleted         = "OrderDeleted"
	EventTypeOrderTotalReconciled = "OrderTotalReconciled"
	EventTypeLineItemAdded        = "LineItemAdded"
	EventTypeLineItemUpdated      = "LineItemUpdated"
	EventTypeLineItemRemoved      = "LineItemRemoved"
)

// OrderCreatedEvent is raised when a new order is created
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID     `json:"order_id"`
	CustomerName  string        `json:"customer_name"`
	PaymentMethod PaymentMethod `json:"payment_method"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(order *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		CustomerName:    order.CustomerName,
		PaymentMethod:   order.PaymentMethod,
	}
}

// OrderUpdatedEvent is raised when order attributes change
type OrderUpdatedEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID   `json:"order_id"`
	OldStatus OrderStatus `json:"old_status"`
	NewStatus OrderStatus `json:"new_status"`
}

// NewOrderUpdatedEvent creates a new OrderUpdatedEvent
func NewOrderUpdatedEvent(order *Order, oldStatus OrderStatus) *OrderUpdatedEvent {
	return &OrderUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderUpdated, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		OldStatus:       oldStatus,
		NewStatus:       order.Status,
	}
}

// OrderDeletedEvent is raised when an order and its line items are deleted
type OrderDeletedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID `json:"order_id"`
	LineItemCount int       `json:"line_item_count"`
}

// NewOrderDeletedEvent creates a new OrderDeletedEvent
func NewOrderDeletedEvent(order *Order, lineItemCount int) *OrderDeletedEvent {
	return &OrderDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderDeleted, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		LineItemCount:   lineItemCount,
	}
}

// OrderTotalReconciledEvent is raised when reconciliation changes the total
type OrderTotalReconciledEvent struct {
	shared.BaseDomainEvent
	OrderID  uuid.UUID         `json:"order_id"`
	OldTotal valueobject.Money `json:"old_total"`
	NewTotal valueobject.Money `json:"new_total"`
}

// NewOrderTotalReconciledEvent creates a new OrderTotalReconciledEvent
func NewOrderTotalReconciledEvent(order *Order, oldTotal valueobject.Money) *OrderTotalReconciledEvent {
	return &OrderTotalReconciledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderTotalReconciled, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		OldTotal:        oldTotal,
		NewTotal:        order.Total(),
	}
}

// LineItemAddedEvent is raised by addLineItem, for both outcomes
type LineItemAddedEvent struct {
	shared.BaseDomainEvent
	LineItemID uuid.UUID         `json:"line_item_id"`
	OrderID    uuid.UUID         `json:"order_id"`
	ProductID  uuid.UUID         `json:"product_id"`
	Outcome    AddOutcome        `json:"outcome"`
	Quantity   int               `json:"quantity"`
	Subtotal   valueobject.Money `json:"subtotal"`
}

// NewLineItemAddedEvent creates a new LineItemAddedEvent
func NewLineItemAddedEvent(item *LineItem, outcome AddOutcome) *LineItemAddedEvent {
	return &LineItemAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLineItemAdded, AggregateTypeLineItem, item.ID),
		LineItemID:      item.ID,
		OrderID:         item.OrderID,
		ProductID:       item.ProductID,
		Outcome:         outcome,
		Quantity:        item.Quantity,
		Subtotal:        item.Subtotal,
	}
}

// LineItemUpdatedEvent is raised when a line item is revised
type LineItemUpdatedEvent struct {
	shared.BaseDomainEvent
	LineItemID      uuid.UUID `json:"line_item_id"`
	PreviousOrderID uuid.UUID `json:"previous_order_id"`
	OrderID         uuid.UUID `json:"order_id"`
	ProductID       uuid.UUID `json:"product_id"`
}

// NewLineItemUpdatedEvent creates a new LineItemUpdatedEvent
func NewLineItemUpdatedEvent(item *LineItem, previousOrderID uuid.UUID) *LineItemUpdatedEvent {
	return &LineItemUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLineItemUpdated, AggregateTypeLineItem, item.ID),
		LineItemID:      item.ID,
		PreviousOrderID: previousOrderID,
		OrderID:         item.OrderID,
		ProductID:       item.ProductID,
	}
}

// LineItemRemovedEvent is raised when a line item is deleted
type LineItemRemovedEvent struct {
	shared.BaseDomainEvent
	LineItemID uuid.UUID `json:"line_item_id"`
	OrderID    uuid.UUID `json:"order_id"`
	ProductID  uuid.UUID `json:"product_id"`
}

// NewLineItemRemovedEvent creates a new LineItemRemovedEvent
func NewLineItemRemovedEvent(item *LineItem) *LineItemRemovedEvent {
	return &LineItemRemovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLineItemRemoved, AggregateTypeLineItem, item.ID),
		LineItemID:      item.ID,
		OrderID:         item.OrderID,
		ProductID:       item.ProductID,
	}
}

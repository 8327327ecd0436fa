package sales

import (
	"bytes"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/domain/shared/valueobject"
)

const maxCustomerNameLength = 100

// OrderStatus represents the fulfilment status of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// ParseOrderStatus parses a status, case-insensitively. Empty input yields
// the default status.
func ParseOrderStatus(s string) (OrderStatus, error) {
	if strings.TrimSpace(s) == "" {
		return OrderStatusPending, nil
	}
	status := OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", shared.NewValidationError("INVALID_STATUS", "Order status must be one of PENDING, SHIPPED, DELIVERED, CANCELLED")
	}
	return status, nil
}

// PaymentMethod represents how the customer pays
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodCard     PaymentMethod = "CARD"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// ParsePaymentMethod parses a payment method, case-insensitively. Empty input
// yields the default method.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	if strings.TrimSpace(s) == "" {
		return PaymentMethodCash, nil
	}
	method := PaymentMethod(strings.ToUpper(strings.TrimSpace(s)))
	if !method.IsValid() {
		return "", shared.NewValidationError("INVALID_PAYMENT_METHOD", "Payment method must be one of CASH, CARD, TRANSFER")
	}
	return method, nil
}

// Order is a customer sales order and the aggregate root of the sales
// context. Its total is derived from its line items and is only ever
// assigned by Reconcile.
type Order struct {
	shared.BaseAggregateRoot
	CustomerName    string
	ShippingAddress string
	Status          OrderStatus
	PaymentMethod   PaymentMethod
	Comments        string
	total           valueobject.Money
}

// OrderOptions carries the optional attributes of a new order. Zero values
// select the defaults.
type OrderOptions struct {
	Status        OrderStatus
	PaymentMethod PaymentMethod
	Comments      string
}

// NewOrder creates a pending order with a zero total
func NewOrder(customerName, shippingAddress string, opts OrderOptions) (*Order, error) {
	customerName = strings.TrimSpace(customerName)
	shippingAddress = strings.TrimSpace(shippingAddress)
	if err := validateCustomerName(customerName); err != nil {
		return nil, err
	}
	if err := validateShippingAddress(shippingAddress); err != nil {
		return nil, err
	}

	status := opts.Status
	if status == "" {
		status = OrderStatusPending
	}
	if !status.IsValid() {
		return nil, shared.NewValidationError("INVALID_STATUS", "Invalid order status")
	}
	method := opts.PaymentMethod
	if method == "" {
		method = PaymentMethodCash
	}
	if !method.IsValid() {
		return nil, shared.NewValidationError("INVALID_PAYMENT_METHOD", "Invalid payment method")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerName:      customerName,
		ShippingAddress:   shippingAddress,
		Status:            status,
		PaymentMethod:     method,
		Comments:          opts.Comments,
		total:             valueobject.Zero(),
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// RestoreOrder rebuilds an order loaded from storage together with its
// persisted total. Only repositories call it.
func RestoreOrder(order Order, total valueobject.Money) *Order {
	order.total = total
	return &order
}

// Total returns the reconciled order total
func (o *Order) Total() valueobject.Money {
	return o.total
}

// OrderChanges lists the fields an update overwrites. Nil fields are left
// untouched. There is deliberately no total field.
type OrderChanges struct {
	CustomerName    *string
	ShippingAddress *string
	Status          *OrderStatus
	PaymentMethod   *PaymentMethod
	Comments        *string
}

// Apply validates every supplied field and then overwrites them
func (o *Order) Apply(changes OrderChanges) error {
	customer := o.CustomerName
	if changes.CustomerName != nil {
		customer = strings.TrimSpace(*changes.CustomerName)
		if err := validateCustomerName(customer); err != nil {
			return err
		}
	}
	address := o.ShippingAddress
	if changes.ShippingAddress != nil {
		address = strings.TrimSpace(*changes.ShippingAddress)
		if err := validateShippingAddress(address); err != nil {
			return err
		}
	}
	if changes.Status != nil && !changes.Status.IsValid() {
		return shared.NewValidationError("INVALID_STATUS", "Invalid order status")
	}
	if changes.PaymentMethod != nil && !changes.PaymentMethod.IsValid() {
		return shared.NewValidationError("INVALID_PAYMENT_METHOD", "Invalid payment method")
	}

	oldStatus := o.Status
	o.CustomerName = customer
	o.ShippingAddress = address
	if changes.Status != nil {
		o.Status = *changes.Status
	}
	if changes.PaymentMethod != nil {
		o.PaymentMethod = *changes.PaymentMethod
	}
	if changes.Comments != nil {
		o.Comments = *changes.Comments
	}
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderUpdatedEvent(o, oldStatus))

	return nil
}

// Reconcile recomputes the total from scratch as the sum of the subtotals of
// the given line items. Items that belong to another order are ignored, and
// an empty set sums to zero. It returns the previous total.
func (o *Order) Reconcile(items []LineItem) valueobject.Money {
	subtotals := make([]valueobject.Money, 0, len(items))
	for _, item := range items {
		if item.OrderID != o.ID {
			continue
		}
		subtotals = append(subtotals, item.Subtotal)
	}

	previous := o.total
	o.total = valueobject.Sum(subtotals...)
	if !previous.Equals(o.total) {
		o.IncrementVersion()
		o.AddDomainEvent(NewOrderTotalReconciledEvent(o, previous))
	}
	return previous
}

// MarkDeleted records the deletion event. The caller removes the rows.
func (o *Order) MarkDeleted(lineItemCount int) {
	o.AddDomainEvent(NewOrderDeletedEvent(o, lineItemCount))
}

// SortOrderIDs returns ids sorted so that callers locking several orders
// always lock them in the same sequence.
func SortOrderIDs(ids ...uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	slices.SortFunc(out, func(a, b uuid.UUID) int {
		return bytes.Compare(a[:], b[:])
	})
	return out
}

func validateCustomerName(name string) error {
	if name == "" {
		return shared.NewValidationError("INVALID_CUSTOMER", "Customer name cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxCustomerNameLength {
		return shared.NewValidationError("INVALID_CUSTOMER", "Customer name cannot exceed 100 characters")
	}
	return nil
}

func validateShippingAddress(address string) error {
	if address == "" {
		return shared.NewValidationError("INVALID_ADDRESS", "Shipping address cannot be empty")
	}
	return nil
}

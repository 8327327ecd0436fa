package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shop/backend/internal/domain/sales"
	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CreateOrderInput represents a request to create an order. Empty status
// and payment method select PENDING and CASH.
type CreateOrderInput struct {
	CustomerName    string `json:"customer_name" binding:"required,max=100"`
	ShippingAddress string `json:"shipping_address" binding:"required"`
	Status          string `json:"status"`
	PaymentMethod   string `json:"payment_method"`
	Comments        string `json:"comments"`
}

// CreateOrderWithItemInput creates an order together with its first line item
type CreateOrderWithItemInput struct {
	CreateOrderInput
	ProductID *uuid.UUID `json:"product_id"`
	Quantity  *int       `json:"quantity"`
}

// UpdateOrderInput represents a request to update an order. There is no
// total field: the total only changes through reconciliation.
type UpdateOrderInput struct {
	CustomerName    *string `json:"customer_name" binding:"omitempty,max=100"`
	ShippingAddress *string `json:"shipping_address"`
	Status          *string `json:"status"`
	PaymentMethod   *string `json:"payment_method"`
	Comments        *string `json:"comments"`
}

// OrderListQuery holds the order listing parameters
type OrderListQuery struct {
	Search        string `form:"search"`
	Status        string `form:"status"`
	PaymentMethod string `form:"payment_method"`
	Page          int    `form:"page" binding:"omitempty,min=1"`
	PageSize      int    `form:"page_size" binding:"omitempty,min=1,max=500"`
}

// Filter converts the query into a repository filter
func (q OrderListQuery) Filter() (sales.OrderFilter, error) {
	filter := sales.OrderFilter{
		Filter: shared.Filter{Page: q.Page, PageSize: q.PageSize, Search: q.Search}.Normalize(),
	}
	if q.Status != "" {
		status, err := sales.ParseOrderStatus(q.Status)
		if err != nil {
			return sales.OrderFilter{}, err
		}
		filter.Status = status
	}
	if q.PaymentMethod != "" {
		method, err := sales.ParsePaymentMethod(q.PaymentMethod)
		if err != nil {
			return sales.OrderFilter{}, err
		}
		filter.PaymentMethod = method
	}
	return filter, nil
}

// AddLineItemInput adds a product to an order. A nil discount means zero.
type AddLineItemInput struct {
	OrderID   uuid.UUID        `json:"order_id" binding:"required"`
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  int              `json:"quantity"`
	Discount  *decimal.Decimal `json:"discount" binding:"omitempty,decimal_gte0"`
	Notes     string           `json:"notes" binding:"max=255"`
}

// UpdateLineItemInput is the full replacement state of a line item
type UpdateLineItemInput struct {
	OrderID   uuid.UUID        `json:"order_id" binding:"required"`
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  int              `json:"quantity"`
	Discount  *decimal.Decimal `json:"discount" binding:"omitempty,decimal_gte0"`
	Notes     string           `json:"notes" binding:"max=255"`
}

// LineItemListQuery holds the line item listing parameters
type LineItemListQuery struct {
	OrderID  string `form:"order_id" binding:"omitempty,uuid"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=500"`
}

// Filter converts the query into a repository filter
func (q LineItemListQuery) Filter() (sales.LineItemFilter, error) {
	filter := sales.LineItemFilter{
		Filter: shared.Filter{Page: q.Page, PageSize: q.PageSize}.Normalize(),
	}
	if q.OrderID != "" {
		id, err := uuid.Parse(q.OrderID)
		if err != nil {
			return sales.LineItemFilter{}, shared.NewValidationError("INVALID_ORDER", "order_id must be a UUID")
		}
		filter.OrderID = &id
	}
	return filter, nil
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	CustomerName    string              `json:"customer_name"`
	ShippingAddress string              `json:"shipping_address"`
	Total           valueobject.Money   `json:"total"`
	Status          sales.OrderStatus   `json:"status"`
	PaymentMethod   sales.PaymentMethod `json:"payment_method"`
	Comments        string              `json:"comments"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	Version         int                 `json:"version"`
}

// FirstItemResponse is the display annotation of an order in listings
type FirstItemResponse struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

// OrderListItemResponse is an order row of a listing
type OrderListItemResponse struct {
	OrderResponse
	FirstItem *FirstItemResponse `json:"first_item,omitempty"`
}

// OrderDetailResponse is an order together with its line items
type OrderDetailResponse struct {
	OrderResponse
	Items []LineItemResponse `json:"items"`
}

// LineItemResponse represents a line item in API responses
type LineItemResponse struct {
	ID        uuid.UUID         `json:"id"`
	OrderID   uuid.UUID         `json:"order_id"`
	ProductID uuid.UUID         `json:"product_id"`
	Quantity  int               `json:"quantity"`
	UnitPrice valueobject.Money `json:"unit_price"`
	Discount  valueobject.Money `json:"discount"`
	Subtotal  valueobject.Money `json:"subtotal"`
	Notes     string            `json:"notes"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// AddLineItemResult tells whether the add created a line item or merged
// into an existing one, and carries the reconciled order total.
type AddLineItemResult struct {
	Outcome    sales.AddOutcome  `json:"outcome"`
	LineItem   LineItemResponse  `json:"line_item"`
	OrderTotal valueobject.Money `json:"order_total"`
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *sales.Order) OrderResponse {
	return OrderResponse{
		ID:              o.ID,
		CustomerName:    o.CustomerName,
		ShippingAddress: o.ShippingAddress,
		Total:           o.Total(),
		Status:          o.Status,
		PaymentMethod:   o.PaymentMethod,
		Comments:        o.Comments,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Version:         o.Version,
	}
}

// ToLineItemResponse converts a domain LineItem to LineItemResponse
func ToLineItemResponse(li *sales.LineItem) LineItemResponse {
	return LineItemResponse{
		ID:        li.ID,
		OrderID:   li.OrderID,
		ProductID: li.ProductID,
		Quantity:  li.Quantity,
		UnitPrice: li.UnitPrice,
		Discount:  li.Discount,
		Subtotal:  li.Subtotal,
		Notes:     li.Notes,
		CreatedAt: li.CreatedAt,
		UpdatedAt: li.UpdatedAt,
	}
}

// ToLineItemResponses converts a slice of domain LineItems
func ToLineItemResponses(items []sales.LineItem) []LineItemResponse {
	responses := make([]LineItemResponse, len(items))
	for i := range items {
		responses[i] = ToLineItemResponse(&items[i])
	}
	return responses
}

func discountOrZero(d *decimal.Decimal) valueobject.Money {
	if d == nil {
		return valueobject.Zero()
	}
	return valueobject.NewMoney(*d)
}

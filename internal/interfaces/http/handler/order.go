package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	salesapp "github.com/shop/backend/internal/application/sales"
	"github.com/shop/backend/internal/domain/shared"
)

// OrderService is the part of the order service used by OrderHandler
type OrderService interface {
	CreateOrder(ctx context.Context, in salesapp.CreateOrderInput) (*salesapp.OrderResponse, error)
	CreateOrderWithItem(ctx context.Context, in salesapp.CreateOrderWithItemInput) (*salesapp.OrderDetailResponse, error)
	UpdateOrder(ctx context.Context, id uuid.UUID, in salesapp.UpdateOrderInput) (*salesapp.OrderResponse, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error
	ListOrders(ctx context.Context, query salesapp.OrderListQuery) (*shared.Paginated[salesapp.OrderListItemResponse], error)
	GetOrder(ctx context.Context, id uuid.UUID) (*salesapp.OrderDetailResponse, error)
	ReconcileOrder(ctx context.Context, id uuid.UUID) (*salesapp.OrderResponse, error)
}

// OrderHandler handles order-related API endpoints
type OrderHandler struct {
	BaseHandler
	service OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(service OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// List godoc
// @Summary      List orders
// @Description  Newest first. Each row carries the first line item's product name and quantity.
// @Tags         orders
// @Produce      json
// @Param        search          query string false "Customer name search"
// @Param        status          query string false "PENDING, SHIPPED, DELIVERED or CANCELLED"
// @Param        payment_method  query string false "CASH, CARD or TRANSFER"
// @Param        page            query int    false "Page number" default(1)
// @Param        page_size       query int    false "Page size" default(50)
// @Success      200 {object} dto.Response{data=[]salesapp.OrderListItemResponse,meta=dto.Meta}
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var query salesapp.OrderListQuery
	if !h.BindQuery(c, &query) {
		return
	}
	page, err := h.service.ListOrders(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(&h.BaseHandler, c, page)
}

// Get godoc
// @Summary      Get an order with its line items
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=salesapp.OrderDetailResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	order, err := h.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Create godoc
// @Summary      Create an order
// @Description  The total starts at 0.00. Supports the Idempotency-Key header.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Retry key"
// @Param        request body salesapp.CreateOrderInput true "Order"
// @Success      201 {object} dto.Response{data=salesapp.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var in salesapp.CreateOrderInput
	if !h.BindJSON(c, &in) {
		return
	}
	order, err := h.service.CreateOrder(c.Request.Context(), in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// CreateWithItem godoc
// @Summary      Create an order together with its first line item
// @Description  Order, line item and total are written in one transaction.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Retry key"
// @Param        request body salesapp.CreateOrderWithItemInput true "Order and first product"
// @Success      201 {object} dto.Response{data=salesapp.OrderDetailResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/with-item [post]
func (h *OrderHandler) CreateWithItem(c *gin.Context) {
	var in salesapp.CreateOrderWithItemInput
	if !h.BindJSON(c, &in) {
		return
	}
	order, err := h.service.CreateOrderWithItem(c.Request.Context(), in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// Update godoc
// @Summary      Update an order
// @Description  The total is not writable; it follows the line items.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id      path string true "Order ID" format(uuid)
// @Param        request body salesapp.UpdateOrderInput true "Changes"
// @Success      200 {object} dto.Response{data=salesapp.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/{id} [put]
func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var in salesapp.UpdateOrderInput
	if !h.BindJSON(c, &in) {
		return
	}
	order, err := h.service.UpdateOrder(c.Request.Context(), id, in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Delete godoc
// @Summary      Delete an order and its line items
// @Tags         orders
// @Param        id path string true "Order ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/{id} [delete]
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteOrder(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Reconcile godoc
// @Summary      Recompute an order total from its line items
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=salesapp.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/{id}/reconcile [post]
func (h *OrderHandler) Reconcile(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	order, err := h.service.ReconcileOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

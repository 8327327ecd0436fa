package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	salesapp "github.com/shop/backend/internal/application/sales"
	"github.com/shop/backend/internal/domain/sales"
	"github.com/shop/backend/internal/domain/shared"
)

// LineItemService is the part of the line item service used by LineItemHandler
type LineItemService interface {
	AddLineItem(ctx context.Context, in salesapp.AddLineItemInput) (*salesapp.AddLineItemResult, error)
	UpdateLineItem(ctx context.Context, id uuid.UUID, in salesapp.UpdateLineItemInput) (*salesapp.LineItemResponse, error)
	RemoveLineItem(ctx context.Context, id uuid.UUID) error
	ListLineItems(ctx context.Context, query salesapp.LineItemListQuery) (*shared.Paginated[salesapp.LineItemResponse], error)
	GetLineItem(ctx context.Context, id uuid.UUID) (*salesapp.LineItemResponse, error)
}

// LineItemHandler handles line-item-related API endpoints
type LineItemHandler struct {
	BaseHandler
	service LineItemService
}

// NewLineItemHandler creates a new LineItemHandler
func NewLineItemHandler(service LineItemService) *LineItemHandler {
	return &LineItemHandler{service: service}
}

// List godoc
// @Summary      List line items
// @Description  Ordered by the owning order's creation time, newest first.
// @Tags         line-items
// @Produce      json
// @Param        order_id   query string false "Only items of this order" format(uuid)
// @Param        page       query int    false "Page number" default(1)
// @Param        page_size  query int    false "Page size" default(50)
// @Success      200 {object} dto.Response{data=[]salesapp.LineItemResponse,meta=dto.Meta}
// @Router       /line-items [get]
func (h *LineItemHandler) List(c *gin.Context) {
	var query salesapp.LineItemListQuery
	if !h.BindQuery(c, &query) {
		return
	}
	page, err := h.service.ListLineItems(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(&h.BaseHandler, c, page)
}

// Get godoc
// @Summary      Get a line item
// @Tags         line-items
// @Produce      json
// @Param        id path string true "Line item ID" format(uuid)
// @Success      200 {object} dto.Response{data=salesapp.LineItemResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /line-items/{id} [get]
func (h *LineItemHandler) Get(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	item, err := h.service.GetLineItem(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Create godoc
// @Summary      Add a product to an order
// @Description  Merges into the existing line item when the order already holds the product.
// @Description  The response tells which happened (outcome CREATED or MERGED) and carries the new order total.
// @Tags         line-items
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Retry key"
// @Param        request body salesapp.AddLineItemInput true "Line item"
// @Success      201 {object} dto.Response{data=salesapp.AddLineItemResult}
// @Success      200 {object} dto.Response{data=salesapp.AddLineItemResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /line-items [post]
func (h *LineItemHandler) Create(c *gin.Context) {
	var in salesapp.AddLineItemInput
	if !h.BindJSON(c, &in) {
		return
	}
	result, err := h.service.AddLineItem(c.Request.Context(), in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result.Outcome == sales.AddOutcomeMerged {
		h.Success(c, result)
		return
	}
	h.Created(c, result)
}

// Update godoc
// @Summary      Replace a line item
// @Description  Moving the item to another order reconciles both orders.
// @Tags         line-items
// @Accept       json
// @Produce      json
// @Param        id      path string true "Line item ID" format(uuid)
// @Param        request body salesapp.UpdateLineItemInput true "New state"
// @Success      200 {object} dto.Response{data=salesapp.LineItemResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /line-items/{id} [put]
func (h *LineItemHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var in salesapp.UpdateLineItemInput
	if !h.BindJSON(c, &in) {
		return
	}
	item, err := h.service.UpdateLineItem(c.Request.Context(), id, in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Delete godoc
// @Summary      Remove a line item
// @Tags         line-items
// @Param        id path string true "Line item ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /line-items/{id} [delete]
func (h *LineItemHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.RemoveLineItem(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/shop/backend/internal/application/catalog"
	"github.com/shop/backend/internal/domain/shared"
)

// ProductService is the part of the catalog service used by ProductHandler
type ProductService interface {
	CreateProduct(ctx context.Context, in catalogapp.CreateProductInput) (*catalogapp.ProductResponse, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, in catalogapp.UpdateProductInput) (*catalogapp.ProductResponse, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ListProducts(ctx context.Context, query catalogapp.ProductListQuery) (*shared.Paginated[catalogapp.ProductResponse], error)
	GetProduct(ctx context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error)
}

// ProductHandler handles product-related API endpoints
type ProductHandler struct {
	BaseHandler
	service ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(service ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// List godoc
// @Summary      List products
// @Description  Products ordered by name. Filters: search (name, category, supplier), category, available.
// @Tags         products
// @Produce      json
// @Param        search     query string false "Search term"
// @Param        category   query string false "Exact category"
// @Param        available  query bool   false "Only products in stock"
// @Param        page       query int    false "Page number" default(1)
// @Param        page_size  query int    false "Page size" default(50)
// @Success      200 {object} dto.Response{data=[]catalogapp.ProductResponse,meta=dto.Meta}
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var query catalogapp.ProductListQuery
	if !h.BindQuery(c, &query) {
		return
	}
	h.list(c, query)
}

// ListAvailable godoc
// @Summary      List products in stock
// @Tags         products
// @Produce      json
// @Success      200 {object} dto.Response{data=[]catalogapp.ProductResponse,meta=dto.Meta}
// @Router       /products/available [get]
func (h *ProductHandler) ListAvailable(c *gin.Context) {
	var query catalogapp.ProductListQuery
	if !h.BindQuery(c, &query) {
		return
	}
	query.Available = true
	h.list(c, query)
}

func (h *ProductHandler) list(c *gin.Context, query catalogapp.ProductListQuery) {
	page, err := h.service.ListProducts(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(&h.BaseHandler, c, page)
}

// Get godoc
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	product, err := h.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Create godoc
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateProductInput true "Product"
// @Success      201 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var in catalogapp.CreateProductInput
	if !h.BindJSON(c, &in) {
		return
	}
	product, err := h.service.CreateProduct(c.Request.Context(), in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// Update godoc
// @Summary      Update a product
// @Description  Only the supplied fields change.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id      path string true "Product ID" format(uuid)
// @Param        request body catalogapp.UpdateProductInput true "Changes"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var in catalogapp.UpdateProductInput
	if !h.BindJSON(c, &in) {
		return
	}
	product, err := h.service.UpdateProduct(c.Request.Context(), id, in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete godoc
// @Summary      Delete a product
// @Description  Refused with 409 while any line item references the product.
// @Tags         products
// @Param        id path string true "Product ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteProduct(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

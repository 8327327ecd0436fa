package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shop/backend/internal/domain/catalog"
	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// CreateProductInput represents a request to create a new product
type CreateProductInput struct {
	Name         string           `json:"name" binding:"required,min=1,max=100"`
	Description  string           `json:"description"`
	Category     string           `json:"category" binding:"max=50"`
	Price        *decimal.Decimal `json:"price" binding:"required,decimal_gte0"`
	Supplier     string           `json:"supplier" binding:"max=100"`
	Stock        int              `json:"stock" binding:"gte=0"`
	RegisteredOn string           `json:"registered_on" binding:"omitempty,datetime=2006-01-02"`
}

// UpdateProductInput represents a request to update a product. Nil fields
// are left untouched.
type UpdateProductInput struct {
	Name         *string          `json:"name" binding:"omitempty,min=1,max=100"`
	Description  *string          `json:"description"`
	Category     *string          `json:"category" binding:"omitempty,max=50"`
	Price        *decimal.Decimal `json:"price" binding:"omitempty,decimal_gte0"`
	Supplier     *string          `json:"supplier" binding:"omitempty,max=100"`
	Stock        *int             `json:"stock" binding:"omitempty,gte=0"`
	RegisteredOn *string          `json:"registered_on" binding:"omitempty,datetime=2006-01-02"`
}

// ProductListQuery holds the listing parameters
type ProductListQuery struct {
	Search    string `form:"search"`
	Category  string `form:"category"`
	Available bool   `form:"available"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=500"`
}

// Filter converts the query into a repository filter
func (q ProductListQuery) Filter() catalog.ProductFilter {
	return catalog.ProductFilter{
		Filter: shared.Filter{
			Page:     q.Page,
			PageSize: q.PageSize,
			Search:   q.Search,
		}.Normalize(),
		Category:      q.Category,
		OnlyAvailable: q.Available,
	}
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID           uuid.UUID         `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Category     string            `json:"category"`
	Price        valueobject.Money `json:"price"`
	Supplier     string            `json:"supplier"`
	Stock        int               `json:"stock"`
	Available    bool              `json:"available"`
	RegisteredOn string            `json:"registered_on"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	Version      int               `json:"version"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Category:     p.Category,
		Price:        p.Price,
		Supplier:     p.Supplier,
		Stock:        p.Stock,
		Available:    p.IsAvailable(),
		RegisteredOn: p.RegisteredOn.Format(DateLayout),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		Version:      p.Version,
	}
}

// ToProductResponses converts a slice of domain Products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, shared.NewValidationError("INVALID_DATE", field+" must be a date in YYYY-MM-DD format")
	}
	return t, nil
}

func (in UpdateProductInput) changes() (catalog.ProductChanges, error) {
	changes := catalog.ProductChanges{
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Supplier:    in.Supplier,
		Stock:       in.Stock,
	}
	if in.Price != nil {
		price := valueobject.NewMoney(*in.Price)
		changes.Price = &price
	}
	if in.RegisteredOn != nil {
		date, err := parseDate("registered_on", *in.RegisteredOn)
		if err != nil {
			return catalog.ProductChanges{}, err
		}
		changes.RegisteredOn = &date
	}
	return changes, nil
}

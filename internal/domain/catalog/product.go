package catalog

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/domain/shared/valueobject"
)

const (
	maxNameLength     = 100
	maxCategoryLength = 50
	maxSupplierLength = 100
)

// Product represents a sellable item in the catalog.
// It is the aggregate root for catalog operations.
type Product struct {
	shared.BaseAggregateRoot
	Name         string
	Description  string
	Category     string
	Price        valueobject.Money
	Supplier     string
	Stock        int
	RegisteredOn time.Time // calendar date, UTC midnight
}

// ProductDetails carries the optional attributes of a new product
type ProductDetails struct {
	Description  string
	Category     string
	Supplier     string
	Stock        int
	RegisteredOn *time.Time
}

// NewProduct creates a new product. RegisteredOn defaults to today.
func NewProduct(name string, price valueobject.Money, details ProductDetails) (*Product, error) {
	name = strings.TrimSpace(name)
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}
	if err := validateStock(details.Stock); err != nil {
		return nil, err
	}
	if err := validateCategory(details.Category); err != nil {
		return nil, err
	}
	if err := validateSupplier(details.Supplier); err != nil {
		return nil, err
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       details.Description,
		Category:          strings.TrimSpace(details.Category),
		Price:             price,
		Supplier:          strings.TrimSpace(details.Supplier),
		Stock:             details.Stock,
	}
	if details.RegisteredOn != nil {
		product.RegisteredOn = DateOf(*details.RegisteredOn)
	} else {
		product.RegisteredOn = DateOf(product.CreatedAt)
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// ProductChanges lists the fields an update overwrites. Nil fields are left
// untouched.
type ProductChanges struct {
	Name         *string
	Description  *string
	Category     *string
	Price        *valueobject.Money
	Supplier     *string
	Stock        *int
	RegisteredOn *time.Time
}

// IsEmpty reports whether no field is set
func (c ProductChanges) IsEmpty() bool {
	return c.Name == nil && c.Description == nil && c.Category == nil && c.Price == nil &&
		c.Supplier == nil && c.Stock == nil && c.RegisteredOn == nil
}

// Apply validates every supplied field first and only then overwrites them,
// so a rejected update leaves the product unchanged.
func (p *Product) Apply(changes ProductChanges) error {
	name := p.Name
	if changes.Name != nil {
		name = strings.TrimSpace(*changes.Name)
		if err := validateProductName(name); err != nil {
			return err
		}
	}
	if changes.Price != nil {
		if err := validatePrice(*changes.Price); err != nil {
			return err
		}
	}
	if changes.Stock != nil {
		if err := validateStock(*changes.Stock); err != nil {
			return err
		}
	}
	if changes.Category != nil {
		if err := validateCategory(*changes.Category); err != nil {
			return err
		}
	}
	if changes.Supplier != nil {
		if err := validateSupplier(*changes.Supplier); err != nil {
			return err
		}
	}

	oldPrice := p.Price
	p.Name = name
	if changes.Description != nil {
		p.Description = *changes.Description
	}
	if changes.Category != nil {
		p.Category = strings.TrimSpace(*changes.Category)
	}
	if changes.Price != nil {
		p.Price = *changes.Price
	}
	if changes.Supplier != nil {
		p.Supplier = strings.TrimSpace(*changes.Supplier)
	}
	if changes.Stock != nil {
		p.Stock = *changes.Stock
	}
	if changes.RegisteredOn != nil {
		p.RegisteredOn = DateOf(*changes.RegisteredOn)
	}
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))
	if !oldPrice.Equals(p.Price) {
		p.AddDomainEvent(NewProductPriceChangedEvent(p, oldPrice))
	}

	return nil
}

// IsAvailable returns true when the product has stock on hand
func (p *Product) IsAvailable() bool {
	return p.Stock > 0
}

// MarkDeleted records the deletion event. The caller removes the row.
func (p *Product) MarkDeleted() {
	p.AddDomainEvent(NewProductDeletedEvent(p))
}

// DateOf truncates t to its calendar date at UTC midnight
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewValidationError("INVALID_NAME", "Product name cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return shared.NewValidationError("INVALID_NAME", "Product name cannot exceed 100 characters")
	}
	return nil
}

func validatePrice(price valueobject.Money) error {
	if price.IsNegative() {
		return shared.NewValidationError("INVALID_PRICE", "Price cannot be negative")
	}
	if price.ExceedsMax() {
		return shared.NewValidationError("INVALID_PRICE", "Price exceeds the maximum amount")
	}
	return nil
}

func validateStock(stock int) error {
	if stock < 0 {
		return shared.NewValidationError("INVALID_STOCK", "Stock cannot be negative")
	}
	return nil
}

func validateCategory(category string) error {
	if utf8.RuneCountInString(strings.TrimSpace(category)) > maxCategoryLength {
		return shared.NewValidationError("INVALID_CATEGORY", "Category cannot exceed 50 characters")
	}
	return nil
}

func validateSupplier(supplier string) error {
	if utf8.RuneCountInString(strings.TrimSpace(supplier)) > maxSupplierLength {
		return shared.NewValidationError("INVALID_SUPPLIER", "Supplier cannot exceed 100 characters")
	}
	return nil
}

package models

import (
	"time"

	"github.com/shop/backend/internal/domain/catalog"
	"github.com/shop/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product aggregate root.
type ProductModel struct {
	AggregateModel
	Name         string          `gorm:"type:varchar(100);not null;index:idx_products_name"`
	Description  string          `gorm:"type:text;not null;default:''"`
	Category     string          `gorm:"type:varchar(50);not null;default:'';index:idx_products_category"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Supplier     string          `gorm:"type:varchar(100);not null;default:''"`
	Stock        int             `gorm:"not null;default:0"`
	RegisteredOn time.Time       `gorm:"type:date;not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		Description:       m.Description,
		Category:          m.Category,
		Price:             valueobject.NewMoney(m.Price),
		Supplier:          m.Supplier,
		Stock:             m.Stock,
		RegisteredOn:      catalog.DateOf(m.RegisteredOn),
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Name = p.Name
	m.Description = p.Description
	m.Category = p.Category
	m.Price = p.Price.Amount()
	m.Supplier = p.Supplier
	m.Stock = p.Stock
	m.RegisteredOn = p.RegisteredOn
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

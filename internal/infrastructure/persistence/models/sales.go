package models

import (
	"github.com/google/uuid"
	"github.com/shop/backend/internal/domain/sales"
	"github.com/shop/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate root.
// It declares no has-many association: the line item side owns the
// foreign key and its ON DELETE rule.
type OrderModel struct {
	AggregateModel
	CustomerName    string              `gorm:"type:varchar(100);not null;index:idx_orders_customer_name"`
	ShippingAddress string              `gorm:"type:text;not null"`
	Total           decimal.Decimal     `gorm:"type:decimal(10,2);not null;default:0"`
	Status          sales.OrderStatus   `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_orders_status"`
	PaymentMethod   sales.PaymentMethod `gorm:"type:varchar(20);not null;default:'CASH'"`
	Comments        string              `gorm:"type:text;not null;default:''"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order, restoring the
// stored total.
func (m *OrderModel) ToDomain() *sales.Order {
	return sales.RestoreOrder(sales.Order{
		BaseAggregateRoot: m.ToAggregateRoot(),
		CustomerName:      m.CustomerName,
		ShippingAddress:   m.ShippingAddress,
		Status:            m.Status,
		PaymentMethod:     m.PaymentMethod,
		Comments:          m.Comments,
	}, valueobject.NewMoney(m.Total))
}

// FromDomain populates the persistence model from a domain Order.
func (m *OrderModel) FromDomain(o *sales.Order) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.CustomerName = o.CustomerName
	m.ShippingAddress = o.ShippingAddress
	m.Total = o.Total().Amount()
	m.Status = o.Status
	m.PaymentMethod = o.PaymentMethod
	m.Comments = o.Comments
}

// OrderModelFromDomain creates a new persistence model from a domain Order.
func OrderModelFromDomain(o *sales.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// LineItemModel is the persistence model for the LineItem entity. The
// (order_id, product_id) pair is unique. Deleting an order cascades to its
// line items while a referenced product cannot be deleted.
type LineItemModel struct {
	BaseModel
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_line_items_order_product,priority:1"`
	Order     *OrderModel     `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_line_items_order_product,priority:2;index:idx_line_items_product"`
	Product   *ProductModel   `gorm:"foreignKey:ProductID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Discount  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Notes     string          `gorm:"type:varchar(255);not null;default:''"`
}

// TableName returns the table name for GORM
func (LineItemModel) TableName() string {
	return "line_items"
}

// ToDomain converts the persistence model to a domain LineItem.
func (m *LineItemModel) ToDomain() *sales.LineItem {
	return &sales.LineItem{
		ID:        m.ID,
		OrderID:   m.OrderID,
		ProductID: m.ProductID,
		Quantity:  m.Quantity,
		UnitPrice: valueobject.NewMoney(m.UnitPrice),
		Discount:  valueobject.NewMoney(m.Discount),
		Subtotal:  valueobject.NewMoney(m.Subtotal),
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

// FromDomain populates the persistence model from a domain LineItem.
func (m *LineItemModel) FromDomain(li *sales.LineItem) {
	m.ID = li.ID
	m.CreatedAt = li.CreatedAt
	m.UpdatedAt = li.UpdatedAt
	m.OrderID = li.OrderID
	m.ProductID = li.ProductID
	m.Quantity = li.Quantity
	m.UnitPrice = li.UnitPrice.Amount()
	m.Discount = li.Discount.Amount()
	m.Subtotal = li.Subtotal.Amount()
	m.Notes = li.Notes
}

// LineItemModelFromDomain creates a new persistence model from a domain LineItem.
func LineItemModelFromDomain(li *sales.LineItem) *LineItemModel {
	m := &LineItemModel{}
	m.FromDomain(li)
	return m
}

// All returns every model in dependency order, for AutoMigrate
func All() []any {
	return []any{
		&ProductModel{},
		&OrderModel{},
		&LineItemModel{},
	}
}

package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shop/backend/internal/domain/catalog"
	"github.com/shop/backend/internal/domain/sales"
	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLineItemRepository implements LineItemRepository using GORM
type GormLineItemRepository struct {
	db *gorm.DB
}

// NewGormLineItemRepository creates a new GormLineItemRepository
func NewGormLineItemRepository(db *gorm.DB) *GormLineItemRepository {
	return &GormLineItemRepository{db: db}
}

// FindByID finds a line item by ID
func (r *GormLineItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.LineItem, error) {
	var model models.LineItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, sales.NewLineItemNotFoundError(id), "find line item")
	}
	return model.ToDomain(), nil
}

// FindByOrderAndProduct finds the line item holding an (order, product) pair
func (r *GormLineItemRepository) FindByOrderAndProduct(ctx context.Context, orderID, productID uuid.UUID) (*sales.LineItem, error) {
	var model models.LineItemModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ? AND product_id = ?", orderID, productID).
		First(&model).Error; err != nil {
		return nil, notFoundOr(err,
			shared.NewNotFoundError("LINE_ITEM_NOT_FOUND", "No line item for this order and product"),
			"find line item by order and product")
	}
	return model.ToDomain(), nil
}

// FindByOrder finds all line items of an order, oldest first
func (r *GormLineItemRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]sales.LineItem, error) {
	var rows []models.LineItemModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, translateError(err, "list order line items")
	}
	return toLineItems(rows), nil
}

// FindAll finds line items matching the filter, ordered by their order's
// creation time, newest first
func (r *GormLineItemRepository) FindAll(ctx context.Context, filter sales.LineItemFilter) ([]sales.LineItem, error) {
	filter.Filter = filter.Normalize()
	var rows []models.LineItemModel
	err := r.applyFilter(r.db.WithContext(ctx).Model(&models.LineItemModel{}), filter).
		Joins("JOIN orders ON orders.id = line_items.order_id").
		Order("orders.created_at DESC").
		Order("line_items.created_at ASC").
		Order("line_items.id ASC").
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, translateError(err, "list line items")
	}
	return toLineItems(rows), nil
}

// Count counts line items matching the filter
func (r *GormLineItemRepository) Count(ctx context.Context, filter sales.LineItemFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.LineItemModel{}), filter).Count(&count).Error; err != nil {
		return 0, translateError(err, "count line items")
	}
	return count, nil
}

type firstItemRow struct {
	OrderID     uuid.UUID
	ProductName string
	Quantity    int
}

// FirstItemSummaries returns, per order, the product name and quantity of
// its earliest line item. Orders without line items are absent from the map.
func (r *GormLineItemRepository) FirstItemSummaries(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID]sales.FirstItemSummary, error) {
	summaries := make(map[uuid.UUID]sales.FirstItemSummary, len(orderIDs))
	if len(orderIDs) == 0 {
		return summaries, nil
	}

	var rows []firstItemRow
	if err := r.db.WithContext(ctx).
		Table("line_items").
		Select("line_items.order_id, products.name AS product_name, line_items.quantity").
		Joins("JOIN products ON products.id = line_items.product_id").
		Where("line_items.order_id IN ?", orderIDs).
		Order("line_items.created_at ASC").
		Order("line_items.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, translateError(err, "load first line items")
	}

	for _, row := range rows {
		if _, seen := summaries[row.OrderID]; seen {
			continue
		}
		summaries[row.OrderID] = sales.FirstItemSummary{
			OrderID:     row.OrderID,
			ProductName: row.ProductName,
			Quantity:    row.Quantity,
		}
	}
	return summaries, nil
}

// CountByProduct counts line items referencing a product
func (r *GormLineItemRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.LineItemModel{}).
		Where("product_id = ?", productID).
		Count(&count).Error; err != nil {
		return 0, translateError(err, "count product references")
	}
	return count, nil
}

// Save creates or updates a line item. A second row for the same
// (order, product) pair violates the unique index and is reported as a
// conflict.
func (r *GormLineItemRepository) Save(ctx context.Context, item *sales.LineItem) error {
	model := models.LineItemModelFromDomain(item)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(model).Error; err != nil {
		return translateError(err, "save line item")
	}
	return nil
}

// Delete deletes a line item
func (r *GormLineItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.LineItemModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error, "delete line item")
	}
	if result.RowsAffected == 0 {
		return sales.NewLineItemNotFoundError(id)
	}
	return nil
}

// DeleteByOrder deletes every line item of an order
func (r *GormLineItemRepository) DeleteByOrder(ctx context.Context, orderID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&models.LineItemModel{})
	if result.Error != nil {
		return 0, translateError(result.Error, "delete order line items")
	}
	return result.RowsAffected, nil
}

func (r *GormLineItemRepository) applyFilter(query *gorm.DB, filter sales.LineItemFilter) *gorm.DB {
	if filter.OrderID != nil {
		query = query.Where("line_items.order_id = ?", *filter.OrderID)
	}
	return query
}

func toLineItems(rows []models.LineItemModel) []sales.LineItem {
	items := make([]sales.LineItem, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items
}

var (
	_ sales.LineItemRepository        = (*GormLineItemRepository)(nil)
	_ catalog.ProductReferenceCounter = (*GormLineItemRepository)(nil)
)

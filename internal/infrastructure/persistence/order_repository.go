package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shop/backend/internal/domain/sales"
	"github.com/shop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, sales.NewOrderNotFoundError(id), "find order")
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds an order with SELECT ... FOR UPDATE. The lock is
// held until the surrounding transaction commits or rolls back.
func (r *GormOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*sales.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, sales.NewOrderNotFoundError(id), "lock order")
	}
	return model.ToDomain(), nil
}

// FindAll finds orders matching the filter, newest first
func (r *GormOrderRepository) FindAll(ctx context.Context, filter sales.OrderFilter) ([]sales.Order, error) {
	filter.Filter = filter.Normalize()
	var rows []models.OrderModel
	err := r.applyFilter(r.db.WithContext(ctx).Model(&models.OrderModel{}), filter).
		Order("created_at DESC").
		Order("id ASC").
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, translateError(err, "list orders")
	}

	orders := make([]sales.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, nil
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter sales.OrderFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.OrderModel{}), filter).Count(&count).Error; err != nil {
		return 0, translateError(err, "count orders")
	}
	return count, nil
}

// Save creates or updates an order, including its reconciled total
func (r *GormOrderRepository) Save(ctx context.Context, order *sales.Order) error {
	model := models.OrderModelFromDomain(order)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(model).Error; err != nil {
		return translateError(err, "save order")
	}
	return nil
}

// Delete deletes an order. Its line items go with it through ON DELETE CASCADE.
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.OrderModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error, "delete order")
	}
	if result.RowsAffected == 0 {
		return sales.NewOrderNotFoundError(id)
	}
	return nil
}

func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter sales.OrderFilter) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("LOWER(customer_name) LIKE ?", likePattern(search))
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PaymentMethod != "" {
		query = query.Where("payment_method = ?", filter.PaymentMethod)
	}
	return query
}

var _ sales.OrderRepository = (*GormOrderRepository)(nil)

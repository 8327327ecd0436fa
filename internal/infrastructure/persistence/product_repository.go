package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shop/backend/internal/domain/catalog"
	"github.com/shop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, catalog.NewProductNotFoundError(id), "find product")
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a product and holds a row lock on it
func (r *GormProductRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, catalog.NewProductNotFoundError(id), "lock product")
	}
	return model.ToDomain(), nil
}

// FindAll finds all products matching the filter, ordered by name
func (r *GormProductRepository) FindAll(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, error) {
	filter.Filter = filter.Normalize()
	var rows []models.ProductModel
	err := r.applyFilter(r.db.WithContext(ctx).Model(&models.ProductModel{}), filter).
		Order("name ASC").
		Order("id ASC").
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, translateError(err, "list products")
	}

	products := make([]catalog.Product, len(rows))
	for i := range rows {
		products[i] = *rows[i].ToDomain()
	}
	return products, nil
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter catalog.ProductFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.ProductModel{}), filter).Count(&count).Error; err != nil {
		return 0, translateError(err, "count products")
	}
	return count, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(model).Error; err != nil {
		return translateError(err, "save product")
	}
	return nil
}

// Delete deletes a product. A product still referenced by line items is
// rejected by the foreign key and reported as a referential integrity error.
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ProductModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error, "delete product")
	}
	if result.RowsAffected == 0 {
		return catalog.NewProductNotFoundError(id)
	}
	return nil
}

// applyFilter applies search, category and availability filters
func (r *GormProductRepository) applyFilter(query *gorm.DB, filter catalog.ProductFilter) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := likePattern(search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(category) LIKE ? OR LOWER(supplier) LIKE ?", pattern, pattern, pattern)
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("category = ?", category)
	}
	if filter.OnlyAvailable {
		query = query.Where("stock > 0")
	}
	return query
}

// likePattern builds a case-insensitive contains pattern usable on both
// PostgreSQL and SQLite
func likePattern(search string) string {
	return "%" + strings.ToLower(search) + "%"
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)

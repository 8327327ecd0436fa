package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shop/backend/internal/application/event"
	"github.com/shop/backend/internal/domain/catalog"
	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/domain/shared/valueobject"
)

// CatalogService handles product-related business operations
type CatalogService struct {
	productRepo catalog.ProductRepository
	txScope     TransactionScope
	events      *event.Dispatcher
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(productRepo catalog.ProductRepository, txScope TransactionScope) *CatalogService {
	return &CatalogService{
		productRepo: productRepo,
		txScope:     txScope,
	}
}

// SetEventDispatcher sets the dispatcher that publishes events after commit
func (s *CatalogService) SetEventDispatcher(dispatcher *event.Dispatcher) {
	s.events = dispatcher
}

// CreateProduct creates a new product. The registration date defaults to today.
func (s *CatalogService) CreateProduct(ctx context.Context, in CreateProductInput) (*ProductResponse, error) {
	if in.Price == nil {
		return nil, shared.NewValidationError("INVALID_PRICE", "Price is required")
	}
	details := catalog.ProductDetails{
		Description: in.Description,
		Category:    in.Category,
		Supplier:    in.Supplier,
		Stock:       in.Stock,
	}
	if in.RegisteredOn != "" {
		date, err := parseDate("registered_on", in.RegisteredOn)
		if err != nil {
			return nil, err
		}
		details.RegisteredOn = &date
	}

	product, err := catalog.NewProduct(in.Name, valueobject.NewMoney(*in.Price), details)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.events.DispatchFrom(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// UpdateProduct overwrites the supplied fields of a product
func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, in UpdateProductInput) (*ProductResponse, error) {
	changes, err := in.changes()
	if err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if changes.IsEmpty() {
		response := ToProductResponse(product)
		return &response, nil
	}

	if err := product.Apply(changes); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.events.DispatchFrom(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// DeleteProduct deletes a product that no line item references. The
// reference check and the delete run in one transaction with the product
// row locked.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	var deleted *catalog.Product
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		product, err := repos.ProductRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		references, err := repos.ReferenceCounter().CountByProduct(ctx, id)
		if err != nil {
			return err
		}
		if references > 0 {
			return catalog.NewProductInUseError(id, references)
		}
		if err := repos.ProductRepo().Delete(ctx, id); err != nil {
			if shared.IsReferentialIntegrity(err) {
				return catalog.NewProductInUseError(id, 1)
			}
			return err
		}
		product.MarkDeleted()
		deleted = product
		return nil
	})
	if err != nil {
		return err
	}
	s.events.DispatchFrom(ctx, deleted)
	return nil
}

// ListProducts lists products ordered by name. Every call reads storage afresh.
func (s *CatalogService) ListProducts(ctx context.Context, query ProductListQuery) (*shared.Paginated[ProductResponse], error) {
	filter := query.Filter()
	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToProductResponses(products), total, filter.Page, filter.PageSize)
	return &page, nil
}

// GetProduct returns one product
func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

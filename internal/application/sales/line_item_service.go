package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/shop/backend/internal/application/event"
	"github.com/shop/backend/internal/domain/sales"
	"github.com/shop/backend/internal/domain/shared"
)

// LineItemService handles line item mutations. Every mutation locks the
// owning order row, writes the line item and reconciles the order total in
// a single transaction.
type LineItemService struct {
	lineItemRepo sales.LineItemRepository
	txScope      TransactionScope
	reconciler   *Reconciler
	events       *event.Dispatcher
}

// NewLineItemService creates a new LineItemService
func NewLineItemService(
	lineItemRepo sales.LineItemRepository,
	txScope TransactionScope,
	reconciler *Reconciler,
) *LineItemService {
	return &LineItemService{
		lineItemRepo: lineItemRepo,
		txScope:      txScope,
		reconciler:   reconciler,
	}
}

// SetEventDispatcher sets the dispatcher that publishes events after commit
func (s *LineItemService) SetEventDispatcher(dispatcher *event.Dispatcher) {
	s.events = dispatcher
}

// AddLineItem adds a product to an order. When the order already holds the
// product the quantities and discounts are merged into the existing line
// item, whose unit price is kept. Otherwise a new line item is created at
// the product's current price.
func (s *LineItemService) AddLineItem(ctx context.Context, in AddLineItemInput) (*AddLineItemResult, error) {
	discount := discountOrZero(in.Discount)

	var (
		item       *sales.LineItem
		outcome    sales.AddOutcome
		reconciled *sales.Order
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.OrderRepo().FindByIDForUpdate(ctx, in.OrderID); err != nil {
			return err
		}
		product, err := repos.ProductRepo().FindByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if _, err := sales.CalculateSubtotal(in.Quantity, product.Price, discount); err != nil {
			return err
		}

		existing, err := repos.LineItemRepo().FindByOrderAndProduct(ctx, in.OrderID, in.ProductID)
		switch {
		case err == nil:
			if err := existing.Merge(in.Quantity, discount); err != nil {
				return err
			}
			item, outcome = existing, sales.AddOutcomeMerged
		case shared.IsNotFound(err):
			item, err = sales.NewLineItem(in.OrderID, in.ProductID, product.Price, in.Quantity, discount, in.Notes)
			if err != nil {
				return err
			}
			outcome = sales.AddOutcomeCreated
		default:
			return err
		}

		if err := repos.LineItemRepo().Save(ctx, item); err != nil {
			return err
		}
		reconciled, err = s.reconciler.Reconcile(ctx, repos, in.OrderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.events.Dispatch(ctx, sales.NewLineItemAddedEvent(item, outcome))
	s.events.DispatchFrom(ctx, reconciled)

	return &AddLineItemResult{
		Outcome:    outcome,
		LineItem:   ToLineItemResponse(item),
		OrderTotal: reconciled.Total(),
	}, nil
}

// UpdateLineItem replaces the state of a line item. Moving it to another
// order reconciles the previous order first, then the current one. Both
// orders are locked in id order.
func (s *LineItemService) UpdateLineItem(ctx context.Context, id uuid.UUID, in UpdateLineItemInput) (*LineItemResponse, error) {
	discount := discountOrZero(in.Discount)
	current, err := s.lineItemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var (
		item            *sales.LineItem
		previousOrderID uuid.UUID
		touched         []*sales.Order
	)
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		for _, orderID := range sales.SortOrderIDs(current.OrderID, in.OrderID) {
			if _, err := repos.OrderRepo().FindByIDForUpdate(ctx, orderID); err != nil {
				if shared.IsNotFound(err) && orderID == current.OrderID {
					return shared.NewConflictError("LINE_ITEM_MOVED", "Line item changed concurrently, retry the request")
				}
				return err
			}
		}

		var err error
		item, err = repos.LineItemRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if item.OrderID != current.OrderID {
			return shared.NewConflictError("LINE_ITEM_MOVED", "Line item changed concurrently, retry the request")
		}
		previousOrderID = item.OrderID

		product, err := repos.ProductRepo().FindByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if in.OrderID != item.OrderID || in.ProductID != item.ProductID {
			other, err := repos.LineItemRepo().FindByOrderAndProduct(ctx, in.OrderID, in.ProductID)
			if err == nil && other.ID != item.ID {
				return sales.NewDuplicateLineItemError(in.OrderID, in.ProductID)
			}
			if err != nil && !shared.IsNotFound(err) {
				return err
			}
		}

		if err := item.Revise(sales.LineItemRevision{
			OrderID:      in.OrderID,
			ProductID:    in.ProductID,
			ProductPrice: product.Price,
			Quantity:     in.Quantity,
			Discount:     discount,
			Notes:        in.Notes,
		}); err != nil {
			return err
		}
		if err := repos.LineItemRepo().Save(ctx, item); err != nil {
			return err
		}

		if previousOrderID != item.OrderID {
			previous, err := s.reconciler.Reconcile(ctx, repos, previousOrderID)
			if err != nil {
				return err
			}
			touched = append(touched, previous)
		}
		order, err := s.reconciler.Reconcile(ctx, repos, item.OrderID)
		if err != nil {
			return err
		}
		touched = append(touched, order)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.Dispatch(ctx, sales.NewLineItemUpdatedEvent(item, previousOrderID))
	for _, order := range touched {
		s.events.DispatchFrom(ctx, order)
	}

	response := ToLineItemResponse(item)
	return &response, nil
}

// RemoveLineItem deletes a line item and reconciles its order
func (s *LineItemService) RemoveLineItem(ctx context.Context, id uuid.UUID) error {
	current, err := s.lineItemRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	var (
		item       *sales.LineItem
		reconciled *sales.Order
	)
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.OrderRepo().FindByIDForUpdate(ctx, current.OrderID); err != nil {
			if shared.IsNotFound(err) {
				return sales.NewLineItemNotFoundError(id)
			}
			return err
		}
		var err error
		item, err = repos.LineItemRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if item.OrderID != current.OrderID {
			return shared.NewConflictError("LINE_ITEM_MOVED", "Line item changed concurrently, retry the request")
		}
		if err := repos.LineItemRepo().Delete(ctx, id); err != nil {
			return err
		}
		reconciled, err = s.reconciler.Reconcile(ctx, repos, item.OrderID)
		return err
	})
	if err != nil {
		return err
	}

	s.events.Dispatch(ctx, sales.NewLineItemRemovedEvent(item))
	s.events.DispatchFrom(ctx, reconciled)
	return nil
}

// ListLineItems lists line items, newest order first
func (s *LineItemService) ListLineItems(ctx context.Context, query LineItemListQuery) (*shared.Paginated[LineItemResponse], error) {
	filter, err := query.Filter()
	if err != nil {
		return nil, err
	}
	items, err := s.lineItemRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.lineItemRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToLineItemResponses(items), total, filter.Page, filter.PageSize)
	return &page, nil
}

// GetLineItem returns a line item by ID
func (s *LineItemService) GetLineItem(ctx context.Context, id uuid.UUID) (*LineItemResponse, error) {
	item, err := s.lineItemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToLineItemResponse(item)
	return &response, nil
}

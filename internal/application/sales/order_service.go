package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/shop/backend/internal/application/event"
	"github.com/shop/backend/internal/domain/sales"
	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/domain/shared/valueobject"
)

// OrderService handles order-related business operations
type OrderService struct {
	orderRepo    sales.OrderRepository
	lineItemRepo sales.LineItemRepository
	txScope      TransactionScope
	reconciler   *Reconciler
	events       *event.Dispatcher
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo sales.OrderRepository,
	lineItemRepo sales.LineItemRepository,
	txScope TransactionScope,
	reconciler *Reconciler,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		lineItemRepo: lineItemRepo,
		txScope:      txScope,
		reconciler:   reconciler,
	}
}

// SetEventDispatcher sets the dispatcher that publishes events after commit
func (s *OrderService) SetEventDispatcher(dispatcher *event.Dispatcher) {
	s.events = dispatcher
}

// CreateOrder creates an order with a zero total
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*OrderResponse, error) {
	order, err := newOrder(in)
	if err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	s.events.DispatchFrom(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// CreateOrderWithItem creates an order, its first line item and the
// reconciled total in one transaction. The line item has no discount and
// carries the initial-item notes. Nothing is persisted on failure.
func (s *OrderService) CreateOrderWithItem(ctx context.Context, in CreateOrderWithItemInput) (*OrderDetailResponse, error) {
	if in.ProductID == nil || *in.ProductID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_PRODUCT", "Product is required")
	}
	if in.Quantity == nil {
		return nil, shared.NewValidationError("INVALID_QUANTITY", "Quantity is required")
	}
	if *in.Quantity <= 0 {
		return nil, shared.NewValidationError("INVALID_QUANTITY", "Quantity must be positive")
	}
	order, err := newOrder(in.CreateOrderInput)
	if err != nil {
		return nil, err
	}

	var (
		item       *sales.LineItem
		reconciled *sales.Order
	)
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		product, err := repos.ProductRepo().FindByID(ctx, *in.ProductID)
		if err != nil {
			return err
		}
		item, err = sales.NewLineItem(order.ID, product.ID, product.Price, *in.Quantity, valueobject.Zero(), sales.InitialItemNotes)
		if err != nil {
			return err
		}
		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return err
		}
		if err := repos.LineItemRepo().Save(ctx, item); err != nil {
			return err
		}
		reconciled, err = s.reconciler.Reconcile(ctx, repos, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.events.DispatchFrom(ctx, order)
	s.events.Dispatch(ctx, sales.NewLineItemAddedEvent(item, sales.AddOutcomeCreated))
	s.events.DispatchFrom(ctx, reconciled)

	return &OrderDetailResponse{
		OrderResponse: ToOrderResponse(reconciled),
		Items:         []LineItemResponse{ToLineItemResponse(item)},
	}, nil
}

// UpdateOrder overwrites the supplied order attributes. The order row is
// locked so that a concurrent reconciliation is not overwritten.
func (s *OrderService) UpdateOrder(ctx context.Context, id uuid.UUID, in UpdateOrderInput) (*OrderResponse, error) {
	changes := sales.OrderChanges{
		CustomerName:    in.CustomerName,
		ShippingAddress: in.ShippingAddress,
		Comments:        in.Comments,
	}
	if in.Status != nil {
		status, err := sales.ParseOrderStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		changes.Status = &status
	}
	if in.PaymentMethod != nil {
		method, err := sales.ParsePaymentMethod(*in.PaymentMethod)
		if err != nil {
			return nil, err
		}
		changes.PaymentMethod = &method
	}

	var order *sales.Order
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.OrderRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := order.Apply(changes); err != nil {
			return err
		}
		return repos.OrderRepo().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	s.events.DispatchFrom(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// DeleteOrder deletes an order and all of its line items
func (s *OrderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	var order *sales.Order
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.OrderRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		removed, err := repos.LineItemRepo().DeleteByOrder(ctx, id)
		if err != nil {
			return err
		}
		if err := repos.OrderRepo().Delete(ctx, id); err != nil {
			return err
		}
		order.MarkDeleted(int(removed))
		return nil
	})
	if err != nil {
		return err
	}
	s.events.DispatchFrom(ctx, order)
	return nil
}

// ListOrders lists orders newest first, each annotated with its first line item
func (s *OrderService) ListOrders(ctx context.Context, query OrderListQuery) (*shared.Paginated[OrderListItemResponse], error) {
	filter, err := query.Filter()
	if err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
	}
	firstItems, err := s.lineItemRepo.FirstItemSummaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]OrderListItemResponse, len(orders))
	for i := range orders {
		items[i] = OrderListItemResponse{OrderResponse: ToOrderResponse(&orders[i])}
		if first, ok := firstItems[orders[i].ID]; ok {
			items[i].FirstItem = &FirstItemResponse{ProductName: first.ProductName, Quantity: first.Quantity}
		}
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// GetOrder returns an order with its line items
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*OrderDetailResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.lineItemRepo.FindByOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return &OrderDetailResponse{
		OrderResponse: ToOrderResponse(order),
		Items:         ToLineItemResponses(items),
	}, nil
}

// ReconcileOrder recomputes an order total on demand. Unlike the internal
// routine it reports an unknown order as not found.
func (s *OrderService) ReconcileOrder(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	var order *sales.Order
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = s.reconciler.Reconcile(ctx, repos, id)
		if err != nil {
			return err
		}
		if order == nil {
			return sales.NewOrderNotFoundError(id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.events.DispatchFrom(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

func newOrder(in CreateOrderInput) (*sales.Order, error) {
	status, err := sales.ParseOrderStatus(in.Status)
	if err != nil {
		return nil, err
	}
	method, err := sales.ParsePaymentMethod(in.PaymentMethod)
	if err != nil {
		return nil, err
	}
	return sales.NewOrder(in.CustomerName, in.ShippingAddress, sales.OrderOptions{
		Status:        status,
		PaymentMethod: method,
		Comments:      in.Comments,
	})
}

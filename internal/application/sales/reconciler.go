package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/shop/backend/internal/domain/sales"
	"github.com/shop/backend/internal/domain/shared"
)

// Reconciler recomputes an order total from its line items. It is the only
// code path that persists a changed total.
type Reconciler struct{}

// NewReconciler creates a Reconciler
func NewReconciler() *Reconciler {
	return &Reconciler{}
}

// Reconcile locks the order, sums the subtotals of its current line items
// and persists the result. A vanished order is a no-op and returns nil.
// Running it twice without an intervening change yields the same total.
func (r *Reconciler) Reconcile(ctx context.Context, repos TransactionalRepositories, orderID uuid.UUID) (*sales.Order, error) {
	order, err := repos.OrderRepo().FindByIDForUpdate(ctx, orderID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	items, err := repos.LineItemRepo().FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	order.Reconcile(items)
	if err := repos.OrderRepo().Save(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

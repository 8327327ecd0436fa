package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	appcatalog "github.com/shop/backend/internal/application/catalog"
	appsales "github.com/shop/backend/internal/application/sales"
	"github.com/shop/backend/internal/domain/sales"
	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/domain/shared/valueobject"
	"github.com/shop/backend/internal/infrastructure/config"
	"github.com/shop/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type ledger struct {
	db       *gorm.DB
	catalog  *appcatalog.CatalogService
	orders   *appsales.OrderService
	items    *appsales.LineItemService
	orderDB  *GormOrderRepository
	itemDB   *GormLineItemRepository
	products *GormProductRepository
}

func newLedger(t *testing.T) *ledger {
	t.Helper()
	database, err := NewDatabase(&config.DatabaseConfig{Driver: config.DriverSQLite, SQLitePath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, database.AutoMigrate())

	db := database.DB
	products := NewGormProductRepository(db)
	orderRepo := NewGormOrderRepository(db)
	itemRepo := NewGormLineItemRepository(db)
	scope := NewGormTransactionScope(db)
	reconciler := appsales.NewReconciler()

	return &ledger{
		db:       db,
		catalog:  appcatalog.NewCatalogService(products, scope.Catalog()),
		orders:   appsales.NewOrderService(orderRepo, itemRepo, scope, reconciler),
		items:    appsales.NewLineItemService(itemRepo, scope, reconciler),
		orderDB:  orderRepo,
		itemDB:   itemRepo,
		products: products,
	}
}

func (l *ledger) product(t *testing.T, name, price string, stock int) uuid.UUID {
	t.Helper()
	p := decimal.RequireFromString(price)
	resp, err := l.catalog.CreateProduct(context.Background(), appcatalog.CreateProductInput{
		Name: name, Category: "Games", Supplier: "Acme", Price: &p, Stock: stock,
	})
	require.NoError(t, err)
	return resp.ID
}

func (l *ledger) order(t *testing.T, customer string) uuid.UUID {
	t.Helper()
	resp, err := l.orders.CreateOrder(context.Background(), appsales.CreateOrderInput{
		CustomerName: customer, ShippingAddress: "12 Analytical Row",
	})
	require.NoError(t, err)
	return resp.ID
}

func (l *ledger) total(t *testing.T, orderID uuid.UUID) string {
	t.Helper()
	order, err := l.orderDB.FindByID(context.Background(), orderID)
	require.NoError(t, err)
	return order.Total().String()
}

// assertTotalsMatch checks that every order total equals the sum of its subtotals
func (l *ledger) assertTotalsMatch(t *testing.T) {
	t.Helper()
	var orders []models.OrderModel
	require.NoError(t, l.db.Find(&orders).Error)
	for _, o := range orders {
		items, err := l.itemDB.FindByOrder(context.Background(), o.ID)
		require.NoError(t, err)
		sum := valueobject.Zero()
		for _, item := range items {
			sum = sum.Add(item.Subtotal)
		}
		assert.Equal(t, sum.String(), l.total(t, o.ID), "order %s", o.ID)
	}
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestLedger_Scenarios(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)
	deck := l.product(t, "Deck of Cards", "10.00", 4)
	chess := l.product(t, "Chess Set", "20.00", 1)
	first := l.order(t, "Ada Lovelace")
	second := l.order(t, "Charles Babbage")

	// A: add three decks
	added, err := l.items.AddLineItem(ctx, appsales.AddLineItemInput{OrderID: first, ProductID: deck, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, sales.AddOutcomeCreated, added.Outcome)
	assert.Equal(t, "10.00", added.LineItem.UnitPrice.String())
	assert.Equal(t, "30.00", added.LineItem.Subtotal.String())
	assert.Equal(t, "30.00", l.total(t, first))

	// B: adding the same product merges
	merged, err := l.items.AddLineItem(ctx, appsales.AddLineItemInput{OrderID: first, ProductID: deck, Quantity: 2, Discount: dec("5.00")})
	require.NoError(t, err)
	assert.Equal(t, sales.AddOutcomeMerged, merged.Outcome)
	assert.Equal(t, added.LineItem.ID, merged.LineItem.ID)
	assert.Equal(t, 5, merged.LineItem.Quantity)
	assert.Equal(t, "5.00", merged.LineItem.Discount.String())
	assert.Equal(t, "45.00", merged.LineItem.Subtotal.String())
	assert.Equal(t, "45.00", l.total(t, first))
	count, err := l.itemDB.Count(ctx, sales.LineItemFilter{OrderID: &first})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// C: switching product and order reprices and reconciles both orders
	updated, err := l.items.UpdateLineItem(ctx, merged.LineItem.ID, appsales.UpdateLineItemInput{
		OrderID: second, ProductID: chess, Quantity: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "20.00", updated.UnitPrice.String())
	assert.Equal(t, "20.00", updated.Subtotal.String())
	assert.Equal(t, "0.00", l.total(t, first))
	assert.Equal(t, "20.00", l.total(t, second))

	// E: a referenced product cannot be deleted
	err = l.catalog.DeleteProduct(ctx, chess)
	require.Error(t, err)
	assert.True(t, shared.IsReferentialIntegrity(err))
	_, err = l.products.FindByID(ctx, chess)
	require.NoError(t, err)
	assert.Equal(t, "20.00", l.total(t, second))

	// D: removing the only item zeroes the total
	require.NoError(t, l.items.RemoveLineItem(ctx, updated.ID))
	assert.Equal(t, "0.00", l.total(t, second))

	// once unreferenced the product can go
	require.NoError(t, l.catalog.DeleteProduct(ctx, chess))
	_, err = l.products.FindByID(ctx, chess)
	assert.True(t, shared.IsNotFound(err))

	l.assertTotalsMatch(t)
}

func TestLedger_MergeKeepsFirstUnitPrice(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)
	deck := l.product(t, "Deck of Cards", "10.00", 4)
	order := l.order(t, "Ada")

	_, err := l.items.AddLineItem(ctx, appsales.AddLineItemInput{OrderID: order, ProductID: deck, Quantity: 1, Discount: dec("1.00")})
	require.NoError(t, err)

	price := decimal.RequireFromString("99.99")
	_, err = l.catalog.UpdateProduct(ctx, deck, appcatalog.UpdateProductInput{Price: &price})
	require.NoError(t, err)

	result, err := l.items.AddLineItem(ctx, appsales.AddLineItemInput{OrderID: order, ProductID: deck, Quantity: 2, Discount: dec("0.50")})
	require.NoError(t, err)
	assert.Equal(t, 3, result.LineItem.Quantity)
	assert.Equal(t, "10.00", result.LineItem.UnitPrice.String())
	assert.Equal(t, "1.50", result.LineItem.Discount.String())
	assert.Equal(t, "28.50", result.LineItem.Subtotal.String())
	assert.Equal(t, "28.50", result.OrderTotal.String())
}

func TestLedger_FailedAddLeavesNothingBehind(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)
	deck := l.product(t, "Deck of Cards", "10.00", 4)
	order := l.order(t, "Ada")

	_, err := l.items.AddLineItem(ctx, appsales.AddLineItemInput{OrderID: order, ProductID: deck, Quantity: 1, Discount: dec("10.01")})
	assert.True(t, shared.IsValidation(err))
	_, err = l.items.AddLineItem(ctx, appsales.AddLineItemInput{OrderID: uuid.New(), ProductID: deck, Quantity: 1})
	assert.True(t, shared.IsNotFound(err))

	count, err := l.itemDB.Count(ctx, sales.LineItemFilter{})
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Equal(t, "0.00", l.total(t, order))
}

func TestLedger_CreateOrderWithItem(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)
	deck := l.product(t, "Deck of Cards", "10.00", 4)
	qty := 3

	detail, err := l.orders.CreateOrderWithItem(ctx, appsales.CreateOrderWithItemInput{
		CreateOrderInput: appsales.CreateOrderInput{CustomerName: "Ada", ShippingAddress: "12 Analytical Row", PaymentMethod: "card"},
		ProductID:        &deck,
		Quantity:         &qty,
	})
	require.NoError(t, err)
	assert.Equal(t, "30.00", detail.Total.String())
	assert.Equal(t, sales.PaymentMethodCard, detail.PaymentMethod)

	stored, err := l.orders.GetOrder(ctx, detail.ID)
	require.NoError(t, err)
	assert.Equal(t, "30.00", stored.Total.String())
	require.Len(t, stored.Items, 1)
	assert.Equal(t, sales.InitialItemNotes, stored.Items[0].Notes)

	missing := uuid.New()
	_, err = l.orders.CreateOrderWithItem(ctx, appsales.CreateOrderWithItemInput{
		CreateOrderInput: appsales.CreateOrderInput{CustomerName: "Bob", ShippingAddress: "x"},
		ProductID:        &missing,
		Quantity:         &qty,
	})
	assert.True(t, shared.IsNotFound(err))
	total, err := l.orderDB.Count(ctx, sales.OrderFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestLedger_DeleteOrderCascades(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)
	deck := l.product(t, "Deck of Cards", "10.00", 4)
	order := l.order(t, "Ada")
	_, err := l.items.AddLineItem(ctx, appsales.AddLineItemInput{OrderID: order, ProductID: deck, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, l.orders.DeleteOrder(ctx, order))

	count, err := l.itemDB.CountByProduct(ctx, deck)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.True(t, shared.IsNotFound(l.orders.DeleteOrder(ctx, order)))

	// the product is free again
	require.NoError(t, l.catalog.DeleteProduct(ctx, deck))
}

func TestLedger_ForeignKeysBackstop(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)
	deck := l.product(t, "Deck of Cards", "10.00", 4)
	order := l.order(t, "Ada")
	_, err := l.items.AddLineItem(ctx, appsales.AddLineItemInput{OrderID: order, ProductID: deck, Quantity: 1})
	require.NoError(t, err)

	t.Run("restrict on product delete", func(t *testing.T) {
		err := l.products.Delete(ctx, deck)
		require.Error(t, err)
		assert.True(t, shared.IsReferentialIntegrity(err))
		_, err = l.products.FindByID(ctx, deck)
		assert.NoError(t, err)
	})

	t.Run("cascade on order delete", func(t *testing.T) {
		require.NoError(t, l.orderDB.Delete(ctx, order))
		count, err := l.itemDB.Count(ctx, sales.LineItemFilter{})
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

func TestLedger_UniquePairConflict(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)
	deck := l.product(t, "Deck of Cards", "10.00", 4)
	order := l.order(t, "Ada")
	_, err := l.items.AddLineItem(ctx, appsales.AddLineItemInput{OrderID: order, ProductID: deck, Quantity: 1})
	require.NoError(t, err)

	duplicate, err := sales.NewLineItem(order, deck, valueobject.MustMoney("10.00"), 1, valueobject.Zero(), "")
	require.NoError(t, err)
	err = l.itemDB.Save(ctx, duplicate)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrConflict)
}

func TestLedger_UpdateOntoExistingPair(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)
	deck := l.product(t, "Deck of Cards", "10.00", 4)
	chess := l.product(t, "Chess Set", "20.00", 1)
	order := l.order(t, "Ada")
	first, err := l.items.AddLineItem(ctx, appsales.AddLineItemInput{OrderID: order, ProductID: deck, Quantity: 1})
	require.NoError(t, err)
	_, err = l.items.AddLineItem(ctx, appsales.AddLineItemInput{OrderID: order, ProductID: chess, Quantity: 1})
	require.NoError(t, err)

	_, err = l.items.UpdateLineItem(ctx, first.LineItem.ID, appsales.UpdateLineItemInput{OrderID: order, ProductID: chess, Quantity: 1})
	assert.True(t, shared.IsValidation(err))
	assert.Equal(t, "30.00", l.total(t, order))
}

func TestLedger_ReconcileIsIdempotent(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)
	deck := l.product(t, "Deck of Cards", "10.00", 4)
	order := l.order(t, "Ada")
	_, err := l.items.AddLineItem(ctx, appsales.AddLineItemInput{OrderID: order, ProductID: deck, Quantity: 2})
	require.NoError(t, err)

	// drift the stored total behind the services' back
	require.NoError(t, l.db.Model(&models.OrderModel{}).Where("id = ?", order).Update("total", "1.00").Error)

	once, err := l.orders.ReconcileOrder(ctx, order)
	require.NoError(t, err)
	twice, err := l.orders.ReconcileOrder(ctx, order)
	require.NoError(t, err)
	assert.Equal(t, "20.00", once.Total.String())
	assert.Equal(t, once.Total.String(), twice.Total.String())

	_, err = l.orders.ReconcileOrder(ctx, uuid.New())
	assert.True(t, shared.IsNotFound(err))
}

func TestLedger_Listings(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)
	deck := l.product(t, "Deck of Cards", "10.00", 4)
	chess := l.product(t, "Chess Set", "20.00", 0)
	older := l.order(t, "Ada Lovelace")
	newer := l.order(t, "Charles Babbage")
	_, err := l.items.AddLineItem(ctx, appsales.AddLineItemInput{OrderID: older, ProductID: deck, Quantity: 3})
	require.NoError(t, err)
	_, err = l.items.AddLineItem(ctx, appsales.AddLineItemInput{OrderID: older, ProductID: chess, Quantity: 1})
	require.NoError(t, err)

	t.Run("products by name with availability", func(t *testing.T) {
		all, err := l.catalog.ListProducts(ctx, appcatalog.ProductListQuery{})
		require.NoError(t, err)
		require.Len(t, all.Items, 2)
		assert.Equal(t, "Chess Set", all.Items[0].Name)

		available, err := l.catalog.ListProducts(ctx, appcatalog.ProductListQuery{Available: true})
		require.NoError(t, err)
		require.Len(t, available.Items, 1)
		assert.Equal(t, deck, available.Items[0].ID)

		searched, err := l.catalog.ListProducts(ctx, appcatalog.ProductListQuery{Search: "DECK"})
		require.NoError(t, err)
		require.Len(t, searched.Items, 1)
	})

	t.Run("orders newest first with first item", func(t *testing.T) {
		page, err := l.orders.ListOrders(ctx, appsales.OrderListQuery{})
		require.NoError(t, err)
		require.Len(t, page.Items, 2)
		assert.Equal(t, newer, page.Items[0].ID)
		assert.Nil(t, page.Items[0].FirstItem)
		require.NotNil(t, page.Items[1].FirstItem)
		assert.Equal(t, "Deck of Cards", page.Items[1].FirstItem.ProductName)
		assert.Equal(t, 3, page.Items[1].FirstItem.Quantity)

		searched, err := l.orders.ListOrders(ctx, appsales.OrderListQuery{Search: "babbage"})
		require.NoError(t, err)
		require.Len(t, searched.Items, 1)
		assert.Equal(t, newer, searched.Items[0].ID)
	})

	t.Run("line items filtered by order", func(t *testing.T) {
		page, err := l.items.ListLineItems(ctx, appsales.LineItemListQuery{OrderID: older.String()})
		require.NoError(t, err)
		assert.Len(t, page.Items, 2)

		page, err = l.items.ListLineItems(ctx, appsales.LineItemListQuery{OrderID: newer.String()})
		require.NoError(t, err)
		assert.Empty(t, page.Items)
	})
}

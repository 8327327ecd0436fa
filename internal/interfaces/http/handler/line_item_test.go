package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	salesapp "github.com/shop/backend/internal/application/sales"
	"github.com/shop/backend/internal/domain/catalog"
	"github.com/shop/backend/internal/domain/sales"
	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupLineItemRouter(svc *MockLineItemService) *gin.Engine {
	r := newTestEngine()
	h := NewLineItemHandler(svc)
	r.GET("/line-items", h.List)
	r.POST("/line-items", h.Create)
	r.GET("/line-items/:id", h.Get)
	r.PUT("/line-items/:id", h.Update)
	r.DELETE("/line-items/:id", h.Delete)
	return r
}

func lineItemBody(orderID, productID uuid.UUID, extra string) string {
	return fmt.Sprintf(`{"order_id":"%s","product_id":"%s"%s}`, orderID, productID, extra)
}

func TestLineItemHandler_Create(t *testing.T) {
	orderID, productID := uuid.New(), uuid.New()

	tests := []struct {
		name       string
		outcome    sales.AddOutcome
		quantity   int
		subtotal   string
		wantStatus int
	}{
		{"new line item", sales.AddOutcomeCreated, 3, "30.00", http.StatusCreated},
		{"merged into existing", sales.AddOutcomeMerged, 5, "45.00", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockLineItemService)
			result := &salesapp.AddLineItemResult{
				Outcome: tt.outcome,
				LineItem: salesapp.LineItemResponse{
					ID: uuid.New(), OrderID: orderID, ProductID: productID, Quantity: tt.quantity,
					UnitPrice: valueobject.MustMoney("10.00"), Subtotal: valueobject.MustMoney(tt.subtotal),
				},
				OrderTotal: valueobject.MustMoney(tt.subtotal),
			}
			svc.On("AddLineItem", mock.Anything, mock.MatchedBy(func(in salesapp.AddLineItemInput) bool {
				return in.OrderID == orderID && in.ProductID == productID && in.Quantity == 3
			})).Return(result, nil)

			w := performRequest(setupLineItemRouter(svc), http.MethodPost, "/line-items",
				lineItemBody(orderID, productID, `,"quantity":3`))

			assert.Equal(t, tt.wantStatus, w.Code)
			var got map[string]any
			decodeResponse(t, w, &got)
			assert.Equal(t, string(tt.outcome), got["outcome"])
			assert.Equal(t, tt.subtotal, got["order_total"])
			svc.AssertExpectations(t)
		})
	}
}

func TestLineItemHandler_Create_Rejections(t *testing.T) {
	orderID, productID := uuid.New(), uuid.New()

	t.Run("negative discount", func(t *testing.T) {
		svc := new(MockLineItemService)

		w := performRequest(setupLineItemRouter(svc), http.MethodPost, "/line-items",
			lineItemBody(orderID, productID, `,"quantity":1,"discount":"-1.00"`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "AddLineItem", mock.Anything, mock.Anything)
	})

	t.Run("notes too long", func(t *testing.T) {
		svc := new(MockLineItemService)
		notes := fmt.Sprintf(`,"quantity":1,"notes":"%0256d"`, 0)

		w := performRequest(setupLineItemRouter(svc), http.MethodPost, "/line-items",
			lineItemBody(orderID, productID, notes))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w, nil)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "notes", resp.Error.Details[0].Field)
	})

	t.Run("missing order id", func(t *testing.T) {
		svc := new(MockLineItemService)

		w := performRequest(setupLineItemRouter(svc), http.MethodPost, "/line-items",
			fmt.Sprintf(`{"product_id":"%s","quantity":1}`, productID))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	domainErrors := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"zero quantity", shared.NewValidationError("INVALID_QUANTITY", "quantity must be positive"), http.StatusBadRequest, "INVALID_QUANTITY"},
		{"unknown order", sales.NewOrderNotFoundError(orderID), http.StatusNotFound, "ORDER_NOT_FOUND"},
		{"unknown product", catalog.NewProductNotFoundError(productID), http.StatusNotFound, "PRODUCT_NOT_FOUND"},
		{"concurrent duplicate", shared.NewConflictError("LINE_ITEM_CONFLICT", "line item already exists"), http.StatusConflict, "LINE_ITEM_CONFLICT"},
	}
	for _, tt := range domainErrors {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockLineItemService)
			svc.On("AddLineItem", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := performRequest(setupLineItemRouter(svc), http.MethodPost, "/line-items",
				lineItemBody(orderID, productID, `,"quantity":0`))

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w, nil)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestLineItemHandler_Update(t *testing.T) {
	id, orderID, productID := uuid.New(), uuid.New(), uuid.New()

	t.Run("moves line item", func(t *testing.T) {
		svc := new(MockLineItemService)
		updated := &salesapp.LineItemResponse{
			ID: id, OrderID: orderID, ProductID: productID, Quantity: 1,
			UnitPrice: valueobject.MustMoney("20.00"), Subtotal: valueobject.MustMoney("20.00"),
		}
		svc.On("UpdateLineItem", mock.Anything, id, mock.MatchedBy(func(in salesapp.UpdateLineItemInput) bool {
			return in.OrderID == orderID && in.ProductID == productID && in.Quantity == 1 && in.Discount == nil
		})).Return(updated, nil)

		w := performRequest(setupLineItemRouter(svc), http.MethodPut, "/line-items/"+id.String(),
			lineItemBody(orderID, productID, `,"quantity":1`))

		assert.Equal(t, http.StatusOK, w.Code)
		var got salesapp.LineItemResponse
		decodeResponse(t, w, &got)
		assert.Equal(t, "20.00", got.Subtotal.String())
	})

	t.Run("pair already taken", func(t *testing.T) {
		svc := new(MockLineItemService)
		svc.On("UpdateLineItem", mock.Anything, id, mock.Anything).
			Return(nil, sales.NewDuplicateLineItemError(orderID, productID))

		w := performRequest(setupLineItemRouter(svc), http.MethodPut, "/line-items/"+id.String(),
			lineItemBody(orderID, productID, `,"quantity":1`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w, nil)
		assert.Equal(t, "DUPLICATE_LINE_ITEM", resp.Error.Code)
	})
}

func TestLineItemHandler_List(t *testing.T) {
	t.Run("filters by order", func(t *testing.T) {
		svc := new(MockLineItemService)
		orderID := uuid.New()
		page := shared.NewPaginated([]salesapp.LineItemResponse{}, 0, 1, 50)
		svc.On("ListLineItems", mock.Anything, salesapp.LineItemListQuery{OrderID: orderID.String()}).Return(&page, nil)

		w := performRequest(setupLineItemRouter(svc), http.MethodGet, "/line-items?order_id="+orderID.String(), "")

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("malformed order id", func(t *testing.T) {
		svc := new(MockLineItemService)

		w := performRequest(setupLineItemRouter(svc), http.MethodGet, "/line-items?order_id=abc", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "ListLineItems", mock.Anything, mock.Anything)
	})
}

func TestLineItemHandler_GetAndDelete(t *testing.T) {
	id := uuid.New()

	t.Run("get unknown", func(t *testing.T) {
		svc := new(MockLineItemService)
		svc.On("GetLineItem", mock.Anything, id).Return(nil, sales.NewLineItemNotFoundError(id))

		w := performRequest(setupLineItemRouter(svc), http.MethodGet, "/line-items/"+id.String(), "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		svc := new(MockLineItemService)
		svc.On("RemoveLineItem", mock.Anything, id).Return(nil)

		w := performRequest(setupLineItemRouter(svc), http.MethodDelete, "/line-items/"+id.String(), "")

		assert.Equal(t, http.StatusNoContent, w.Code)
		svc.AssertExpectations(t)
	})
}

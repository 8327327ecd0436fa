package sales

import (
	"fmt"
	"math"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/domain/shared/valueobject"
)

// InitialItemNotes marks the line item created together with its order
const InitialItemNotes = "initial product"

const maxNotesLength = 255

// MaxQuantity is the largest quantity the quantity column can hold
const MaxQuantity = math.MaxInt32

// AddOutcome tells whether adding a product to an order created a new line
// item or merged into the existing one for the same product.
type AddOutcome string

const (
	AddOutcomeCreated AddOutcome = "CREATED"
	AddOutcomeMerged  AddOutcome = "MERGED"
)

// String returns the string representation of AddOutcome
func (o AddOutcome) String() string {
	return string(o)
}

// LineItem associates one product with one order. The unit price is a
// snapshot of the product price taken when the product was associated.
type LineItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	UnitPrice valueobject.Money
	Discount  valueobject.Money
	Subtotal  valueobject.Money // Quantity * UnitPrice - Discount
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CalculateSubtotal returns quantity * unitPrice - discount after checking
// 0 < quantity <= MaxQuantity, discount >= 0 and a non-negative result.
func CalculateSubtotal(quantity int, unitPrice, discount valueobject.Money) (valueobject.Money, error) {
	if err := validateQuantity(quantity); err != nil {
		return valueobject.Money{}, err
	}
	if discount.IsNegative() {
		return valueobject.Money{}, shared.NewValidationError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	subtotal := unitPrice.MultiplyByInt(int64(quantity)).Subtract(discount)
	if subtotal.IsNegative() {
		return valueobject.Money{}, shared.NewValidationError("NEGATIVE_SUBTOTAL",
			fmt.Sprintf("Subtotal cannot be negative: %d x %s - %s", quantity, unitPrice, discount))
	}
	if subtotal.ExceedsMax() {
		return valueobject.Money{}, shared.NewValidationError("SUBTOTAL_TOO_LARGE", "Subtotal exceeds the maximum amount")
	}
	return subtotal, nil
}

func validateQuantity(quantity int) error {
	if quantity <= 0 {
		return shared.NewValidationError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if quantity > MaxQuantity {
		return shared.NewValidationError("INVALID_QUANTITY", fmt.Sprintf("Quantity cannot exceed %d", MaxQuantity))
	}
	return nil
}

// NewLineItem creates a line item priced at unitPrice
func NewLineItem(orderID, productID uuid.UUID, unitPrice valueobject.Money, quantity int, discount valueobject.Money, notes string) (*LineItem, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if err := validateNotes(notes); err != nil {
		return nil, err
	}
	subtotal, err := CalculateSubtotal(quantity, unitPrice, discount)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &LineItem{
		ID:        uuid.New(),
		OrderID:   orderID,
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Discount:  discount,
		Subtotal:  subtotal,
		Notes:     notes,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Merge folds another add of the same product into this line item. Quantity
// and discount accumulate and the subtotal is recomputed from the stored
// unit price. Notes stay as they were first recorded.
func (li *LineItem) Merge(quantity int, discount valueobject.Money) error {
	if err := validateQuantity(quantity); err != nil {
		return err
	}
	if discount.IsNegative() {
		return shared.NewValidationError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	mergedQuantity := li.Quantity + quantity
	mergedDiscount := li.Discount.Add(discount)
	subtotal, err := CalculateSubtotal(mergedQuantity, li.UnitPrice, mergedDiscount)
	if err != nil {
		return err
	}

	li.Quantity = mergedQuantity
	li.Discount = mergedDiscount
	li.Subtotal = subtotal
	li.UpdatedAt = time.Now().UTC()
	return nil
}

// LineItemRevision is the full replacement state for an existing line item
type LineItemRevision struct {
	OrderID      uuid.UUID
	ProductID    uuid.UUID
	ProductPrice valueobject.Money // current catalog price of ProductID
	Quantity     int
	Discount     valueobject.Money
	Notes        string
}

// Revise reassigns the line item. The unit price is re-snapshotted from
// ProductPrice only when the product changes. The recomputed subtotal must
// be non-negative, exactly as when adding.
func (li *LineItem) Revise(rev LineItemRevision) error {
	if rev.OrderID == uuid.Nil {
		return shared.NewValidationError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if rev.ProductID == uuid.Nil {
		return shared.NewValidationError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if err := validateNotes(rev.Notes); err != nil {
		return err
	}
	unitPrice := li.UnitPrice
	if rev.ProductID != li.ProductID {
		unitPrice = rev.ProductPrice
	}
	subtotal, err := CalculateSubtotal(rev.Quantity, unitPrice, rev.Discount)
	if err != nil {
		return err
	}

	li.OrderID = rev.OrderID
	li.ProductID = rev.ProductID
	li.UnitPrice = unitPrice
	li.Quantity = rev.Quantity
	li.Discount = rev.Discount
	li.Subtotal = subtotal
	li.Notes = rev.Notes
	li.UpdatedAt = time.Now().UTC()
	return nil
}

func validateNotes(notes string) error {
	if utf8.RuneCountInString(notes) > maxNotesLength {
		return shared.NewValidationError("INVALID_NOTES", "Notes cannot exceed 255 characters")
	}
	return nil
}

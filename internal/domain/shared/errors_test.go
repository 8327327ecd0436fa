package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainErrorKinds(t *testing.T) {
	notFound := NewNotFoundError("PRODUCT_NOT_FOUND", "Product not found")
	wrapped := fmt.Errorf("load product: %w", notFound)

	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsValidation(wrapped))
	assert.False(t, errors.Is(notFound, NewNotFoundError("ORDER_NOT_FOUND", "Order not found")))

	de, ok := AsDomainError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "PRODUCT_NOT_FOUND", de.Code)
	assert.Equal(t, "Product not found", wrapped.Error()[len("load product: "):])

	assert.True(t, IsReferentialIntegrity(NewReferentialIntegrityError("PRODUCT_IN_USE", "in use")))
	assert.True(t, IsValidation(NewValidationError("INVALID_QUANTITY", "bad")))
	assert.True(t, errors.Is(NewConflictError("DUPLICATE_LINE_ITEM", "dup"), ErrConflict))

	_, ok = AsDomainError(errors.New("plain"))
	assert.False(t, ok)
}

func TestFilterNormalize(t *testing.T) {
	f := Filter{}.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 50, f.PageSize)
	assert.Equal(t, 0, f.Offset())

	f = Filter{Page: 3, PageSize: 1000}.Normalize()
	assert.Equal(t, 500, f.PageSize)
	assert.Equal(t, 1000, f.Offset())

	p := NewPaginated([]int{1, 2}, 5, 1, 2)
	assert.Equal(t, 3, p.TotalPages)
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrStaleVersion is returned by versioned updates when the row changed
// underneath the caller. Retrying after a reload is safe.
var ErrStaleVersion = errors.New("stale version")

// ErrProductNotFound is returned by stock operations when the product does
// not exist in the caller's tenant.
var ErrProductNotFound = errors.New("product not found")

// InsufficientStockError reports a decrement that would drive stock below
// zero. Available is the quantity at the moment the decrement was refused.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: available %s", e.ProductID, e.Available)
}

// StockLedger owns the authoritative stock quantity of every product.
// Both operations are tenant-scoped through the context and must be called
// inside the caller's unit of work so that a failed invoice leaves stock
// untouched.
//
// TryDecrement serializes check-then-decrement per product: no combination
// of concurrently committed decrements can drive stock below zero. A
// decrement larger than current stock fails atomically with no partial
// decrement and returns *InsufficientStockError.
type StockLedger interface {
	TryDecrement(ctx context.Context, productID uuid.UUID, qty decimal.Decimal) error
	Restore(ctx context.Context, productID uuid.UUID, qty decimal.Decimal) error
}

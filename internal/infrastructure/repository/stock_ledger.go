package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tillpoint/tillpoint-api/internal/domain/entity"
	"github.com/tillpoint/tillpoint-api/internal/domain/repository"
	"gorm.io/gorm"
)

type stockLedger struct {
	db *gorm.DB
}

// NewStockLedger creates a ledger backed by conditional updates on the
// products table. All mutations are single statements, so they are safe
// under concurrent checkouts without explicit row locks.
func NewStockLedger(db *gorm.DB) repository.StockLedger {
	return &stockLedger{db: db}
}

// TryDecrement atomically reduces a product's on-hand quantity. The guard
// in the WHERE clause makes the decrement and the sufficiency check a
// single statement; zero affected rows means either insufficient stock or
// an unknown product, disambiguated by a follow-up read.
func (l *stockLedger) TryDecrement(ctx context.Context, productID uuid.UUID, qty decimal.Decimal) error {
	db := dbFor(ctx, l.db)

	result := db.Model(&entity.Product{}).
		Scopes(TenantScope(ctx)).
		Where("id = ? AND quantity >= ?", productID, qty).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", qty))
	if result.Error != nil {
		return fmt.Errorf("failed to decrement stock: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var product entity.Product
	err := db.Scopes(TenantScope(ctx)).Where("id = ?", productID).First(&product).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return repository.ErrProductNotFound
		}
		return fmt.Errorf("failed to read product stock: %w", err)
	}

	return &repository.InsufficientStockError{
		ProductID: productID,
		Available: product.Quantity,
	}
}

// Restore adds quantity back to a product, used when lines are removed or
// an invoice is cancelled.
func (l *stockLedger) Restore(ctx context.Context, productID uuid.UUID, qty decimal.Decimal) error {
	db := dbFor(ctx, l.db)

	result := db.Model(&entity.Product{}).
		Scopes(TenantScope(ctx)).
		Where("id = ?", productID).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", qty))
	if result.Error != nil {
		return fmt.Errorf("failed to restore stock: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}
	return nil
}

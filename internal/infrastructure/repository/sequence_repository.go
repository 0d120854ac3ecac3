package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tillpoint/tillpoint-api/internal/domain/repository"
	"gorm.io/gorm"
)

type invoiceSequenceRepository struct {
	db *gorm.DB
}

func NewInvoiceSequenceRepository(db *gorm.DB) repository.InvoiceSequenceRepository {
	return &invoiceSequenceRepository{db: db}
}

// Next bumps the tenant's counter for the month and returns the new value.
// The upsert makes first-use and increment a single statement, so two
// concurrent creates can never be handed the same number.
func (r *invoiceSequenceRepository) Next(ctx context.Context, tenantID uuid.UUID, yearMonth string) (int64, error) {
	db := dbFor(ctx, r.db)

	var next int64
	err := db.Raw(`
		INSERT INTO invoice_sequences (tenant_id, year_month, last_value, created_at, updated_at)
		VALUES (?, ?, 1, NOW(), NOW())
		ON CONFLICT (tenant_id, year_month)
		DO UPDATE SET last_value = invoice_sequences.last_value + 1, updated_at = NOW()
		RETURNING last_value
	`, tenantID, yearMonth).Scan(&next).Error
	if err != nil {
		return 0, fmt.Errorf("failed to allocate invoice sequence: %w", err)
	}
	return next, nil
}

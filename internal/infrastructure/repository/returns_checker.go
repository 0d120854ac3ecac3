package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tillpoint/tillpoint-api/internal/domain/entity"
	"github.com/tillpoint/tillpoint-api/internal/domain/repository"
	"gorm.io/gorm"
)

type returnsChecker struct {
	db *gorm.DB
}

func NewReturnsChecker(db *gorm.DB) repository.ReturnsChecker {
	return &returnsChecker{db: db}
}

func (c *returnsChecker) HasReturns(ctx context.Context, invoiceID uuid.UUID) (bool, error) {
	var count int64
	err := dbFor(ctx, c.db).Model(&entity.SalesReturn{}).
		Scopes(TenantScope(ctx)).
		Where("invoice_id = ?", invoiceID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check returns: %w", err)
	}
	return count > 0, nil
}

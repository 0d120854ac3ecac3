package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tillpoint/tillpoint-api/internal/domain/entity"
	"github.com/tillpoint/tillpoint-api/internal/domain/repository"
	"gorm.io/gorm"
)

type draftCartRepository struct {
	db *gorm.DB
}

func NewDraftCartRepository(db *gorm.DB) repository.DraftCartRepository {
	return &draftCartRepository{db: db}
}

func (r *draftCartRepository) Create(ctx context.Context, draft *entity.DraftCart) error {
	if err := dbFor(ctx, r.db).Create(draft).Error; err != nil {
		return fmt.Errorf("failed to create draft cart: %w", err)
	}
	return nil
}

func (r *draftCartRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.DraftCart, error) {
	var draft entity.DraftCart
	err := dbFor(ctx, r.db).Scopes(TenantScope(ctx)).Where("id = ?", id).First(&draft).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get draft cart: %w", err)
	}
	return &draft, nil
}

func (r *draftCartRepository) ListByCreator(ctx context.Context, createdBy uuid.UUID) ([]entity.DraftCart, error) {
	var drafts []entity.DraftCart
	err := dbFor(ctx, r.db).Scopes(TenantScope(ctx)).
		Where("created_by = ?", createdBy).
		Order("created_at DESC").
		Find(&drafts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list draft carts: %w", err)
	}
	return drafts, nil
}

func (r *draftCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := dbFor(ctx, r.db).Scopes(TenantScope(ctx)).
		Where("id = ?", id).
		Delete(&entity.DraftCart{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete draft cart: %w", err)
	}
	return nil
}

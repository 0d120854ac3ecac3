package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tillpoint/tillpoint-api/internal/domain/entity"
)

// DraftCartRepository defines the interface for held cart persistence.
// Drafts are independent rows keyed by id; no locking beyond normal
// row-level semantics is needed.
type DraftCartRepository interface {
	Create(ctx context.Context, draft *entity.DraftCart) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.DraftCart, error)
	ListByCreator(ctx context.Context, createdBy uuid.UUID) ([]entity.DraftCart, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tillpoint/tillpoint-api/internal/domain/entity"
	"github.com/tillpoint/tillpoint-api/internal/domain/repository"
	"github.com/tillpoint/tillpoint-api/pkg/apperror"
)

// HoldCartInput parks an in-progress cart. RawSnapshot is the cart JSON
// exactly as the terminal sent it; it is validated for shape but stored
// verbatim.
type HoldCartInput struct {
	Label       string
	RawSnapshot []byte
	CreatedBy   uuid.UUID
}

// DraftCartService stores and recalls parked carts. Drafts never touch
// stock, invoice numbers or any other billing state; holding and recalling
// are pure persistence.
type DraftCartService struct {
	draftRepo repository.DraftCartRepository
	log       *logrus.Logger
}

func NewDraftCartService(draftRepo repository.DraftCartRepository, log *logrus.Logger) *DraftCartService {
	return &DraftCartService{draftRepo: draftRepo, log: log}
}

// Hold parks a cart. The snapshot must parse as a cart of the current
// schema version with at least one item; what gets stored is the raw
// bytes, so recall returns exactly what was held.
func (s *DraftCartService) Hold(ctx context.Context, tenantID uuid.UUID, input *HoldCartInput) (*entity.DraftCart, error) {
	var snapshot entity.CartSnapshot
	if err := json.Unmarshal(input.RawSnapshot, &snapshot); err != nil {
		return nil, apperror.NewBadRequestError("invalid cart snapshot")
	}
	if snapshot.SchemaVersion == 0 {
		snapshot.SchemaVersion = entity.CartSchemaVersion
	}
	if snapshot.SchemaVersion > entity.CartSchemaVersion {
		return nil, apperror.NewBadRequestError(
			fmt.Sprintf("unsupported cart schema version %d", snapshot.SchemaVersion))
	}
	if len(snapshot.Items) == 0 {
		return nil, apperror.NewBadRequestError("cart has no items")
	}
	for _, item := range snapshot.Items {
		if item.ProductID == uuid.Nil {
			return nil, apperror.NewBadRequestError("cart item product id is required")
		}
		if !item.Quantity.IsPositive() {
			return nil, apperror.NewBadRequestError("cart item quantity must be positive")
		}
	}

	draft := &entity.DraftCart{
		TenantID:      tenantID,
		CreatedByID:   input.CreatedBy,
		Label:         input.Label,
		SchemaVersion: snapshot.SchemaVersion,
		Snapshot:      string(input.RawSnapshot),
	}
	if err := s.draftRepo.Create(ctx, draft); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"draft_id": draft.ID,
		"label":    draft.Label,
	}).Info("cart held")

	return draft, nil
}

// ListHeld returns the cashier's parked carts, newest first.
func (s *DraftCartService) ListHeld(ctx context.Context, createdBy uuid.UUID) ([]entity.DraftCart, error) {
	return s.draftRepo.ListByCreator(ctx, createdBy)
}

// Recall returns a held cart without consuming it; the draft stays until
// it is explicitly discarded. The caller gets both the raw snapshot and
// its parsed form.
func (s *DraftCartService) Recall(ctx context.Context, draftID uuid.UUID) (*entity.DraftCart, *entity.CartSnapshot, error) {
	draft, err := s.draftRepo.GetByID(ctx, draftID)
	if err != nil {
		return nil, nil, err
	}
	if draft == nil {
		return nil, nil, apperror.NewNotFoundError("Draft cart")
	}

	var snapshot entity.CartSnapshot
	if err := json.Unmarshal([]byte(draft.Snapshot), &snapshot); err != nil {
		return nil, nil, fmt.Errorf("failed to parse stored cart snapshot: %w", err)
	}
	return draft, &snapshot, nil
}

// Discard deletes a held cart.
func (s *DraftCartService) Discard(ctx context.Context, draftID uuid.UUID) error {
	draft, err := s.draftRepo.GetByID(ctx, draftID)
	if err != nil {
		return err
	}
	if draft == nil {
		return apperror.NewNotFoundError("Draft cart")
	}
	return s.draftRepo.Delete(ctx, draftID)
}

package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/tillpoint/tillpoint-api/pkg/apperror"
)

type draftFixture struct {
	store    *memStore
	svc      *DraftCartService
	tenantID uuid.UUID
	userID   uuid.UUID
	ctx      context.Context
}

func newDraftFixture(t *testing.T) *draftFixture {
	t.Helper()
	store := newMemStore()
	tenantID := uuid.New()
	return &draftFixture{
		store:    store,
		svc:      NewDraftCartService(&fakeDraftRepo{store: store}, testLogger()),
		tenantID: tenantID,
		userID:   uuid.New(),
		ctx:      withTenant(context.Background(), tenantID),
	}
}

func cartJSON(productID uuid.UUID) string {
	// Deliberately odd spacing and key order: recall must preserve it.
	return `{"items": [ {"product_id":"` + productID.String() + `","quantity":"2","unit_price":"100","discount":"0"} ],"customer_name":"Walk-in","include_tax":true,"discount_amount":"0","discount_percent":"10"}`
}

func TestHoldAndRecallRoundTrip(t *testing.T) {
	f := newDraftFixture(t)
	productID := uuid.New()
	raw := cartJSON(productID)

	draft, err := f.svc.Hold(f.ctx, f.tenantID, &HoldCartInput{
		Label:       "table 4",
		RawSnapshot: []byte(raw),
		CreatedBy:   f.userID,
	})
	if err != nil {
		t.Fatalf("Hold: %v", err)
	}
	if draft.Label != "table 4" {
		t.Errorf("label = %q", draft.Label)
	}

	recalled, snapshot, err := f.svc.Recall(f.ctx, draft.ID)
	if err != nil {
		t.Fatalf("Recall: %v", err)
	}
	// Byte-for-byte: the stored snapshot is the raw text, not re-marshalled.
	if recalled.Snapshot != raw {
		t.Errorf("snapshot = %q, want the exact held bytes", recalled.Snapshot)
	}
	if len(snapshot.Items) != 1 || snapshot.Items[0].ProductID != productID {
		t.Errorf("parsed items = %+v", snapshot.Items)
	}
	if !snapshot.IncludeTax {
		t.Error("include_tax not preserved")
	}
	if !snapshot.DiscountPercent.Equal(qd(t, "10")) {
		t.Errorf("discount percent = %s, want 10", snapshot.DiscountPercent)
	}
}

func TestRecallIsNonDestructive(t *testing.T) {
	f := newDraftFixture(t)
	draft, err := f.svc.Hold(f.ctx, f.tenantID, &HoldCartInput{
		RawSnapshot: []byte(cartJSON(uuid.New())),
		CreatedBy:   f.userID,
	})
	if err != nil {
		t.Fatalf("Hold: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, _, err := f.svc.Recall(f.ctx, draft.ID); err != nil {
			t.Fatalf("Recall %d: %v", i, err)
		}
	}
	drafts, err := f.svc.ListHeld(f.ctx, f.userID)
	if err != nil {
		t.Fatalf("ListHeld: %v", err)
	}
	if len(drafts) != 1 {
		t.Errorf("drafts = %d, want 1 after repeated recalls", len(drafts))
	}
}

func TestDiscardRemovesDraft(t *testing.T) {
	f := newDraftFixture(t)
	draft, err := f.svc.Hold(f.ctx, f.tenantID, &HoldCartInput{
		RawSnapshot: []byte(cartJSON(uuid.New())),
		CreatedBy:   f.userID,
	})
	if err != nil {
		t.Fatalf("Hold: %v", err)
	}

	if err := f.svc.Discard(f.ctx, draft.ID); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	_, _, err = f.svc.Recall(f.ctx, draft.ID)
	if !apperror.IsKind(err, apperror.KindNotFound) {
		t.Fatalf("Recall after discard err = %v, want not found", err)
	}
	if err := f.svc.Discard(f.ctx, draft.ID); !apperror.IsKind(err, apperror.KindNotFound) {
		t.Fatalf("double Discard err = %v, want not found", err)
	}
}

func TestHoldRejectsEmptyCart(t *testing.T) {
	f := newDraftFixture(t)
	_, err := f.svc.Hold(f.ctx, f.tenantID, &HoldCartInput{
		RawSnapshot: []byte(`{"items":[]}`),
		CreatedBy:   f.userID,
	})
	if !apperror.IsKind(err, apperror.KindValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestHoldRejectsMalformedSnapshot(t *testing.T) {
	f := newDraftFixture(t)
	_, err := f.svc.Hold(f.ctx, f.tenantID, &HoldCartInput{
		RawSnapshot: []byte(`{not json`),
		CreatedBy:   f.userID,
	})
	if !apperror.IsKind(err, apperror.KindValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestHoldRejectsFutureSchemaVersion(t *testing.T) {
	f := newDraftFixture(t)
	_, err := f.svc.Hold(f.ctx, f.tenantID, &HoldCartInput{
		RawSnapshot: []byte(`{"schema_version":99,"items":[{"product_id":"` + uuid.NewString() + `","quantity":"1"}]}`),
		CreatedBy:   f.userID,
	})
	if !apperror.IsKind(err, apperror.KindValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestListHeldFiltersByCreator(t *testing.T) {
	f := newDraftFixture(t)
	otherUser := uuid.New()

	for _, user := range []uuid.UUID{f.userID, f.userID, otherUser} {
		if _, err := f.svc.Hold(f.ctx, f.tenantID, &HoldCartInput{
			RawSnapshot: []byte(cartJSON(uuid.New())),
			CreatedBy:   user,
		}); err != nil {
			t.Fatalf("Hold: %v", err)
		}
	}

	drafts, err := f.svc.ListHeld(f.ctx, f.userID)
	if err != nil {
		t.Fatalf("ListHeld: %v", err)
	}
	if len(drafts) != 2 {
		t.Errorf("drafts = %d, want 2", len(drafts))
	}
}

func TestDraftTenantIsolation(t *testing.T) {
	f := newDraftFixture(t)
	draft, err := f.svc.Hold(f.ctx, f.tenantID, &HoldCartInput{
		RawSnapshot: []byte(cartJSON(uuid.New())),
		CreatedBy:   f.userID,
	})
	if err != nil {
		t.Fatalf("Hold: %v", err)
	}

	otherCtx := withTenant(context.Background(), uuid.New())
	_, _, err = f.svc.Recall(otherCtx, draft.ID)
	if !apperror.IsKind(err, apperror.KindNotFound) {
		t.Fatalf("cross-tenant Recall err = %v, want not found", err)
	}
}

package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/tillpoint/tillpoint-api/internal/domain/entity"
	"github.com/tillpoint/tillpoint-api/internal/domain/enum"
	"github.com/tillpoint/tillpoint-api/pkg/apperror"
)

type purchaseFixture struct {
	store    *memStore
	svc      *PurchaseService
	tenantID uuid.UUID
	userID   uuid.UUID
	ctx      context.Context
}

func newPurchaseFixture(t *testing.T) *purchaseFixture {
	t.Helper()
	store := newMemStore()
	tenantID := uuid.New()
	svc := NewPurchaseService(
		&fakeUow{store: store},
		&fakePurchaseRepo{store: store},
		&fakePurchaseLineRepo{store: store},
		&fakeSupplierRepo{store: store},
		&fakeProductRepo{store: store},
		&fakeLedger{store: store},
		testLogger(),
	)
	return &purchaseFixture{
		store:    store,
		svc:      svc,
		tenantID: tenantID,
		userID:   uuid.New(),
		ctx:      withTenant(context.Background(), tenantID),
	}
}

func (f *purchaseFixture) addProduct(t *testing.T, name, qty, taxRate string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	f.store.products[id] = entity.Product{
		ID:       id,
		TenantID: f.tenantID,
		Name:     name,
		Quantity: qd(t, qty),
		TaxRate:  qd(t, taxRate),
	}
	return id
}

func TestCreatePurchasePending(t *testing.T) {
	f := newPurchaseFixture(t)
	productID := f.addProduct(t, "Widget", "5", "18")

	purchase, err := f.svc.Create(f.ctx, f.tenantID, &CreatePurchaseInput{
		Items:     []PurchaseItemInput{{ProductID: productID, Quantity: qd(t, "10"), UnitCost: qd(t, "60")}},
		CreatedBy: f.userID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if purchase.Status != enum.PurchaseStatusPending {
		t.Errorf("status = %v, want Pending", purchase.Status)
	}
	if !purchase.Subtotal.Equal(qd(t, "600")) {
		t.Errorf("subtotal = %s, want 600", purchase.Subtotal)
	}
	if !purchase.TaxAmount.Equal(qd(t, "108")) {
		t.Errorf("tax = %s, want 108", purchase.TaxAmount)
	}
	// A pending purchase must not move stock.
	if !f.store.products[productID].Quantity.Equal(qd(t, "5")) {
		t.Errorf("stock = %s, want 5", f.store.products[productID].Quantity)
	}
}

func TestReceivePurchaseIncrementsStock(t *testing.T) {
	f := newPurchaseFixture(t)
	productID := f.addProduct(t, "Widget", "5", "0")

	purchase, err := f.svc.Create(f.ctx, f.tenantID, &CreatePurchaseInput{
		Items:     []PurchaseItemInput{{ProductID: productID, Quantity: qd(t, "10"), UnitCost: qd(t, "60")}},
		CreatedBy: f.userID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	received, err := f.svc.Receive(f.ctx, purchase.ID)
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if received.Status != enum.PurchaseStatusReceived {
		t.Errorf("status = %v, want Received", received.Status)
	}
	if !f.store.products[productID].Quantity.Equal(qd(t, "15")) {
		t.Errorf("stock = %s, want 15", f.store.products[productID].Quantity)
	}

	// Receiving twice would double-count stock.
	_, err = f.svc.Receive(f.ctx, purchase.ID)
	if !apperror.IsKind(err, apperror.KindValidation) {
		t.Fatalf("second Receive err = %v, want validation", err)
	}
	if !f.store.products[productID].Quantity.Equal(qd(t, "15")) {
		t.Errorf("stock after double receive = %s, want 15", f.store.products[productID].Quantity)
	}
}

func TestCreatePurchaseUnknownProduct(t *testing.T) {
	f := newPurchaseFixture(t)
	_, err := f.svc.Create(f.ctx, f.tenantID, &CreatePurchaseInput{
		Items:     []PurchaseItemInput{{ProductID: uuid.New(), Quantity: qd(t, "1"), UnitCost: qd(t, "10")}},
		CreatedBy: f.userID,
	})
	if !apperror.IsKind(err, apperror.KindNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

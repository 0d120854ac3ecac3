package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/tillpoint/tillpoint-api/internal/domain/entity"
	"github.com/tillpoint/tillpoint-api/internal/domain/enum"
	"github.com/tillpoint/tillpoint-api/internal/domain/repository"
	"github.com/tillpoint/tillpoint-api/pkg/pagination"
)

type tenantKeyType struct{}

var tenantKey tenantKeyType

func withTenant(ctx context.Context, tenantID uuid.UUID) context.Context {
	return context.WithValue(ctx, tenantKey, tenantID)
}

func tenantFrom(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(tenantKey).(uuid.UUID)
	return id
}

// memStore is the shared in-memory state behind all fake repositories.
// The unit of work locks it for the whole transaction and restores a
// snapshot on failure, mirroring the commit/rollback semantics the
// services rely on.
type memStore struct {
	mu sync.Mutex

	products  map[uuid.UUID]entity.Product
	invoices  map[uuid.UUID]entity.Invoice
	lines     map[uuid.UUID][]entity.InvoiceLine
	audits    []entity.InvoiceEditAudit
	sequences map[string]int64
	customers map[uuid.UUID]entity.Customer
	drafts    map[uuid.UUID]entity.DraftCart
	returns   map[uuid.UUID]bool
	purchases map[uuid.UUID]entity.Purchase
	purLines  map[uuid.UUID][]entity.PurchaseLine
	suppliers map[uuid.UUID]entity.Supplier
	users     map[uuid.UUID]entity.User
}

func newMemStore() *memStore {
	return &memStore{
		products:  make(map[uuid.UUID]entity.Product),
		invoices:  make(map[uuid.UUID]entity.Invoice),
		lines:     make(map[uuid.UUID][]entity.InvoiceLine),
		sequences: make(map[string]int64),
		customers: make(map[uuid.UUID]entity.Customer),
		drafts:    make(map[uuid.UUID]entity.DraftCart),
		returns:   make(map[uuid.UUID]bool),
		purchases: make(map[uuid.UUID]entity.Purchase),
		purLines:  make(map[uuid.UUID][]entity.PurchaseLine),
		suppliers: make(map[uuid.UUID]entity.Supplier),
		users:     make(map[uuid.UUID]entity.User),
	}
}

func (s *memStore) snapshot() *memStore {
	snap := newMemStore()
	for k, v := range s.products {
		snap.products[k] = v
	}
	for k, v := range s.invoices {
		snap.invoices[k] = v
	}
	for k, v := range s.lines {
		snap.lines[k] = append([]entity.InvoiceLine(nil), v...)
	}
	snap.audits = append([]entity.InvoiceEditAudit(nil), s.audits...)
	for k, v := range s.sequences {
		snap.sequences[k] = v
	}
	for k, v := range s.customers {
		snap.customers[k] = v
	}
	for k, v := range s.drafts {
		snap.drafts[k] = v
	}
	for k, v := range s.returns {
		snap.returns[k] = v
	}
	for k, v := range s.purchases {
		snap.purchases[k] = v
	}
	for k, v := range s.purLines {
		snap.purLines[k] = append([]entity.PurchaseLine(nil), v...)
	}
	for k, v := range s.suppliers {
		snap.suppliers[k] = v
	}
	for k, v := range s.users {
		snap.users[k] = v
	}
	return snap
}

func (s *memStore) restore(snap *memStore) {
	s.products = snap.products
	s.invoices = snap.invoices
	s.lines = snap.lines
	s.audits = snap.audits
	s.sequences = snap.sequences
	s.customers = snap.customers
	s.drafts = snap.drafts
	s.returns = snap.returns
	s.purchases = snap.purchases
	s.purLines = snap.purLines
	s.suppliers = snap.suppliers
	s.users = snap.users
}

// fakeUow serializes transactions over the store and rolls back all
// mutations when the function fails.
type fakeUow struct {
	store *memStore
}

func (u *fakeUow) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	snap := u.store.snapshot()
	if err := fn(ctx); err != nil {
		u.store.restore(snap)
		return err
	}
	return nil
}

type fakeLedger struct {
	store *memStore
}

func (l *fakeLedger) TryDecrement(ctx context.Context, productID uuid.UUID, qty decimal.Decimal) error {
	p, ok := l.store.products[productID]
	if !ok || p.TenantID != tenantFrom(ctx) {
		return repository.ErrProductNotFound
	}
	if p.Quantity.LessThan(qty) {
		return &repository.InsufficientStockError{ProductID: productID, Available: p.Quantity}
	}
	p.Quantity = p.Quantity.Sub(qty)
	l.store.products[productID] = p
	return nil
}

func (l *fakeLedger) Restore(ctx context.Context, productID uuid.UUID, qty decimal.Decimal) error {
	p, ok := l.store.products[productID]
	if !ok || p.TenantID != tenantFrom(ctx) {
		return repository.ErrProductNotFound
	}
	p.Quantity = p.Quantity.Add(qty)
	l.store.products[productID] = p
	return nil
}

type fakeProductRepo struct {
	store *memStore
}

func (r *fakeProductRepo) Create(ctx context.Context, product *entity.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	r.store.products[product.ID] = *product
	return nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	p, ok := r.store.products[id]
	if !ok || p.TenantID != tenantFrom(ctx) {
		return nil, nil
	}
	copied := p
	return &copied, nil
}

func (r *fakeProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	var out []entity.Product
	for _, id := range ids {
		if p, ok := r.store.products[id]; ok && p.TenantID == tenantFrom(ctx) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	for _, p := range r.store.products {
		if p.Code == code && p.TenantID == tenantFrom(ctx) {
			copied := p
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) Update(ctx context.Context, product *entity.Product) error {
	r.store.products[product.ID] = *product
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.store.products, id)
	return nil
}

func (r *fakeProductRepo) List(ctx context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	var out []entity.Product
	for _, p := range r.store.products {
		if p.TenantID == tenantFrom(ctx) {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

type fakeInvoiceRepo struct {
	store *memStore
}

func (r *fakeInvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	invoice.CreatedAt = time.Now()
	stored := *invoice
	stored.Lines = nil
	r.store.invoices[invoice.ID] = stored
	return nil
}

func (r *fakeInvoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	inv, ok := r.store.invoices[id]
	if !ok || inv.TenantID != tenantFrom(ctx) {
		return nil, nil
	}
	copied := inv
	return &copied, nil
}

func (r *fakeInvoiceRepo) GetWithLines(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	inv, err := r.GetByID(ctx, id)
	if err != nil || inv == nil {
		return inv, err
	}
	inv.Lines = append([]entity.InvoiceLine(nil), r.store.lines[id]...)
	return inv, nil
}

func (r *fakeInvoiceRepo) GetBySequenceNo(ctx context.Context, sequenceNo string) (*entity.Invoice, error) {
	for id, inv := range r.store.invoices {
		if inv.SequenceNo == sequenceNo && inv.TenantID == tenantFrom(ctx) {
			return r.GetWithLines(ctx, id)
		}
	}
	return nil, nil
}

func (r *fakeInvoiceRepo) List(ctx context.Context, params *repository.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	var out []entity.Invoice
	for _, inv := range r.store.invoices {
		if inv.TenantID != tenantFrom(ctx) {
			continue
		}
		if params.Status != nil && inv.Status != *params.Status {
			continue
		}
		out = append(out, inv)
	}
	return out, int64(len(out)), nil
}

func (r *fakeInvoiceRepo) UpdateVersioned(ctx context.Context, invoice *entity.Invoice, expectedVersion int) error {
	stored, ok := r.store.invoices[invoice.ID]
	if !ok || stored.TenantID != tenantFrom(ctx) || stored.Version != expectedVersion {
		return repository.ErrStaleVersion
	}
	updated := *invoice
	updated.Version = expectedVersion + 1
	updated.Lines = nil
	r.store.invoices[invoice.ID] = updated
	invoice.Version = updated.Version
	return nil
}

type fakeLineRepo struct {
	store *memStore
}

func (r *fakeLineRepo) CreateBatch(ctx context.Context, lines []entity.InvoiceLine) error {
	for i := range lines {
		if lines[i].ID == uuid.Nil {
			lines[i].ID = uuid.New()
		}
		r.store.lines[lines[i].InvoiceID] = append(r.store.lines[lines[i].InvoiceID], lines[i])
	}
	return nil
}

func (r *fakeLineRepo) GetByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]entity.InvoiceLine, error) {
	var out []entity.InvoiceLine
	for _, line := range r.store.lines[invoiceID] {
		if line.TenantID == tenantFrom(ctx) {
			out = append(out, line)
		}
	}
	return out, nil
}

func (r *fakeLineRepo) DeleteByInvoiceID(ctx context.Context, invoiceID uuid.UUID) error {
	var kept []entity.InvoiceLine
	for _, line := range r.store.lines[invoiceID] {
		if line.TenantID != tenantFrom(ctx) {
			kept = append(kept, line)
		}
	}
	if len(kept) == 0 {
		delete(r.store.lines, invoiceID)
		return nil
	}
	r.store.lines[invoiceID] = kept
	return nil
}

type fakeAuditRepo struct {
	store *memStore
}

func (r *fakeAuditRepo) Create(ctx context.Context, audit *entity.InvoiceEditAudit) error {
	if audit.ID == uuid.Nil {
		audit.ID = uuid.New()
	}
	audit.CreatedAt = time.Now()
	r.store.audits = append(r.store.audits, *audit)
	return nil
}

func (r *fakeAuditRepo) ListByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]entity.InvoiceEditAudit, error) {
	var out []entity.InvoiceEditAudit
	for _, a := range r.store.audits {
		if a.InvoiceID == invoiceID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeSequenceRepo struct {
	store *memStore
}

func (r *fakeSequenceRepo) Next(ctx context.Context, tenantID uuid.UUID, yearMonth string) (int64, error) {
	key := tenantID.String() + ":" + yearMonth
	r.store.sequences[key]++
	return r.store.sequences[key], nil
}

type fakeCustomerRepo struct {
	store *memStore
}

func (r *fakeCustomerRepo) Create(ctx context.Context, customer *entity.Customer) error {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	r.store.customers[customer.ID] = *customer
	return nil
}

func (r *fakeCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	c, ok := r.store.customers[id]
	if !ok || c.TenantID != tenantFrom(ctx) {
		return nil, nil
	}
	copied := c
	return &copied, nil
}

func (r *fakeCustomerRepo) Update(ctx context.Context, customer *entity.Customer) error {
	r.store.customers[customer.ID] = *customer
	return nil
}

func (r *fakeCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.store.customers, id)
	return nil
}

func (r *fakeCustomerRepo) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	var out []entity.Customer
	for _, c := range r.store.customers {
		if c.TenantID == tenantFrom(ctx) {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

type fakeReturnsChecker struct {
	store *memStore
}

func (c *fakeReturnsChecker) HasReturns(ctx context.Context, invoiceID uuid.UUID) (bool, error) {
	return c.store.returns[invoiceID], nil
}

type fakeDraftRepo struct {
	store *memStore
}

func (r *fakeDraftRepo) Create(ctx context.Context, draft *entity.DraftCart) error {
	if draft.ID == uuid.Nil {
		draft.ID = uuid.New()
	}
	draft.CreatedAt = time.Now()
	r.store.drafts[draft.ID] = *draft
	return nil
}

func (r *fakeDraftRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.DraftCart, error) {
	d, ok := r.store.drafts[id]
	if !ok || d.TenantID != tenantFrom(ctx) {
		return nil, nil
	}
	copied := d
	return &copied, nil
}

func (r *fakeDraftRepo) ListByCreator(ctx context.Context, createdBy uuid.UUID) ([]entity.DraftCart, error) {
	var out []entity.DraftCart
	for _, d := range r.store.drafts {
		if d.TenantID == tenantFrom(ctx) && d.CreatedByID == createdBy {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeDraftRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.store.drafts, id)
	return nil
}

type fakePurchaseRepo struct {
	store *memStore
}

func (r *fakePurchaseRepo) Create(ctx context.Context, purchase *entity.Purchase) error {
	if purchase.ID == uuid.Nil {
		purchase.ID = uuid.New()
	}
	stored := *purchase
	stored.Details = nil
	r.store.purchases[purchase.ID] = stored
	return nil
}

func (r *fakePurchaseRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Purchase, error) {
	p, ok := r.store.purchases[id]
	if !ok || p.TenantID != tenantFrom(ctx) {
		return nil, nil
	}
	copied := p
	return &copied, nil
}

func (r *fakePurchaseRepo) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Purchase, error) {
	p, err := r.GetByID(ctx, id)
	if err != nil || p == nil {
		return p, err
	}
	p.Details = append([]entity.PurchaseLine(nil), r.store.purLines[id]...)
	return p, nil
}

func (r *fakePurchaseRepo) List(ctx context.Context, params *pagination.PaginationParams, status *enum.PurchaseStatus) ([]entity.Purchase, int64, error) {
	var out []entity.Purchase
	for _, p := range r.store.purchases {
		if p.TenantID != tenantFrom(ctx) {
			continue
		}
		if status != nil && p.Status != *status {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *fakePurchaseRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.PurchaseStatus) error {
	p, ok := r.store.purchases[id]
	if !ok {
		return errors.New("purchase not found")
	}
	p.Status = status
	r.store.purchases[id] = p
	return nil
}

type fakePurchaseLineRepo struct {
	store *memStore
}

func (r *fakePurchaseLineRepo) CreateBatch(ctx context.Context, lines []entity.PurchaseLine) error {
	for i := range lines {
		if lines[i].ID == uuid.Nil {
			lines[i].ID = uuid.New()
		}
		r.store.purLines[lines[i].PurchaseID] = append(r.store.purLines[lines[i].PurchaseID], lines[i])
	}
	return nil
}

type fakeSupplierRepo struct {
	store *memStore
}

func (r *fakeSupplierRepo) Create(ctx context.Context, supplier *entity.Supplier) error {
	if supplier.ID == uuid.Nil {
		supplier.ID = uuid.New()
	}
	r.store.suppliers[supplier.ID] = *supplier
	return nil
}

func (r *fakeSupplierRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Supplier, error) {
	s, ok := r.store.suppliers[id]
	if !ok || s.TenantID != tenantFrom(ctx) {
		return nil, nil
	}
	copied := s
	return &copied, nil
}

func (r *fakeSupplierRepo) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Supplier, int64, error) {
	var out []entity.Supplier
	for _, s := range r.store.suppliers {
		if s.TenantID == tenantFrom(ctx) {
			out = append(out, s)
		}
	}
	return out, int64(len(out)), nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/tillpoint/tillpoint-api/internal/domain/entity"
	"github.com/tillpoint/tillpoint-api/internal/domain/enum"
	"github.com/tillpoint/tillpoint-api/internal/domain/repository"
	"github.com/tillpoint/tillpoint-api/pkg/apperror"
	"github.com/tillpoint/tillpoint-api/pkg/billing"
	"github.com/tillpoint/tillpoint-api/pkg/pagination"
)

// InvoiceItemInput is one cart line as submitted by the terminal. Unit
// price and tax rate come from the catalog at finalization time, never
// from the client.
type InvoiceItemInput struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
	Discount  decimal.Decimal
}

// CreateInvoiceInput carries everything needed to finalize a sale.
type CreateInvoiceInput struct {
	Items           []InvoiceItemInput
	CustomerID      *uuid.UUID
	DiscountAmount  decimal.Decimal
	DiscountPercent decimal.Decimal
	PaymentMode     enum.PaymentMode
	IncludeTax      bool
	Notes           *string
	CreatedBy       uuid.UUID
}

// EditInvoiceInput replaces a finalized invoice's cart wholesale. Reason
// is mandatory; an edit without one is rejected before any state changes.
type EditInvoiceInput struct {
	InvoiceID            uuid.UUID
	ExpectedVersion      int
	Reason               string
	Items                []InvoiceItemInput
	CustomerID           *uuid.UUID
	DiscountAmount       decimal.Decimal
	DiscountPercent      decimal.Decimal
	PaymentMode          enum.PaymentMode
	IncludeTax           bool
	Notes                *string
	EditedBy             uuid.UUID
	OverrideReturnsBlock bool
}

// InvoiceService owns the invoice lifecycle. Every state transition runs
// inside one unit of work: stock movements, invoice rows, lines and audit
// all commit or roll back together.
type InvoiceService struct {
	uow          repository.UnitOfWork
	invoiceRepo  repository.InvoiceRepository
	lineRepo     repository.InvoiceLineRepository
	auditRepo    repository.EditAuditRepository
	sequenceRepo repository.InvoiceSequenceRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	ledger       repository.StockLedger
	returns      repository.ReturnsChecker
	log          *logrus.Logger
}

func NewInvoiceService(
	uow repository.UnitOfWork,
	invoiceRepo repository.InvoiceRepository,
	lineRepo repository.InvoiceLineRepository,
	auditRepo repository.EditAuditRepository,
	sequenceRepo repository.InvoiceSequenceRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	ledger repository.StockLedger,
	returns repository.ReturnsChecker,
	log *logrus.Logger,
) *InvoiceService {
	return &InvoiceService{
		uow:          uow,
		invoiceRepo:  invoiceRepo,
		lineRepo:     lineRepo,
		auditRepo:    auditRepo,
		sequenceRepo: sequenceRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		ledger:       ledger,
		returns:      returns,
		log:          log,
	}
}

// Create finalizes a sale: decrements stock for every line, allocates the
// next invoice number and persists the invoice with its lines, all in one
// transaction. Any failure leaves stock and sequences untouched.
func (s *InvoiceService) Create(ctx context.Context, tenantID uuid.UUID, input *CreateInvoiceInput) (*entity.Invoice, error) {
	if err := validateItems(input.Items); err != nil {
		return nil, err
	}
	if input.PaymentMode != "" && !input.PaymentMode.Valid() {
		return nil, apperror.NewBadRequestError("invalid payment mode")
	}
	if input.DiscountAmount.IsNegative() || input.DiscountPercent.IsNegative() {
		return nil, apperror.NewBadRequestError("discount cannot be negative")
	}

	var invoice *entity.Invoice
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		products, err := s.fetchProducts(ctx, input.Items)
		if err != nil {
			return err
		}

		for _, item := range input.Items {
			if err := s.ledger.TryDecrement(ctx, item.ProductID, item.Quantity); err != nil {
				return translateStockError(err)
			}
		}

		totals := computeTotals(input.Items, products, input.DiscountAmount, input.DiscountPercent, input.IncludeTax)

		seqNo, err := s.nextSequenceNo(ctx, tenantID)
		if err != nil {
			return err
		}

		paymentMode := input.PaymentMode
		if paymentMode == "" {
			paymentMode = enum.PaymentModeCash
		}

		inv := &entity.Invoice{
			TenantID:       tenantID,
			SequenceNo:     seqNo,
			CustomerID:     input.CustomerID,
			Status:         enum.InvoiceStatusCompleted,
			PaymentMode:    paymentMode,
			IncludeTax:     input.IncludeTax,
			Subtotal:       totals.Subtotal,
			DiscountAmount: totals.LineDiscountTotal.Add(totals.BillDiscount),
			TaxAmount:      totals.TaxTotal,
			RoundOff:       totals.RoundOff,
			TotalAmount:    totals.Total,
			Notes:          input.Notes,
			CreatedByID:    input.CreatedBy,
			Version:        1,
		}

		if err := s.applyCustomerSnapshot(ctx, inv, input.CustomerID); err != nil {
			return err
		}

		if err := s.invoiceRepo.Create(ctx, inv); err != nil {
			return err
		}

		lines := buildLines(tenantID, inv.ID, input.Items, products, totals)
		if err := s.lineRepo.CreateBatch(ctx, lines); err != nil {
			return err
		}
		inv.Lines = lines

		invoice = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"invoice_id":  invoice.ID,
		"sequence_no": invoice.SequenceNo,
		"total":       invoice.TotalAmount,
	}).Info("invoice created")

	return invoice, nil
}

// Edit replaces the invoice's cart and customer fields, adjusting stock by
// the difference between the old and new lines. The full before/after
// state is recorded in the audit trail. Concurrent edits race on the
// invoice version; the loser gets a conflict and must reload.
func (s *InvoiceService) Edit(ctx context.Context, input *EditInvoiceInput) (*entity.Invoice, error) {
	if input.Reason == "" {
		return nil, apperror.NewBadRequestError("edit reason is required")
	}
	if err := validateItems(input.Items); err != nil {
		return nil, err
	}
	if input.PaymentMode != "" && !input.PaymentMode.Valid() {
		return nil, apperror.NewBadRequestError("invalid payment mode")
	}
	if input.DiscountAmount.IsNegative() || input.DiscountPercent.IsNegative() {
		return nil, apperror.NewBadRequestError("discount cannot be negative")
	}

	var invoice *entity.Invoice
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		inv, err := s.invoiceRepo.GetWithLines(ctx, input.InvoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return apperror.NewNotFoundError("Invoice")
		}
		if inv.Status != enum.InvoiceStatusCompleted {
			return apperror.NewNotEditableError(inv.ID, "only completed invoices can be edited")
		}

		hasReturns, err := s.returns.HasReturns(ctx, inv.ID)
		if err != nil {
			return err
		}
		if hasReturns && !input.OverrideReturnsBlock {
			return apperror.NewNotEditableError(inv.ID, "invoice has associated returns")
		}

		beforeState, err := json.Marshal(inv)
		if err != nil {
			return fmt.Errorf("failed to snapshot invoice: %w", err)
		}

		products, err := s.fetchProducts(ctx, input.Items)
		if err != nil {
			return err
		}

		if err := s.applyStockDeltas(ctx, inv.Lines, input.Items); err != nil {
			return err
		}

		totals := computeTotals(input.Items, products, input.DiscountAmount, input.DiscountPercent, input.IncludeTax)

		inv.CustomerID = input.CustomerID
		inv.IncludeTax = input.IncludeTax
		inv.Subtotal = totals.Subtotal
		inv.DiscountAmount = totals.LineDiscountTotal.Add(totals.BillDiscount)
		inv.TaxAmount = totals.TaxTotal
		inv.RoundOff = totals.RoundOff
		inv.TotalAmount = totals.Total
		inv.Notes = input.Notes
		if input.PaymentMode != "" {
			inv.PaymentMode = input.PaymentMode
		}

		inv.CustomerName = ""
		inv.CustomerPhone = nil
		inv.CustomerEmail = nil
		inv.CustomerTaxPIN = nil
		inv.CustomerBillingAddress = nil
		inv.CustomerShippingAddress = nil
		if err := s.applyCustomerSnapshot(ctx, inv, input.CustomerID); err != nil {
			return err
		}

		if err := s.invoiceRepo.UpdateVersioned(ctx, inv, input.ExpectedVersion); err != nil {
			if errors.Is(err, repository.ErrStaleVersion) {
				return apperror.NewConflictError("invoice was modified by another request")
			}
			return err
		}

		if err := s.lineRepo.DeleteByInvoiceID(ctx, inv.ID); err != nil {
			return err
		}
		lines := buildLines(inv.TenantID, inv.ID, input.Items, products, totals)
		if err := s.lineRepo.CreateBatch(ctx, lines); err != nil {
			return err
		}
		inv.Lines = lines

		afterState, err := json.Marshal(inv)
		if err != nil {
			return fmt.Errorf("failed to snapshot invoice: %w", err)
		}

		audit := &entity.InvoiceEditAudit{
			TenantID:    inv.TenantID,
			InvoiceID:   inv.ID,
			EditorID:    input.EditedBy,
			Reason:      input.Reason,
			BeforeState: string(beforeState),
			AfterState:  string(afterState),
		}
		if err := s.auditRepo.Create(ctx, audit); err != nil {
			return err
		}

		invoice = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"invoice_id": invoice.ID,
		"edited_by":  input.EditedBy,
	}).Info("invoice edited")

	return invoice, nil
}

// Cancel voids a completed invoice and restores the stock its lines
// consumed. Cancelling is terminal: a cancelled invoice cannot be edited
// or cancelled again. The reason is logged but, unlike edits, cancellation
// writes no audit row; the status change is the record.
func (s *InvoiceService) Cancel(ctx context.Context, invoiceID uuid.UUID, expectedVersion int, reason string) (*entity.Invoice, error) {
	var invoice *entity.Invoice
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		inv, err := s.invoiceRepo.GetWithLines(ctx, invoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return apperror.NewNotFoundError("Invoice")
		}
		if inv.Status != enum.InvoiceStatusCompleted {
			return apperror.NewNotEditableError(inv.ID, "only completed invoices can be cancelled")
		}

		for _, line := range inv.Lines {
			if err := s.ledger.Restore(ctx, line.ProductID, line.Quantity); err != nil {
				return translateStockError(err)
			}
		}

		inv.Status = enum.InvoiceStatusCancelled
		if err := s.invoiceRepo.UpdateVersioned(ctx, inv, expectedVersion); err != nil {
			if errors.Is(err, repository.ErrStaleVersion) {
				return apperror.NewConflictError("invoice was modified by another request")
			}
			return err
		}

		invoice = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"invoice_id": invoice.ID,
		"reason":     reason,
	}).Info("invoice cancelled")
	return invoice, nil
}

// Get returns an invoice with its lines.
func (s *InvoiceService) Get(ctx context.Context, invoiceID uuid.UUID) (*entity.Invoice, error) {
	inv, err := s.invoiceRepo.GetWithLines(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return inv, nil
}

// List returns a page of invoices matching the filter.
func (s *InvoiceService) List(ctx context.Context, params *repository.InvoiceFilterParams) (*pagination.PaginatedResult[entity.Invoice], error) {
	if params.Pagination == nil {
		params.Pagination = &pagination.PaginationParams{}
	}
	params.Pagination.Validate()

	invoices, total, err := s.invoiceRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	p := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(invoices, p), nil
}

// AuditTrail returns every recorded edit of an invoice, oldest first.
func (s *InvoiceService) AuditTrail(ctx context.Context, invoiceID uuid.UUID) ([]entity.InvoiceEditAudit, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return s.auditRepo.ListByInvoiceID(ctx, invoiceID)
}

// TaxBreakdown recomputes the per-rate tax grouping from an invoice's
// stored lines, for tax-compliant receipt printing.
func (s *InvoiceService) TaxBreakdown(ctx context.Context, invoiceID uuid.UUID) ([]billing.RateGroup, error) {
	inv, err := s.invoiceRepo.GetWithLines(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}

	lines := make([]billing.Line, 0, len(inv.Lines))
	for _, l := range inv.Lines {
		lines = append(lines, billing.Line{
			Quantity:       l.Quantity,
			UnitPrice:      l.UnitPrice,
			Discount:       l.Discount,
			TaxRatePercent: l.TaxRate,
		})
	}
	return billing.Breakdown(lines, inv.IncludeTax), nil
}

// applyStockDeltas moves stock by the difference between the old and new
// lines. Working over the union of product ids means removed products are
// restored, added products are decremented and changed quantities move by
// exactly the delta.
func (s *InvoiceService) applyStockDeltas(ctx context.Context, oldLines []entity.InvoiceLine, newItems []InvoiceItemInput) error {
	oldQty := make(map[uuid.UUID]decimal.Decimal, len(oldLines))
	for _, line := range oldLines {
		oldQty[line.ProductID] = oldQty[line.ProductID].Add(line.Quantity)
	}
	newQty := make(map[uuid.UUID]decimal.Decimal, len(newItems))
	for _, item := range newItems {
		newQty[item.ProductID] = newQty[item.ProductID].Add(item.Quantity)
	}

	seen := make(map[uuid.UUID]bool, len(oldQty)+len(newQty))
	productIDs := make([]uuid.UUID, 0, len(oldQty)+len(newQty))
	for id := range oldQty {
		if !seen[id] {
			seen[id] = true
			productIDs = append(productIDs, id)
		}
	}
	for id := range newQty {
		if !seen[id] {
			seen[id] = true
			productIDs = append(productIDs, id)
		}
	}

	for _, id := range productIDs {
		delta := newQty[id].Sub(oldQty[id])
		switch {
		case delta.IsPositive():
			if err := s.ledger.TryDecrement(ctx, id, delta); err != nil {
				return translateStockError(err)
			}
		case delta.IsNegative():
			if err := s.ledger.Restore(ctx, id, delta.Neg()); err != nil {
				return translateStockError(err)
			}
		}
	}
	return nil
}

func (s *InvoiceService) fetchProducts(ctx context.Context, items []InvoiceItemInput) (map[uuid.UUID]*entity.Product, error) {
	ids := make([]uuid.UUID, 0, len(items))
	seen := make(map[uuid.UUID]bool, len(items))
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, apperror.NewNotFoundError("Product")
		}
	}
	return byID, nil
}

func (s *InvoiceService) applyCustomerSnapshot(ctx context.Context, inv *entity.Invoice, customerID *uuid.UUID) error {
	if customerID == nil {
		return nil
	}
	customer, err := s.customerRepo.GetByID(ctx, *customerID)
	if err != nil {
		return err
	}
	if customer == nil {
		return apperror.NewNotFoundError("Customer")
	}
	inv.CustomerName = customer.Name
	inv.CustomerPhone = customer.Phone
	inv.CustomerEmail = customer.Email
	inv.CustomerTaxPIN = customer.TaxPIN
	inv.CustomerBillingAddress = customer.BillingAddress
	inv.CustomerShippingAddress = customer.ShippingAddress
	return nil
}

func (s *InvoiceService) nextSequenceNo(ctx context.Context, tenantID uuid.UUID) (string, error) {
	yearMonth := time.Now().Format("200601")
	n, err := s.sequenceRepo.Next(ctx, tenantID, yearMonth)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("INV-%s-%06d", yearMonth, n), nil
}

func validateItems(items []InvoiceItemInput) error {
	if len(items) == 0 {
		return apperror.NewBadRequestError("at least one item is required")
	}
	for _, item := range items {
		if item.ProductID == uuid.Nil {
			return apperror.NewBadRequestError("item product id is required")
		}
		if !item.Quantity.IsPositive() {
			return apperror.NewBadRequestError("item quantity must be positive")
		}
		if item.Discount.IsNegative() {
			return apperror.NewBadRequestError("item discount cannot be negative")
		}
	}
	return nil
}

func computeTotals(items []InvoiceItemInput, products map[uuid.UUID]*entity.Product, discountAmount, discountPercent decimal.Decimal, includeTax bool) billing.Totals {
	lines := make([]billing.Line, 0, len(items))
	for _, item := range items {
		p := products[item.ProductID]
		lines = append(lines, billing.Line{
			Quantity:       item.Quantity,
			UnitPrice:      p.SellingPrice,
			Discount:       item.Discount,
			TaxRatePercent: p.TaxRate,
		})
	}
	return billing.Compute(lines, billing.ResolveDiscount(discountAmount, discountPercent), includeTax)
}

func buildLines(tenantID, invoiceID uuid.UUID, items []InvoiceItemInput, products map[uuid.UUID]*entity.Product, totals billing.Totals) []entity.InvoiceLine {
	lines := make([]entity.InvoiceLine, 0, len(items))
	for i, item := range items {
		p := products[item.ProductID]
		lines = append(lines, entity.InvoiceLine{
			TenantID:    tenantID,
			InvoiceID:   invoiceID,
			ProductID:   p.ID,
			ProductName: p.Name,
			ProductCode: p.Code,
			UnitLabel:   p.UnitLabel(),
			Quantity:    item.Quantity,
			UnitPrice:   p.SellingPrice,
			Discount:    item.Discount,
			TaxRate:     p.TaxRate,
			LineTotal:   totals.Lines[i].Total,
		})
	}
	return lines
}

func translateStockError(err error) error {
	var insufficient *repository.InsufficientStockError
	if errors.As(err, &insufficient) {
		return apperror.NewInsufficientStockError(insufficient.ProductID, insufficient.Available)
	}
	if errors.Is(err, repository.ErrProductNotFound) {
		return apperror.NewNotFoundError("Product")
	}
	return err
}

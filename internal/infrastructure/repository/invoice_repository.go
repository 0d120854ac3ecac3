package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tillpoint/tillpoint-api/internal/domain/entity"
	"github.com/tillpoint/tillpoint-api/internal/domain/repository"
	"gorm.io/gorm"
)

type invoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) repository.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	if err := dbFor(ctx, r.db).Create(invoice).Error; err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	return nil
}

func (r *invoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := dbFor(ctx, r.db).Scopes(TenantScope(ctx)).Where("id = ?", id).First(&invoice).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return &invoice, nil
}

func (r *invoiceRepository) GetWithLines(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := dbFor(ctx, r.db).Scopes(TenantScope(ctx)).
		Preload("Lines").
		Where("id = ?", id).
		First(&invoice).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get invoice with lines: %w", err)
	}
	return &invoice, nil
}

func (r *invoiceRepository) GetBySequenceNo(ctx context.Context, sequenceNo string) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := dbFor(ctx, r.db).Scopes(TenantScope(ctx)).
		Preload("Lines").
		Where("sequence_no = ?", sequenceNo).
		First(&invoice).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get invoice by sequence no: %w", err)
	}
	return &invoice, nil
}

func (r *invoiceRepository) List(ctx context.Context, params *repository.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	var invoices []entity.Invoice
	var total int64

	query := dbFor(ctx, r.db).Model(&entity.Invoice{}).Scopes(TenantScope(ctx))

	if params.Search != "" {
		query = query.Where("sequence_no ILIKE ?", "%"+params.Search+"%")
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}
	if params.StartDate != nil {
		query = query.Where("created_at >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		query = query.Where("created_at <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count invoices: %w", err)
	}

	sortBy := "created_at"
	if params.SortBy != "" {
		switch params.SortBy {
		case "created_at", "total_amount", "sequence_no":
			sortBy = params.SortBy
		}
	}
	sortOrder := "DESC"
	if params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	err := query.
		Order(fmt.Sprintf("%s %s", sortBy, sortOrder)).
		Offset(params.Pagination.Offset()).
		Limit(params.Pagination.PerPage).
		Find(&invoices).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, total, nil
}

// UpdateVersioned writes the invoice only when the stored version still
// matches; the version bump rides in the same statement.
func (r *invoiceRepository) UpdateVersioned(ctx context.Context, invoice *entity.Invoice, expectedVersion int) error {
	result := dbFor(ctx, r.db).Model(&entity.Invoice{}).
		Scopes(TenantScope(ctx)).
		Where("id = ? AND version = ?", invoice.ID, expectedVersion).
		Updates(map[string]interface{}{
			"customer_id":               invoice.CustomerID,
			"customer_name":             invoice.CustomerName,
			"customer_phone":            invoice.CustomerPhone,
			"customer_email":            invoice.CustomerEmail,
			"customer_tax_pin":          invoice.CustomerTaxPIN,
			"customer_billing_address":  invoice.CustomerBillingAddress,
			"customer_shipping_address": invoice.CustomerShippingAddress,
			"status":                    invoice.Status,
			"payment_mode":              invoice.PaymentMode,
			"include_tax":               invoice.IncludeTax,
			"subtotal":                  invoice.Subtotal,
			"discount_amount":           invoice.DiscountAmount,
			"tax_amount":                invoice.TaxAmount,
			"round_off":                 invoice.RoundOff,
			"total_amount":              invoice.TotalAmount,
			"notes":                     invoice.Notes,
			"version":                   gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update invoice: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrStaleVersion
	}
	invoice.Version = expectedVersion + 1
	return nil
}

type invoiceLineRepository struct {
	db *gorm.DB
}

func NewInvoiceLineRepository(db *gorm.DB) repository.InvoiceLineRepository {
	return &invoiceLineRepository{db: db}
}

func (r *invoiceLineRepository) CreateBatch(ctx context.Context, lines []entity.InvoiceLine) error {
	if len(lines) == 0 {
		return nil
	}
	if err := dbFor(ctx, r.db).Create(&lines).Error; err != nil {
		return fmt.Errorf("failed to create invoice lines: %w", err)
	}
	return nil
}

func (r *invoiceLineRepository) GetByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]entity.InvoiceLine, error) {
	var lines []entity.InvoiceLine
	err := dbFor(ctx, r.db).Scopes(TenantScope(ctx)).
		Where("invoice_id = ?", invoiceID).
		Order("created_at ASC").
		Find(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice lines: %w", err)
	}
	return lines, nil
}

func (r *invoiceLineRepository) DeleteByInvoiceID(ctx context.Context, invoiceID uuid.UUID) error {
	err := dbFor(ctx, r.db).Scopes(TenantScope(ctx)).
		Where("invoice_id = ?", invoiceID).
		Delete(&entity.InvoiceLine{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete invoice lines: %w", err)
	}
	return nil
}

type editAuditRepository struct {
	db *gorm.DB
}

func NewEditAuditRepository(db *gorm.DB) repository.EditAuditRepository {
	return &editAuditRepository{db: db}
}

func (r *editAuditRepository) Create(ctx context.Context, audit *entity.InvoiceEditAudit) error {
	if err := dbFor(ctx, r.db).Create(audit).Error; err != nil {
		return fmt.Errorf("failed to create edit audit: %w", err)
	}
	return nil
}

func (r *editAuditRepository) ListByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]entity.InvoiceEditAudit, error) {
	var audits []entity.InvoiceEditAudit
	err := dbFor(ctx, r.db).Scopes(TenantScope(ctx)).
		Where("invoice_id = ?", invoiceID).
		Order("created_at ASC").
		Find(&audits).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list edit audits: %w", err)
	}
	return audits, nil
}

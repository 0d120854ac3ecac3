package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tillpoint/tillpoint-api/internal/domain/entity"
	"github.com/tillpoint/tillpoint-api/internal/domain/enum"
	"github.com/tillpoint/tillpoint-api/pkg/pagination"
)

// InvoiceRepository defines the interface for invoice data operations.
// All reads are tenant-scoped; an invoice belonging to another tenant is
// indistinguishable from a missing one.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	GetWithLines(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	GetBySequenceNo(ctx context.Context, sequenceNo string) (*entity.Invoice, error)
	List(ctx context.Context, params *InvoiceFilterParams) ([]entity.Invoice, int64, error)

	// UpdateVersioned persists the invoice's mutable fields only if the
	// stored row still carries expectedVersion, bumping the version on
	// success. Returns ErrStaleVersion when the row moved on.
	UpdateVersioned(ctx context.Context, invoice *entity.Invoice, expectedVersion int) error
}

// InvoiceFilterParams contains filtering parameters for invoice queries
type InvoiceFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string // matches the sequence number
	Status     *enum.InvoiceStatus
	CustomerID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     string
	SortOrder  string
}

// InvoiceLineRepository defines the interface for invoice line operations
type InvoiceLineRepository interface {
	CreateBatch(ctx context.Context, lines []entity.InvoiceLine) error
	GetByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]entity.InvoiceLine, error)
	DeleteByInvoiceID(ctx context.Context, invoiceID uuid.UUID) error
}

// EditAuditRepository defines the interface for invoice edit audit rows
type EditAuditRepository interface {
	Create(ctx context.Context, audit *entity.InvoiceEditAudit) error
	ListByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]entity.InvoiceEditAudit, error)
}

// InvoiceSequenceRepository allocates human-readable invoice numbers.
// Next returns the next counter value for the tenant's month, atomically.
type InvoiceSequenceRepository interface {
	Next(ctx context.Context, tenantID uuid.UUID, yearMonth string) (int64, error)
}

// ReturnsChecker is the boundary to the returns subsystem: it only answers
// whether an invoice has associated returns, which blocks edits unless the
// caller explicitly overrides.
type ReturnsChecker interface {
	HasReturns(ctx context.Context, invoiceID uuid.UUID) (bool, error)
}

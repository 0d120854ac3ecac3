package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tillpoint/tillpoint-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Invoice is a finalized sale with tax-compliant totals. The monetary
// fields always satisfy
//
//	total     = round(subtotal - discount + tax)
//	round_off = total - (subtotal - discount + tax)
//
// and are reproducible by re-running the billing calculator over the
// stored lines. Version backs optimistic locking: concurrent edits of the
// same invoice race on it and the loser is rejected.
type Invoice struct {
	ID          uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	TenantID    uuid.UUID          `gorm:"type:uuid;not null;index" json:"tenant_id"`
	SequenceNo  string             `gorm:"size:100;not null;uniqueIndex:idx_invoices_tenant_seq,priority:2" json:"sequence_no"`
	CustomerID  *uuid.UUID         `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	Status      enum.InvoiceStatus `gorm:"default:0" json:"status"`
	PaymentMode enum.PaymentMode   `gorm:"size:20;default:'cash'" json:"payment_mode"`
	IncludeTax  bool               `gorm:"default:true" json:"include_tax"`

	// Customer snapshot, denormalized at the time of sale.
	CustomerName            string  `gorm:"size:255" json:"customer_name"`
	CustomerPhone           *string `gorm:"size:50" json:"customer_phone,omitempty"`
	CustomerEmail           *string `gorm:"size:255" json:"customer_email,omitempty"`
	CustomerTaxPIN          *string `gorm:"size:50;column:customer_tax_pin" json:"customer_tax_pin,omitempty"`
	CustomerBillingAddress  *string `gorm:"type:text" json:"customer_billing_address,omitempty"`
	CustomerShippingAddress *string `gorm:"type:text" json:"customer_shipping_address,omitempty"`

	Subtotal       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"subtotal"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"discount_amount"` // line + bill discounts combined
	TaxAmount      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"tax_amount"`
	RoundOff       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"round_off"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_amount"`

	Notes       *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedByID uuid.UUID      `gorm:"type:uuid;not null;column:created_by" json:"created_by"`
	Version     int            `gorm:"default:1" json:"version"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Tenant    Tenant        `gorm:"foreignKey:TenantID" json:"-"`
	Customer  *Customer     `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	CreatedBy User          `gorm:"foreignKey:CreatedByID" json:"-"`
	Lines     []InvoiceLine `gorm:"foreignKey:InvoiceID" json:"lines,omitempty"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceLine is one product entry on an invoice. Product name, code,
// unit label and tax rate are snapshotted at the time of sale so later
// catalog edits don't rewrite history. Quantity is decimal to support
// fractional units (weight). TenantID is denormalized from the invoice
// so line queries stay tenant-scoped without a join.
type InvoiceLine struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`
	InvoiceID uuid.UUID `gorm:"type:uuid;not null;index" json:"invoice_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`

	// Product snapshot at the time of sale.
	ProductName string `gorm:"size:255;not null" json:"product_name"`
	ProductCode string `gorm:"size:100" json:"product_code"`
	UnitLabel   string `gorm:"size:50" json:"unit_label"`

	Quantity  decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"unit_price"`
	Discount  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"discount"`
	TaxRate   decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"tax_rate"` // percent at time of sale
	LineTotal decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"line_total"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Invoice Invoice `gorm:"foreignKey:InvoiceID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new invoice line
func (l *InvoiceLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceLine model
func (InvoiceLine) TableName() string {
	return "invoice_lines"
}

// InvoiceSequence is a tenant's invoice number counter for one month.
// Incremented atomically when an invoice is created.
type InvoiceSequence struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_invoice_sequences_tenant_month,priority:1" json:"tenant_id"`
	YearMonth string    `gorm:"size:6;not null;uniqueIndex:idx_invoice_sequences_tenant_month,priority:2" json:"year_month"`
	LastValue int64     `gorm:"not null;default:0" json:"last_value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the InvoiceSequence model
func (InvoiceSequence) TableName() string {
	return "invoice_sequences"
}

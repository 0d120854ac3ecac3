package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvoiceEditAudit is one row per accepted edit of a finalized invoice.
// Invoices are append-mostly; edits are exceptional and always leave a
// trail. Before/after state is stored as JSON documents rich enough to
// reconstruct the change.
type InvoiceEditAudit struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantID    uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`
	InvoiceID   uuid.UUID `gorm:"type:uuid;not null;index" json:"invoice_id"`
	EditorID    uuid.UUID `gorm:"type:uuid;not null;column:edited_by" json:"edited_by"`
	Reason      string    `gorm:"type:text;not null" json:"reason"`
	BeforeState string    `gorm:"type:jsonb" json:"before_state"`
	AfterState  string    `gorm:"type:jsonb" json:"after_state"`
	CreatedAt   time.Time `json:"created_at"`

	// Relationships
	Invoice Invoice `gorm:"foreignKey:InvoiceID" json:"-"`
	Editor  User    `gorm:"foreignKey:EditorID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new audit row
func (a *InvoiceEditAudit) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceEditAudit model
func (InvoiceEditAudit) TableName() string {
	return "invoice_edit_audits"
}

// SalesReturn is the minimal surface of the returns subsystem this service
// needs: its existence. Invoices with associated returns are blocked from
// editing unless the caller explicitly overrides.
type SalesReturn struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`
	InvoiceID uuid.UUID `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Reason    *string   `gorm:"type:text" json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new sales return
func (r *SalesReturn) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SalesReturn model
func (SalesReturn) TableName() string {
	return "sales_returns"
}

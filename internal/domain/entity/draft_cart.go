package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tillpoint/tillpoint-api/internal/domain/enum"
	"gorm.io/gorm"
)

// CartSchemaVersion is the snapshot schema this build writes and accepts.
// Holds declaring a newer version than this build understands are
// rejected instead of being silently misparsed.
const CartSchemaVersion = 1

// CartSnapshot is the explicitly-typed shape of a held cart. Drafts are
// persisted verbatim as the raw JSON the cashier's terminal sent, so
// recall hands back exactly what was held; this struct is how the rest of
// the system reads one.
type CartSnapshot struct {
	SchemaVersion   int              `json:"schema_version"`
	Items           []CartItem       `json:"items"`
	CustomerID      *uuid.UUID       `json:"customer_id,omitempty"`
	CustomerName    string           `json:"customer_name,omitempty"`
	CustomerPhone   string           `json:"customer_phone,omitempty"`
	DiscountAmount  decimal.Decimal  `json:"discount_amount"`
	DiscountPercent decimal.Decimal  `json:"discount_percent"`
	PaymentMode     enum.PaymentMode `json:"payment_mode,omitempty"`
	IncludeTax      bool             `json:"include_tax"`
	Notes           string           `json:"notes,omitempty"`
}

// CartItem is one line of a held cart. Prices here are whatever was
// current when the cart was held; they are re-validated against the
// catalog when the draft is submitted through the normal create path.
type CartItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
}

// DraftCart is a parked, unsubmitted cart a cashier can resume later.
// The snapshot is stored as raw text, not normalized JSON, so recall is
// byte-for-byte. Drafts never touch stock or invoices.
type DraftCart struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TenantID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"tenant_id"`
	CreatedByID   uuid.UUID      `gorm:"type:uuid;not null;index;column:created_by" json:"created_by"`
	Label         string         `gorm:"size:255" json:"label"`
	SchemaVersion int            `gorm:"not null;default:1" json:"schema_version"`
	Snapshot      string         `gorm:"type:text;not null" json:"snapshot"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Tenant    Tenant `gorm:"foreignKey:TenantID" json:"-"`
	CreatedBy User   `gorm:"foreignKey:CreatedByID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new draft cart
func (d *DraftCart) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the DraftCart model
func (DraftCart) TableName() string {
	return "draft_carts"
}

package dto

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tillpoint/tillpoint-api/internal/domain/enum"
)

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest exchanges a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// InvoiceItemRequest is one cart line in a create or edit request. Prices
// are never accepted from the client; only product, quantity and the line
// discount.
type InvoiceItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	Discount  decimal.Decimal `json:"discount"`
}

// CreateInvoiceRequest finalizes a sale
type CreateInvoiceRequest struct {
	Items           []InvoiceItemRequest `json:"items" binding:"required"`
	CustomerID      *uuid.UUID           `json:"customer_id"`
	DiscountAmount  decimal.Decimal      `json:"discount_amount"`
	DiscountPercent decimal.Decimal      `json:"discount_percent"`
	PaymentMode     enum.PaymentMode     `json:"payment_mode"`
	IncludeTax      *bool                `json:"include_tax"`
	Notes           *string              `json:"notes"`
}

// EditInvoiceRequest replaces an invoice's cart. The expected version
// makes concurrent edits race explicitly instead of last-write-wins.
type EditInvoiceRequest struct {
	ExpectedVersion      int                  `json:"expected_version" binding:"required"`
	Reason               string               `json:"reason" binding:"required"`
	Items                []InvoiceItemRequest `json:"items" binding:"required"`
	CustomerID           *uuid.UUID           `json:"customer_id"`
	DiscountAmount       decimal.Decimal      `json:"discount_amount"`
	DiscountPercent      decimal.Decimal      `json:"discount_percent"`
	PaymentMode          enum.PaymentMode     `json:"payment_mode"`
	IncludeTax           *bool                `json:"include_tax"`
	Notes                *string              `json:"notes"`
	OverrideReturnsBlock bool                 `json:"override_returns_block"`
}

// CancelInvoiceRequest voids an invoice
type CancelInvoiceRequest struct {
	ExpectedVersion int    `json:"expected_version" binding:"required"`
	Reason          string `json:"reason"`
}

// HoldCartRequest parks a cart. The snapshot is kept as raw JSON so the
// recall hands back exactly what was held.
type HoldCartRequest struct {
	Label    string          `json:"label"`
	Snapshot json.RawMessage `json:"snapshot" binding:"required"`
}

// CreateProductRequest adds a catalog item
type CreateProductRequest struct {
	Name            string          `json:"name" binding:"required"`
	Code            string          `json:"code"`
	CategoryID      *uuid.UUID      `json:"category_id"`
	UnitID          *uuid.UUID      `json:"unit_id"`
	OpeningQuantity decimal.Decimal `json:"opening_quantity"`
	QuantityAlert   decimal.Decimal `json:"quantity_alert"`
	BuyingPrice     decimal.Decimal `json:"buying_price"`
	SellingPrice    decimal.Decimal `json:"selling_price"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	Notes           *string         `json:"notes"`
}

// UpdateProductRequest updates catalog fields; stock is not editable here
type UpdateProductRequest struct {
	Name          string          `json:"name" binding:"required"`
	Code          string          `json:"code"`
	CategoryID    *uuid.UUID      `json:"category_id"`
	UnitID        *uuid.UUID      `json:"unit_id"`
	QuantityAlert decimal.Decimal `json:"quantity_alert"`
	BuyingPrice   decimal.Decimal `json:"buying_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	Notes         *string         `json:"notes"`
}

// CustomerRequest creates or updates a customer
type CustomerRequest struct {
	Name            string  `json:"name" binding:"required"`
	Email           *string `json:"email"`
	Phone           *string `json:"phone"`
	TaxPIN          *string `json:"tax_pin"`
	BillingAddress  *string `json:"billing_address"`
	ShippingAddress *string `json:"shipping_address"`
}

// PurchaseItemRequest is one line of a supplier purchase
type PurchaseItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost  decimal.Decimal `json:"unit_cost" binding:"required"`
}

// CreatePurchaseRequest records a pending purchase
type CreatePurchaseRequest struct {
	SupplierID *uuid.UUID            `json:"supplier_id"`
	Items      []PurchaseItemRequest `json:"items" binding:"required"`
}

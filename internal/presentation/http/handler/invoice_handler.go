package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tillpoint/tillpoint-api/internal/application/service"
	"github.com/tillpoint/tillpoint-api/internal/domain/enum"
	"github.com/tillpoint/tillpoint-api/internal/domain/repository"
	"github.com/tillpoint/tillpoint-api/internal/presentation/http/dto"
	"github.com/tillpoint/tillpoint-api/internal/presentation/http/middleware"
	"github.com/tillpoint/tillpoint-api/pkg/pagination"
)

// InvoiceHandler exposes the invoice lifecycle over HTTP.
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Create handles POST /invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	includeTax := true
	if req.IncludeTax != nil {
		includeTax = *req.IncludeTax
	}

	input := &service.CreateInvoiceInput{
		Items:           toItemInputs(req.Items),
		CustomerID:      req.CustomerID,
		DiscountAmount:  req.DiscountAmount,
		DiscountPercent: req.DiscountPercent,
		PaymentMode:     req.PaymentMode,
		IncludeTax:      includeTax,
		Notes:           req.Notes,
		CreatedBy:       middleware.UserID(c),
	}

	invoice, err := h.invoiceService.Create(c.Request.Context(), middleware.TenantID(c), input)
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.Success(c, http.StatusCreated, "Invoice created", invoice)
}

// Get handles GET /invoices/:id
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		dto.BadRequest(c, "invalid invoice id")
		return
	}

	invoice, err := h.invoiceService.Get(c.Request.Context(), id)
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.Success(c, http.StatusOK, "", invoice)
}

// List handles GET /invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	params := &repository.InvoiceFilterParams{
		Pagination: paginationFromQuery(c),
		Search:     c.Query("search"),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
	}

	if statusStr := c.Query("status"); statusStr != "" {
		var status enum.InvoiceStatus
		switch statusStr {
		case "completed":
			status = enum.InvoiceStatusCompleted
		case "cancelled":
			status = enum.InvoiceStatusCancelled
		default:
			dto.BadRequest(c, "invalid status filter")
			return
		}
		params.Status = &status
	}
	if customerStr := c.Query("customer_id"); customerStr != "" {
		customerID, err := uuid.Parse(customerStr)
		if err != nil {
			dto.BadRequest(c, "invalid customer id")
			return
		}
		params.CustomerID = &customerID
	}
	if from := c.Query("from"); from != "" {
		ts, err := time.Parse(time.RFC3339, from)
		if err != nil {
			dto.BadRequest(c, "invalid from timestamp")
			return
		}
		params.StartDate = &ts
	}
	if to := c.Query("to"); to != "" {
		ts, err := time.Parse(time.RFC3339, to)
		if err != nil {
			dto.BadRequest(c, "invalid to timestamp")
			return
		}
		params.EndDate = &ts
	}

	result, err := h.invoiceService.List(c.Request.Context(), params)
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.Success(c, http.StatusOK, "", result)
}

// Edit handles PUT /invoices/:id
func (h *InvoiceHandler) Edit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		dto.BadRequest(c, "invalid invoice id")
		return
	}

	var req dto.EditInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	includeTax := true
	if req.IncludeTax != nil {
		includeTax = *req.IncludeTax
	}

	input := &service.EditInvoiceInput{
		InvoiceID:            id,
		ExpectedVersion:      req.ExpectedVersion,
		Reason:               req.Reason,
		Items:                toItemInputs(req.Items),
		CustomerID:           req.CustomerID,
		DiscountAmount:       req.DiscountAmount,
		DiscountPercent:      req.DiscountPercent,
		PaymentMode:          req.PaymentMode,
		IncludeTax:           includeTax,
		Notes:                req.Notes,
		EditedBy:             middleware.UserID(c),
		OverrideReturnsBlock: req.OverrideReturnsBlock,
	}

	invoice, err := h.invoiceService.Edit(c.Request.Context(), input)
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.Success(c, http.StatusOK, "Invoice updated", invoice)
}

// Cancel handles POST /invoices/:id/cancel
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		dto.BadRequest(c, "invalid invoice id")
		return
	}

	var req dto.CancelInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoiceService.Cancel(c.Request.Context(), id, req.ExpectedVersion, req.Reason)
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.Success(c, http.StatusOK, "Invoice cancelled", invoice)
}

// AuditTrail handles GET /invoices/:id/audit
func (h *InvoiceHandler) AuditTrail(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		dto.BadRequest(c, "invalid invoice id")
		return
	}

	audits, err := h.invoiceService.AuditTrail(c.Request.Context(), id)
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.Success(c, http.StatusOK, "", audits)
}

// TaxBreakdown handles GET /invoices/:id/tax-breakdown
func (h *InvoiceHandler) TaxBreakdown(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		dto.BadRequest(c, "invalid invoice id")
		return
	}

	groups, err := h.invoiceService.TaxBreakdown(c.Request.Context(), id)
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.Success(c, http.StatusOK, "", groups)
}

func toItemInputs(items []dto.InvoiceItemRequest) []service.InvoiceItemInput {
	out := make([]service.InvoiceItemInput, 0, len(items))
	for _, item := range items {
		out = append(out, service.InvoiceItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Discount:  item.Discount,
		})
	}
	return out
}

func paginationFromQuery(c *gin.Context) *pagination.PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))
	return &pagination.PaginationParams{Page: page, PerPage: perPage}
}

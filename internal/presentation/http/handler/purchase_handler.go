package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tillpoint/tillpoint-api/internal/application/service"
	"github.com/tillpoint/tillpoint-api/internal/domain/enum"
	"github.com/tillpoint/tillpoint-api/internal/presentation/http/dto"
	"github.com/tillpoint/tillpoint-api/internal/presentation/http/middleware"
)

// PurchaseHandler exposes supplier purchases.
type PurchaseHandler struct {
	purchaseService *service.PurchaseService
}

func NewPurchaseHandler(purchaseService *service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

// Create handles POST /purchases
func (h *PurchaseHandler) Create(c *gin.Context) {
	var req dto.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	items := make([]service.PurchaseItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.PurchaseItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitCost:  item.UnitCost,
		})
	}

	purchase, err := h.purchaseService.Create(c.Request.Context(), middleware.TenantID(c), &service.CreatePurchaseInput{
		SupplierID: req.SupplierID,
		Items:      items,
		CreatedBy:  middleware.UserID(c),
	})
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.Success(c, http.StatusCreated, "Purchase created", purchase)
}

// Get handles GET /purchases/:id
func (h *PurchaseHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		dto.BadRequest(c, "invalid purchase id")
		return
	}

	purchase, err := h.purchaseService.Get(c.Request.Context(), id)
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.Success(c, http.StatusOK, "", purchase)
}

// List handles GET /purchases
func (h *PurchaseHandler) List(c *gin.Context) {
	var status *enum.PurchaseStatus
	switch c.Query("status") {
	case "":
	case "pending":
		s := enum.PurchaseStatusPending
		status = &s
	case "received":
		s := enum.PurchaseStatusReceived
		status = &s
	default:
		dto.BadRequest(c, "invalid status filter")
		return
	}

	result, err := h.purchaseService.List(c.Request.Context(), paginationFromQuery(c), status)
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.Success(c, http.StatusOK, "", result)
}

// Receive handles POST /purchases/:id/receive
func (h *PurchaseHandler) Receive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		dto.BadRequest(c, "invalid purchase id")
		return
	}

	purchase, err := h.purchaseService.Receive(c.Request.Context(), id)
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.Success(c, http.StatusOK, "Purchase received", purchase)
}

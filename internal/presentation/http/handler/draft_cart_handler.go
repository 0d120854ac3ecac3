package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tillpoint/tillpoint-api/internal/application/service"
	"github.com/tillpoint/tillpoint-api/internal/presentation/http/dto"
	"github.com/tillpoint/tillpoint-api/internal/presentation/http/middleware"
)

// DraftCartHandler exposes hold/recall of parked carts.
type DraftCartHandler struct {
	draftService *service.DraftCartService
}

func NewDraftCartHandler(draftService *service.DraftCartService) *DraftCartHandler {
	return &DraftCartHandler{draftService: draftService}
}

// Hold handles POST /drafts
func (h *DraftCartHandler) Hold(c *gin.Context) {
	var req dto.HoldCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	draft, err := h.draftService.Hold(c.Request.Context(), middleware.TenantID(c), &service.HoldCartInput{
		Label:       req.Label,
		RawSnapshot: req.Snapshot,
		CreatedBy:   middleware.UserID(c),
	})
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.Success(c, http.StatusCreated, "Cart held", draft)
}

// List handles GET /drafts
func (h *DraftCartHandler) List(c *gin.Context) {
	drafts, err := h.draftService.ListHeld(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.Success(c, http.StatusOK, "", drafts)
}

// Recall handles GET /drafts/:id
func (h *DraftCartHandler) Recall(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		dto.BadRequest(c, "invalid draft id")
		return
	}

	draft, snapshot, err := h.draftService.Recall(c.Request.Context(), id)
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.Success(c, http.StatusOK, "", gin.H{
		"draft":    draft,
		"snapshot": snapshot,
	})
}

// Discard handles DELETE /drafts/:id
func (h *DraftCartHandler) Discard(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		dto.BadRequest(c, "invalid draft id")
		return
	}

	if err := h.draftService.Discard(c.Request.Context(), id); err != nil {
		dto.Error(c, err)
		return
	}
	dto.Success(c, http.StatusOK, "Draft discarded", nil)
}

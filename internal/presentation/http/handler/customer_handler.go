package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tillpoint/tillpoint-api/internal/application/service"
	"github.com/tillpoint/tillpoint-api/internal/presentation/http/dto"
	"github.com/tillpoint/tillpoint-api/internal/presentation/http/middleware"
)

// CustomerHandler exposes customer management.
type CustomerHandler struct {
	customerService *service.CustomerService
}

func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// Create handles POST /customers
func (h *CustomerHandler) Create(c *gin.Context) {
	var req dto.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	customer, err := h.customerService.Create(c.Request.Context(), middleware.TenantID(c), customerInput(&req))
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.Success(c, http.StatusCreated, "Customer created", customer)
}

// Get handles GET /customers/:id
func (h *CustomerHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		dto.BadRequest(c, "invalid customer id")
		return
	}

	customer, err := h.customerService.Get(c.Request.Context(), id)
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.Success(c, http.StatusOK, "", customer)
}

// List handles GET /customers
func (h *CustomerHandler) List(c *gin.Context) {
	result, err := h.customerService.List(c.Request.Context(), paginationFromQuery(c), c.Query("search"))
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.Success(c, http.StatusOK, "", result)
}

// Update handles PUT /customers/:id
func (h *CustomerHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		dto.BadRequest(c, "invalid customer id")
		return
	}

	var req dto.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	customer, err := h.customerService.Update(c.Request.Context(), id, customerInput(&req))
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.Success(c, http.StatusOK, "Customer updated", customer)
}

// Delete handles DELETE /customers/:id
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		dto.BadRequest(c, "invalid customer id")
		return
	}

	if err := h.customerService.Delete(c.Request.Context(), id); err != nil {
		dto.Error(c, err)
		return
	}
	dto.Success(c, http.StatusOK, "Customer deleted", nil)
}

func customerInput(req *dto.CustomerRequest) *service.CustomerInput {
	return &service.CustomerInput{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		TaxPIN:          req.TaxPIN,
		BillingAddress:  req.BillingAddress,
		ShippingAddress: req.ShippingAddress,
	}
}

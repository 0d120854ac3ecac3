package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tillpoint/tillpoint-api/internal/application/service"
	"github.com/tillpoint/tillpoint-api/internal/domain/repository"
	"github.com/tillpoint/tillpoint-api/internal/presentation/http/dto"
	"github.com/tillpoint/tillpoint-api/internal/presentation/http/middleware"
)

// ProductHandler exposes the product catalog.
type ProductHandler struct {
	productService *service.ProductService
}

func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// Create handles POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	product, err := h.productService.Create(c.Request.Context(), middleware.TenantID(c), &service.CreateProductInput{
		Name:            req.Name,
		Code:            req.Code,
		CategoryID:      req.CategoryID,
		UnitID:          req.UnitID,
		OpeningQuantity: req.OpeningQuantity,
		QuantityAlert:   req.QuantityAlert,
		BuyingPrice:     req.BuyingPrice,
		SellingPrice:    req.SellingPrice,
		TaxRate:         req.TaxRate,
		Notes:           req.Notes,
	})
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.Success(c, http.StatusCreated, "Product created", product)
}

// Get handles GET /products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		dto.BadRequest(c, "invalid product id")
		return
	}

	product, err := h.productService.Get(c.Request.Context(), id)
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.Success(c, http.StatusOK, "", product)
}

// List handles GET /products
func (h *ProductHandler) List(c *gin.Context) {
	params := &repository.ProductFilterParams{
		Pagination: paginationFromQuery(c),
		Search:     c.Query("search"),
		LowStock:   c.Query("low_stock") == "true",
	}
	if categoryStr := c.Query("category_id"); categoryStr != "" {
		categoryID, err := uuid.Parse(categoryStr)
		if err != nil {
			dto.BadRequest(c, "invalid category id")
			return
		}
		params.CategoryID = &categoryID
	}

	result, err := h.productService.List(c.Request.Context(), params)
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.Success(c, http.StatusOK, "", result)
}

// Update handles PUT /products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		dto.BadRequest(c, "invalid product id")
		return
	}

	var req dto.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, &service.UpdateProductInput{
		Name:          req.Name,
		Code:          req.Code,
		CategoryID:    req.CategoryID,
		UnitID:        req.UnitID,
		QuantityAlert: req.QuantityAlert,
		BuyingPrice:   req.BuyingPrice,
		SellingPrice:  req.SellingPrice,
		TaxRate:       req.TaxRate,
		Notes:         req.Notes,
	})
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.Success(c, http.StatusOK, "Product updated", product)
}

// Delete handles DELETE /products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		dto.BadRequest(c, "invalid product id")
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		dto.Error(c, err)
		return
	}
	dto.Success(c, http.StatusOK, "Product deleted", nil)
}

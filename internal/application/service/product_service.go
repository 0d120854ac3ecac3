package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/tillpoint/tillpoint-api/internal/domain/entity"
	"github.com/tillpoint/tillpoint-api/internal/domain/repository"
	"github.com/tillpoint/tillpoint-api/pkg/apperror"
	"github.com/tillpoint/tillpoint-api/pkg/pagination"
	"github.com/tillpoint/tillpoint-api/pkg/utils"
)

// CreateProductInput carries catalog fields for a new product. Opening
// stock is set here once; afterwards quantity only moves through sales,
// cancellations and received purchases.
type CreateProductInput struct {
	Name            string
	Code            string
	CategoryID      *uuid.UUID
	UnitID          *uuid.UUID
	OpeningQuantity decimal.Decimal
	QuantityAlert   decimal.Decimal
	BuyingPrice     decimal.Decimal
	SellingPrice    decimal.Decimal
	TaxRate         decimal.Decimal
	Notes           *string
}

// UpdateProductInput carries the mutable catalog fields. Quantity is
// deliberately absent.
type UpdateProductInput struct {
	Name          string
	Code          string
	CategoryID    *uuid.UUID
	UnitID        *uuid.UUID
	QuantityAlert decimal.Decimal
	BuyingPrice   decimal.Decimal
	SellingPrice  decimal.Decimal
	TaxRate       decimal.Decimal
	Notes         *string
}

// ProductService manages the product catalog.
type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	unitRepo     repository.UnitRepository
	log          *logrus.Logger
}

func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	unitRepo repository.UnitRepository,
	log *logrus.Logger,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		unitRepo:     unitRepo,
		log:          log,
	}
}

func (s *ProductService) Create(ctx context.Context, tenantID uuid.UUID, input *CreateProductInput) (*entity.Product, error) {
	if input.Name == "" {
		return nil, apperror.NewBadRequestError("product name is required")
	}
	if input.SellingPrice.IsNegative() || input.BuyingPrice.IsNegative() {
		return nil, apperror.NewBadRequestError("price cannot be negative")
	}
	if input.TaxRate.IsNegative() {
		return nil, apperror.NewBadRequestError("tax rate cannot be negative")
	}
	if input.OpeningQuantity.IsNegative() {
		return nil, apperror.NewBadRequestError("opening quantity cannot be negative")
	}

	if err := s.validateRefs(ctx, input.CategoryID, input.UnitID); err != nil {
		return nil, err
	}

	code := input.Code
	if code == "" {
		code = utils.GenerateProductCode()
	} else {
		existing, err := s.productRepo.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewBadRequestError("product code already in use")
		}
	}

	product := &entity.Product{
		TenantID:      tenantID,
		CategoryID:    input.CategoryID,
		UnitID:        input.UnitID,
		Name:          input.Name,
		Slug:          utils.Slugify(input.Name),
		Code:          code,
		Quantity:      input.OpeningQuantity,
		QuantityAlert: input.QuantityAlert,
		BuyingPrice:   input.BuyingPrice,
		SellingPrice:  input.SellingPrice,
		TaxRate:       input.TaxRate,
		Notes:         input.Notes,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"product_id": product.ID,
		"code":       product.Code,
	}).Info("product created")

	return product, nil
}

func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	if input.Name == "" {
		return nil, apperror.NewBadRequestError("product name is required")
	}
	if input.SellingPrice.IsNegative() || input.BuyingPrice.IsNegative() {
		return nil, apperror.NewBadRequestError("price cannot be negative")
	}
	if input.TaxRate.IsNegative() {
		return nil, apperror.NewBadRequestError("tax rate cannot be negative")
	}

	if err := s.validateRefs(ctx, input.CategoryID, input.UnitID); err != nil {
		return nil, err
	}

	if input.Code != "" && input.Code != product.Code {
		existing, err := s.productRepo.GetByCode(ctx, input.Code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewBadRequestError("product code already in use")
		}
		product.Code = input.Code
	}

	product.Name = input.Name
	product.Slug = utils.Slugify(input.Name)
	product.CategoryID = input.CategoryID
	product.UnitID = input.UnitID
	product.QuantityAlert = input.QuantityAlert
	product.BuyingPrice = input.BuyingPrice
	product.SellingPrice = input.SellingPrice
	product.TaxRate = input.TaxRate
	product.Notes = input.Notes

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}
	return s.productRepo.Delete(ctx, id)
}

func (s *ProductService) List(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	if params.Pagination == nil {
		params.Pagination = &pagination.PaginationParams{}
	}
	params.Pagination.Validate()

	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	p := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, p), nil
}

func (s *ProductService) validateRefs(ctx context.Context, categoryID, unitID *uuid.UUID) error {
	if categoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *categoryID)
		if err != nil {
			return err
		}
		if category == nil {
			return apperror.NewNotFoundError("Category")
		}
	}
	if unitID != nil {
		unit, err := s.unitRepo.GetByID(ctx, *unitID)
		if err != nil {
			return err
		}
		if unit == nil {
			return apperror.NewNotFoundError("Unit")
		}
	}
	return nil
}

package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/tillpoint/tillpoint-api/internal/domain/entity"
	"github.com/tillpoint/tillpoint-api/internal/domain/enum"
	"github.com/tillpoint/tillpoint-api/internal/domain/repository"
	"github.com/tillpoint/tillpoint-api/pkg/apperror"
	"github.com/tillpoint/tillpoint-api/pkg/billing"
	"github.com/tillpoint/tillpoint-api/pkg/pagination"
	"github.com/tillpoint/tillpoint-api/pkg/utils"
)

// PurchaseItemInput is one line of goods ordered from a supplier.
type PurchaseItemInput struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
}

// CreatePurchaseInput creates a pending purchase. Stock does not move
// until the purchase is received.
type CreatePurchaseInput struct {
	SupplierID *uuid.UUID
	Items      []PurchaseItemInput
	CreatedBy  uuid.UUID
}

// PurchaseService manages supplier purchases. Receiving a purchase is the
// only operation that increases stock through buying.
type PurchaseService struct {
	uow          repository.UnitOfWork
	purchaseRepo repository.PurchaseRepository
	lineRepo     repository.PurchaseLineRepository
	supplierRepo repository.SupplierRepository
	productRepo  repository.ProductRepository
	ledger       repository.StockLedger
	log          *logrus.Logger
}

func NewPurchaseService(
	uow repository.UnitOfWork,
	purchaseRepo repository.PurchaseRepository,
	lineRepo repository.PurchaseLineRepository,
	supplierRepo repository.SupplierRepository,
	productRepo repository.ProductRepository,
	ledger repository.StockLedger,
	log *logrus.Logger,
) *PurchaseService {
	return &PurchaseService{
		uow:          uow,
		purchaseRepo: purchaseRepo,
		lineRepo:     lineRepo,
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
		ledger:       ledger,
		log:          log,
	}
}

// Create records a pending purchase with totals derived from the same
// arithmetic invoices use.
func (s *PurchaseService) Create(ctx context.Context, tenantID uuid.UUID, input *CreatePurchaseInput) (*entity.Purchase, error) {
	if len(input.Items) == 0 {
		return nil, apperror.NewBadRequestError("at least one item is required")
	}
	for _, item := range input.Items {
		if item.ProductID == uuid.Nil {
			return nil, apperror.NewBadRequestError("item product id is required")
		}
		if !item.Quantity.IsPositive() {
			return nil, apperror.NewBadRequestError("item quantity must be positive")
		}
		if item.UnitCost.IsNegative() {
			return nil, apperror.NewBadRequestError("item unit cost cannot be negative")
		}
	}

	if input.SupplierID != nil {
		supplier, err := s.supplierRepo.GetByID(ctx, *input.SupplierID)
		if err != nil {
			return nil, err
		}
		if supplier == nil {
			return nil, apperror.NewNotFoundError("Supplier")
		}
	}

	var purchase *entity.Purchase
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		ids := make([]uuid.UUID, 0, len(input.Items))
		for _, item := range input.Items {
			ids = append(ids, item.ProductID)
		}
		products, err := s.productRepo.GetByIDs(ctx, ids)
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]*entity.Product, len(products))
		for i := range products {
			byID[products[i].ID] = &products[i]
		}

		billingLines := make([]billing.Line, 0, len(input.Items))
		for _, item := range input.Items {
			p, ok := byID[item.ProductID]
			if !ok {
				return apperror.NewNotFoundError("Product")
			}
			billingLines = append(billingLines, billing.Line{
				Quantity:       item.Quantity,
				UnitPrice:      item.UnitCost,
				TaxRatePercent: p.TaxRate,
			})
		}
		totals := billing.Compute(billingLines, billing.NoDiscount(), true)

		pur := &entity.Purchase{
			TenantID:    tenantID,
			SupplierID:  input.SupplierID,
			PurchaseNo:  utils.GeneratePurchaseNo(),
			Status:      enum.PurchaseStatusPending,
			Subtotal:    totals.Subtotal,
			TaxAmount:   totals.TaxTotal,
			TotalAmount: totals.Total,
			CreatedByID: input.CreatedBy,
		}
		if err := s.purchaseRepo.Create(ctx, pur); err != nil {
			return err
		}

		lines := make([]entity.PurchaseLine, 0, len(input.Items))
		for i, item := range input.Items {
			lines = append(lines, entity.PurchaseLine{
				PurchaseID: pur.ID,
				ProductID:  item.ProductID,
				Quantity:   item.Quantity,
				UnitCost:   item.UnitCost,
				TaxRate:    byID[item.ProductID].TaxRate,
				LineTotal:  totals.Lines[i].Total,
			})
		}
		if err := s.lineRepo.CreateBatch(ctx, lines); err != nil {
			return err
		}
		pur.Details = lines

		purchase = pur
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"purchase_id": purchase.ID,
		"purchase_no": purchase.PurchaseNo,
	}).Info("purchase created")

	return purchase, nil
}

// Receive marks a pending purchase as received and increments stock for
// every line in the same transaction.
func (s *PurchaseService) Receive(ctx context.Context, purchaseID uuid.UUID) (*entity.Purchase, error) {
	var purchase *entity.Purchase
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		pur, err := s.purchaseRepo.GetWithDetails(ctx, purchaseID)
		if err != nil {
			return err
		}
		if pur == nil {
			return apperror.NewNotFoundError("Purchase")
		}
		if pur.Status != enum.PurchaseStatusPending {
			return apperror.NewBadRequestError("purchase has already been received")
		}

		for _, line := range pur.Details {
			if err := s.ledger.Restore(ctx, line.ProductID, line.Quantity); err != nil {
				return translateStockError(err)
			}
		}

		if err := s.purchaseRepo.UpdateStatus(ctx, pur.ID, enum.PurchaseStatusReceived); err != nil {
			return err
		}
		pur.Status = enum.PurchaseStatusReceived

		purchase = pur
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithField("purchase_id", purchase.ID).Info("purchase received")
	return purchase, nil
}

// Get returns a purchase with its lines and supplier.
func (s *PurchaseService) Get(ctx context.Context, id uuid.UUID) (*entity.Purchase, error) {
	purchase, err := s.purchaseRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, apperror.NewNotFoundError("Purchase")
	}
	return purchase, nil
}

// List returns a page of purchases, optionally filtered by status.
func (s *PurchaseService) List(ctx context.Context, params *pagination.PaginationParams, status *enum.PurchaseStatus) (*pagination.PaginatedResult[entity.Purchase], error) {
	if params == nil {
		params = &pagination.PaginationParams{}
	}
	params.Validate()

	purchases, total, err := s.purchaseRepo.List(ctx, params, status)
	if err != nil {
		return nil, err
	}
	p := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(purchases, p), nil
}

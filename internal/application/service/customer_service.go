package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tillpoint/tillpoint-api/internal/domain/entity"
	"github.com/tillpoint/tillpoint-api/internal/domain/repository"
	"github.com/tillpoint/tillpoint-api/pkg/apperror"
	"github.com/tillpoint/tillpoint-api/pkg/pagination"
)

// CustomerInput carries customer fields for create and update.
type CustomerInput struct {
	Name            string
	Email           *string
	Phone           *string
	TaxPIN          *string
	BillingAddress  *string
	ShippingAddress *string
}

// CustomerService manages billable customers.
type CustomerService struct {
	customerRepo repository.CustomerRepository
	log          *logrus.Logger
}

func NewCustomerService(customerRepo repository.CustomerRepository, log *logrus.Logger) *CustomerService {
	return &CustomerService{customerRepo: customerRepo, log: log}
}

func (s *CustomerService) Create(ctx context.Context, tenantID uuid.UUID, input *CustomerInput) (*entity.Customer, error) {
	if input.Name == "" {
		return nil, apperror.NewBadRequestError("customer name is required")
	}

	customer := &entity.Customer{
		TenantID:        tenantID,
		Name:            input.Name,
		Email:           input.Email,
		Phone:           input.Phone,
		TaxPIN:          input.TaxPIN,
		BillingAddress:  input.BillingAddress,
		ShippingAddress: input.ShippingAddress,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	s.log.WithField("customer_id", customer.ID).Info("customer created")
	return customer, nil
}

func (s *CustomerService) Get(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, input *CustomerInput) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	if input.Name == "" {
		return nil, apperror.NewBadRequestError("customer name is required")
	}

	customer.Name = input.Name
	customer.Email = input.Email
	customer.Phone = input.Phone
	customer.TaxPIN = input.TaxPIN
	customer.BillingAddress = input.BillingAddress
	customer.ShippingAddress = input.ShippingAddress

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if customer == nil {
		return apperror.NewNotFoundError("Customer")
	}
	return s.customerRepo.Delete(ctx, id)
}

func (s *CustomerService) List(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	if params == nil {
		params = &pagination.PaginationParams{}
	}
	params.Validate()

	customers, total, err := s.customerRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}
	p := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(customers, p), nil
}

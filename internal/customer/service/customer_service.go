package service

import (
	"context"

	"github.com/ridloal/e-commerce-order-api/internal/customer/domain"
	"github.com/ridloal/e-commerce-order-api/internal/customer/repository"
	"github.com/ridloal/e-commerce-order-api/internal/platform/logger"
)

type CustomerService interface {
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	GetCustomer(ctx context.Context, id int64) (*domain.Customer, error)
	CreateCustomer(ctx context.Context, req domain.UpsertCustomerRequest) (*domain.Customer, error)
	UpdateCustomer(ctx context.Context, id int64, req domain.UpsertCustomerRequest) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error
}

type customerServiceImpl struct {
	repo repository.CustomerRepository
}

func NewCustomerService(repo repository.CustomerRepository) CustomerService {
	return &customerServiceImpl{repo: repo}
}

func (s *customerServiceImpl) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return s.repo.ListCustomers(ctx)
}

func (s *customerServiceImpl) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	return s.repo.GetCustomerByID(ctx, id)
}

func (s *customerServiceImpl) CreateCustomer(ctx context.Context, req domain.UpsertCustomerRequest) (*domain.Customer, error) {
	cu := &domain.Customer{
		Name:        req.Name,
		ContactName: req.ContactName,
		Country:     req.Country,
	}
	if err := s.repo.CreateCustomer(ctx, cu); err != nil {
		logger.Error("Svc.CreateCustomer: repo error", err, nil)
		return nil, err
	}
	return cu, nil
}

func (s *customerServiceImpl) UpdateCustomer(ctx context.Context, id int64, req domain.UpsertCustomerRequest) (*domain.Customer, error) {
	cu, err := s.repo.GetCustomerByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cu.Name = req.Name
	cu.ContactName = req.ContactName
	cu.Country = req.Country
	if err := s.repo.UpdateCustomer(ctx, cu); err != nil {
		logger.Error("Svc.UpdateCustomer: repo error", err, map[string]interface{}{"customer_id": id})
		return nil, err
	}
	return cu, nil
}

func (s *customerServiceImpl) DeleteCustomer(ctx context.Context, id int64) error {
	return s.repo.DeleteCustomerByID(ctx, id)
}

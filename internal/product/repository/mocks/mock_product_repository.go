package mocks

import (
	"context"

	"github.com/ridloal/e-commerce-order-api/internal/product/domain"
	"github.com/ridloal/e-commerce-order-api/internal/product/repository"
	"github.com/stretchr/testify/mock"
)

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if p := args.Get(0); p != nil {
		return p.([]domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) CreateProduct(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	if product != nil && args.Error(0) == nil {
		product.ID = 11 // ID dari mock
	}
	return args.Error(0)
}

func (m *MockProductRepository) UpdateProduct(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) DeleteProductByID(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) DecrementStock(ctx context.Context, dbops repository.DBTX, productID int64, quantity int) (bool, error) {
	args := m.Called(ctx, dbops, productID, quantity)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) IncreaseStock(ctx context.Context, productID int64, quantity int) error {
	args := m.Called(ctx, productID, quantity)
	return args.Error(0)
}

func (m *MockProductRepository) TopProductsByQuarter(ctx context.Context, startMonth, endMonth int) ([]domain.ProductSales, error) {
	args := m.Called(ctx, startMonth, endMonth)
	if s := args.Get(0); s != nil {
		return s.([]domain.ProductSales), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) ProductsNeverOrdered(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if s := args.Get(0); s != nil {
		return s.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

package mocks

import (
	"context"

	productDomain "github.com/ridloal/e-commerce-order-api/internal/product/domain"
	productRepo "github.com/ridloal/e-commerce-order-api/internal/product/repository"
	"github.com/stretchr/testify/mock"
)

type MockCatalogStore struct {
	mock.Mock
}

func (m *MockCatalogStore) GetProductByID(ctx context.Context, id int64) (*productDomain.Product, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*productDomain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogStore) DecrementStock(ctx context.Context, dbops productRepo.DBTX, productID int64, quantity int) (bool, error) {
	args := m.Called(ctx, dbops, productID, quantity)
	return args.Bool(0), args.Error(1)
}

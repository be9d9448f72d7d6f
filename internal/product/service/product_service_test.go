package service

import (
	"context"
	"testing"

	"github.com/ridloal/e-commerce-order-api/internal/product/domain"
	"github.com/ridloal/e-commerce-order-api/internal/product/repository"
	"github.com/ridloal/e-commerce-order-api/internal/product/repository/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestProductService_CreateProduct(t *testing.T) {
	ctx := context.TODO()

	mockRepo := new(mocks.MockProductRepository)
	svc := NewProductService(mockRepo)
	mockRepo.On("CreateProduct", ctx, mock.AnythingOfType("*domain.Product")).Return(nil).Once()

	product, err := svc.CreateProduct(ctx, domain.CreateProductRequest{
		Name:          "Kopi Gayo",
		UnitPrice:     500,
		StockQuantity: 10,
	})

	assert.NoError(t, err)
	assert.NotNil(t, product)
	assert.Equal(t, int64(11), product.ID) // ID di-set oleh mock
	assert.Equal(t, "Kopi Gayo", product.Name)
	mockRepo.AssertExpectations(t)
}

func TestProductService_AddStock(t *testing.T) {
	ctx := context.TODO()

	t.Run("Successful restock", func(t *testing.T) {
		mockRepo := new(mocks.MockProductRepository)
		svc := NewProductService(mockRepo)
		mockRepo.On("IncreaseStock", ctx, int64(1), 5).Return(nil).Once()
		mockRepo.On("GetProductByID", ctx, int64(1)).
			Return(&domain.Product{ID: 1, Name: "Kopi Gayo", StockQuantity: 15}, nil).Once()

		product, err := svc.AddStock(ctx, 1, domain.AddStockRequest{Quantity: 5})

		assert.NoError(t, err)
		assert.Equal(t, 15, product.StockQuantity)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Non-positive amount is rejected", func(t *testing.T) {
		mockRepo := new(mocks.MockProductRepository)
		svc := NewProductService(mockRepo)

		product, err := svc.AddStock(ctx, 1, domain.AddStockRequest{Quantity: 0})

		assert.Nil(t, product)
		assert.ErrorIs(t, err, ErrInvalidStockAmount)
		mockRepo.AssertNotCalled(t, "IncreaseStock")
	})

	t.Run("Unknown product", func(t *testing.T) {
		mockRepo := new(mocks.MockProductRepository)
		svc := NewProductService(mockRepo)
		mockRepo.On("IncreaseStock", ctx, int64(99), 5).Return(repository.ErrProductNotFound).Once()

		product, err := svc.AddStock(ctx, 99, domain.AddStockRequest{Quantity: 5})

		assert.Nil(t, product)
		assert.ErrorIs(t, err, repository.ErrProductNotFound)
	})
}

func TestProductService_TopProductsByQuarter(t *testing.T) {
	ctx := context.TODO()

	t.Run("Valid range delegates to repo", func(t *testing.T) {
		mockRepo := new(mocks.MockProductRepository)
		svc := NewProductService(mockRepo)
		expected := []domain.ProductSales{{ProductName: "Kopi Gayo", TotalSales: 42}}
		mockRepo.On("TopProductsByQuarter", ctx, 1, 3).Return(expected, nil).Once()

		sales, err := svc.TopProductsByQuarter(ctx, 1, 3)

		assert.NoError(t, err)
		assert.Equal(t, expected, sales)
	})

	t.Run("Invalid range is rejected", func(t *testing.T) {
		mockRepo := new(mocks.MockProductRepository)
		svc := NewProductService(mockRepo)

		_, err := svc.TopProductsByQuarter(ctx, 4, 2)

		assert.Error(t, err)
		mockRepo.AssertNotCalled(t, "TopProductsByQuarter")
	})
}

package service

import (
	"context"
	"errors"

	"github.com/ridloal/e-commerce-order-api/internal/platform/logger"
	"github.com/ridloal/e-commerce-order-api/internal/product/domain"
	"github.com/ridloal/e-commerce-order-api/internal/product/repository"
)

var ErrInvalidStockAmount = errors.New("stock amount must be positive")

type ProductService interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProductDetails(ctx context.Context, productID int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error)
	UpdateProduct(ctx context.Context, productID int64, req domain.UpdateProductRequest) (*domain.Product, error)
	DeleteProduct(ctx context.Context, productID int64) error
	AddStock(ctx context.Context, productID int64, req domain.AddStockRequest) (*domain.Product, error)

	TopProductsByQuarter(ctx context.Context, startMonth, endMonth int) ([]domain.ProductSales, error)
	ProductsNeverOrdered(ctx context.Context) ([]string, error)
}

type productServiceImpl struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productServiceImpl{repo: repo}
}

func (s *productServiceImpl) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *productServiceImpl) GetProductDetails(ctx context.Context, productID int64) (*domain.Product, error) {
	return s.repo.GetProductByID(ctx, productID)
}

func (s *productServiceImpl) CreateProduct(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error) {
	p := &domain.Product{
		Name:          req.Name,
		UnitPrice:     req.UnitPrice,
		StockQuantity: req.StockQuantity,
	}
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		logger.Error("Svc.CreateProduct: repo error", err, nil)
		return nil, err
	}
	return p, nil
}

func (s *productServiceImpl) UpdateProduct(ctx context.Context, productID int64, req domain.UpdateProductRequest) (*domain.Product, error) {
	p, err := s.repo.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	p.Name = req.Name
	p.UnitPrice = req.UnitPrice
	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		logger.Error("Svc.UpdateProduct: repo error", err, map[string]interface{}{"product_id": productID})
		return nil, err
	}
	return p, nil
}

func (s *productServiceImpl) DeleteProduct(ctx context.Context, productID int64) error {
	return s.repo.DeleteProductByID(ctx, productID)
}

// AddStock menambah stok (restock/admin). Pengurangan hanya lewat order placement.
func (s *productServiceImpl) AddStock(ctx context.Context, productID int64, req domain.AddStockRequest) (*domain.Product, error) {
	if req.Quantity <= 0 {
		return nil, ErrInvalidStockAmount
	}
	if err := s.repo.IncreaseStock(ctx, productID, req.Quantity); err != nil {
		logger.Error("Svc.AddStock: repo error", err, map[string]interface{}{"product_id": productID})
		return nil, err
	}
	return s.repo.GetProductByID(ctx, productID)
}

func (s *productServiceImpl) TopProductsByQuarter(ctx context.Context, startMonth, endMonth int) ([]domain.ProductSales, error) {
	if startMonth < 1 || endMonth > 12 || startMonth > endMonth {
		return nil, errors.New("invalid month range")
	}
	return s.repo.TopProductsByQuarter(ctx, startMonth, endMonth)
}

func (s *productServiceImpl) ProductsNeverOrdered(ctx context.Context) ([]string, error) {
	return s.repo.ProductsNeverOrdered(ctx)
}

package mocks

import (
	"context"

	"github.com/ridloal/e-commerce-order-api/internal/order/domain"
	"github.com/ridloal/e-commerce-order-api/internal/order/repository"
	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) BeginTx(ctx context.Context) (repository.DBTX, error) {
	args := m.Called(ctx)
	if tx := args.Get(0); tx != nil {
		return tx.(repository.DBTX), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) InsertOrderWithLines(ctx context.Context, dbops repository.DBTX, order *domain.Order, lines []domain.OrderLine) error {
	args := m.Called(ctx, dbops, order, lines)
	if order != nil && args.Error(0) == nil {
		order.ID = 42 // ID dari mock
		order.Lines = lines
	}
	return args.Error(0)
}

func (m *MockOrderRepository) GetOrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if o := args.Get(0); o != nil {
		return o.(*domain.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) ListOrders(ctx context.Context, limit, offset int) ([]domain.Order, error) {
	args := m.Called(ctx, limit, offset)
	if o := args.Get(0); o != nil {
		return o.([]domain.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) ListOrdersByCustomerID(ctx context.Context, customerID int64) ([]domain.Order, error) {
	args := m.Called(ctx, customerID)
	if o := args.Get(0); o != nil {
		return o.([]domain.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) DeleteOrderByID(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderRepository) ListOrdersWithCustomerInfo(ctx context.Context) ([]domain.OrderCustomerInfo, error) {
	args := m.Called(ctx)
	if o := args.Get(0); o != nil {
		return o.([]domain.OrderCustomerInfo), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) ListOrderDatesForMonth(ctx context.Context, year, month int) ([]string, error) {
	args := m.Called(ctx, year, month)
	if o := args.Get(0); o != nil {
		return o.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) ListOrderDayCounts(ctx context.Context) ([]domain.OrderDayCount, error) {
	args := m.Called(ctx)
	if o := args.Get(0); o != nil {
		return o.([]domain.OrderDayCount), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) CustomerRankingByYear(ctx context.Context) ([]domain.CustomerSalesRank, error) {
	args := m.Called(ctx)
	if o := args.Get(0); o != nil {
		return o.([]domain.CustomerSalesRank), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) OrderTotals(ctx context.Context) ([]domain.OrderTotal, error) {
	args := m.Called(ctx)
	if o := args.Get(0); o != nil {
		return o.([]domain.OrderTotal), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) TotalAmountByCountry(ctx context.Context) ([]domain.CountrySales, error) {
	args := m.Called(ctx)
	if o := args.Get(0); o != nil {
		return o.([]domain.CountrySales), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) OrdersWithTotalAmountGreaterThan(ctx context.Context, threshold int64) ([]domain.OrderSummary, error) {
	args := m.Called(ctx, threshold)
	if o := args.Get(0); o != nil {
		return o.([]domain.OrderSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) OrdersAboveAverageTotal(ctx context.Context) ([]domain.OrderSummary, error) {
	args := m.Called(ctx)
	if o := args.Get(0); o != nil {
		return o.([]domain.OrderSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

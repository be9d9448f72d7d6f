package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ridloal/e-commerce-order-api/internal/order/domain"
	repoMocks "github.com/ridloal/e-commerce-order-api/internal/order/repository/mocks"
	svcMocks "github.com/ridloal/e-commerce-order-api/internal/order/service/mocks"
	productDomain "github.com/ridloal/e-commerce-order-api/internal/product/domain"
	productRepo "github.com/ridloal/e-commerce-order-api/internal/product/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestOrderService() (*repoMocks.MockOrderRepository, *svcMocks.MockCatalogStore, *svcMocks.MockCustomerDirectory, *svcMocks.MockShipperDirectory, OrderService) {
	mockOrderRepo := new(repoMocks.MockOrderRepository)
	mockCatalog := new(svcMocks.MockCatalogStore)
	mockCustomers := new(svcMocks.MockCustomerDirectory)
	mockShippers := new(svcMocks.MockShipperDirectory)
	svc := NewOrderService(mockOrderRepo, mockCatalog, mockCustomers, mockShippers)
	return mockOrderRepo, mockCatalog, mockCustomers, mockShippers, svc
}

func TestOrderService_PlaceOrder(t *testing.T) {
	ctx := context.TODO()

	t.Run("Successful order placement captures price and decrements stock", func(t *testing.T) {
		mockOrderRepo, mockCatalog, mockCustomers, mockShippers, svc := newTestOrderService()
		mockTx := new(repoMocks.MockDBTX)

		mockCustomers.On("CustomerExists", ctx, int64(1)).Return(true, nil).Once()
		mockCatalog.On("GetProductByID", ctx, int64(7)).
			Return(&productDomain.Product{ID: 7, Name: "Kopi Gayo", UnitPrice: 500, StockQuantity: 10}, nil).Once()
		mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil).Once()
		mockOrderRepo.On("InsertOrderWithLines", ctx, mockTx,
			mock.AnythingOfType("*domain.Order"), mock.AnythingOfType("[]domain.OrderLine")).Return(nil).Once()
		mockCatalog.On("DecrementStock", ctx, mockTx, int64(7), 3).Return(true, nil).Once()
		mockTx.On("Commit").Return(nil).Once()
		mockTx.On("Rollback").Return(nil)

		resp, err := svc.PlaceOrder(ctx, domain.PlaceOrderRequest{
			CustomerID: 1,
			Lines:      []domain.PlaceOrderLineRequest{{ProductID: 7, Quantity: 3}},
		})

		assert.NoError(t, err)
		assert.NotNil(t, resp)
		assert.Equal(t, int64(42), resp.ID) // ID dari mock
		assert.Equal(t, domain.StatusPlaced, resp.Status)
		assert.Equal(t, int64(1500), resp.TotalAmount)
		if assert.Len(t, resp.Lines, 1) {
			assert.Equal(t, int64(7), resp.Lines[0].ProductID)
			assert.Equal(t, 3, resp.Lines[0].Quantity)
			assert.Equal(t, int64(500), resp.Lines[0].UnitPriceAtPurchase)
		}
		mockShippers.AssertNotCalled(t, "ShipperExists")
		mockOrderRepo.AssertExpectations(t)
		mockCatalog.AssertExpectations(t)
		mockTx.AssertExpectations(t)
	})

	t.Run("Insufficient stock at validation, store never mutated", func(t *testing.T) {
		mockOrderRepo, mockCatalog, mockCustomers, _, svc := newTestOrderService()

		mockCustomers.On("CustomerExists", ctx, int64(1)).Return(true, nil).Once()
		mockCatalog.On("GetProductByID", ctx, int64(7)).
			Return(&productDomain.Product{ID: 7, UnitPrice: 500, StockQuantity: 2}, nil).Once()

		resp, err := svc.PlaceOrder(ctx, domain.PlaceOrderRequest{
			CustomerID: 1,
			Lines:      []domain.PlaceOrderLineRequest{{ProductID: 7, Quantity: 5}},
		})

		assert.Nil(t, resp)
		var stockErr *InsufficientStockError
		if assert.ErrorAs(t, err, &stockErr) {
			assert.Equal(t, int64(7), stockErr.ProductID)
			assert.Equal(t, 5, stockErr.Requested)
			assert.Equal(t, 2, stockErr.Available)
		}
		mockOrderRepo.AssertNotCalled(t, "BeginTx")
		mockCatalog.AssertNotCalled(t, "DecrementStock")
	})

	t.Run("Duplicate lines for same product are validated cumulatively", func(t *testing.T) {
		mockOrderRepo, mockCatalog, mockCustomers, _, svc := newTestOrderService()

		mockCustomers.On("CustomerExists", ctx, int64(1)).Return(true, nil).Once()
		mockCatalog.On("GetProductByID", ctx, int64(7)).
			Return(&productDomain.Product{ID: 7, UnitPrice: 500, StockQuantity: 10}, nil).Twice()

		resp, err := svc.PlaceOrder(ctx, domain.PlaceOrderRequest{
			CustomerID: 1,
			Lines: []domain.PlaceOrderLineRequest{
				{ProductID: 7, Quantity: 6},
				{ProductID: 7, Quantity: 6},
			},
		})

		assert.Nil(t, resp)
		var stockErr *InsufficientStockError
		if assert.ErrorAs(t, err, &stockErr) {
			assert.Equal(t, 12, stockErr.Requested)
			assert.Equal(t, 10, stockErr.Available)
		}
		mockOrderRepo.AssertNotCalled(t, "BeginTx")
	})

	t.Run("Unknown product fails whole order before any mutation", func(t *testing.T) {
		mockOrderRepo, mockCatalog, mockCustomers, _, svc := newTestOrderService()

		mockCustomers.On("CustomerExists", ctx, int64(1)).Return(true, nil).Once()
		mockCatalog.On("GetProductByID", ctx, int64(7)).
			Return(&productDomain.Product{ID: 7, UnitPrice: 500, StockQuantity: 10}, nil).Once()
		mockCatalog.On("GetProductByID", ctx, int64(99)).
			Return(nil, productRepo.ErrProductNotFound).Once()

		resp, err := svc.PlaceOrder(ctx, domain.PlaceOrderRequest{
			CustomerID: 1,
			Lines: []domain.PlaceOrderLineRequest{
				{ProductID: 7, Quantity: 1},
				{ProductID: 99, Quantity: 1},
			},
		})

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, ErrProductNotFound)
		assert.Contains(t, err.Error(), "product_id 99")
		mockOrderRepo.AssertNotCalled(t, "BeginTx")
		mockCatalog.AssertNotCalled(t, "DecrementStock")
	})

	t.Run("Unknown customer fails before catalog reads", func(t *testing.T) {
		mockOrderRepo, mockCatalog, mockCustomers, _, svc := newTestOrderService()

		mockCustomers.On("CustomerExists", ctx, int64(999)).Return(false, nil).Once()

		resp, err := svc.PlaceOrder(ctx, domain.PlaceOrderRequest{
			CustomerID: 999,
			Lines:      []domain.PlaceOrderLineRequest{{ProductID: 7, Quantity: 1}},
		})

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, ErrCustomerNotFound)
		mockCatalog.AssertNotCalled(t, "GetProductByID")
		mockOrderRepo.AssertNotCalled(t, "BeginTx")
	})

	t.Run("Unknown shipper fails before catalog reads", func(t *testing.T) {
		mockOrderRepo, mockCatalog, mockCustomers, mockShippers, svc := newTestOrderService()

		shipperID := int64(5)
		mockCustomers.On("CustomerExists", ctx, int64(1)).Return(true, nil).Once()
		mockShippers.On("ShipperExists", ctx, shipperID).Return(false, nil).Once()

		resp, err := svc.PlaceOrder(ctx, domain.PlaceOrderRequest{
			CustomerID: 1,
			ShipperID:  &shipperID,
			Lines:      []domain.PlaceOrderLineRequest{{ProductID: 7, Quantity: 1}},
		})

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, ErrShipperNotFound)
		mockCatalog.AssertNotCalled(t, "GetProductByID")
		mockOrderRepo.AssertNotCalled(t, "BeginTx")
	})

	t.Run("Validation failure never touches any store", func(t *testing.T) {
		cases := []struct {
			name string
			req  domain.PlaceOrderRequest
		}{
			{"empty lines", domain.PlaceOrderRequest{CustomerID: 1}},
			{"zero quantity", domain.PlaceOrderRequest{
				CustomerID: 1,
				Lines:      []domain.PlaceOrderLineRequest{{ProductID: 7, Quantity: 0}},
			}},
			{"missing customer id", domain.PlaceOrderRequest{
				Lines: []domain.PlaceOrderLineRequest{{ProductID: 7, Quantity: 1}},
			}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				mockOrderRepo, mockCatalog, mockCustomers, _, svc := newTestOrderService()

				resp, err := svc.PlaceOrder(ctx, tc.req)

				assert.Nil(t, resp)
				assert.ErrorIs(t, err, ErrInvalidOrderRequest)
				mockCustomers.AssertNotCalled(t, "CustomerExists")
				mockCatalog.AssertNotCalled(t, "GetProductByID")
				mockOrderRepo.AssertNotCalled(t, "BeginTx")
			})
		}
	})

	t.Run("Late race on conditional decrement rolls back whole unit of work", func(t *testing.T) {
		mockOrderRepo, mockCatalog, mockCustomers, _, svc := newTestOrderService()
		mockTx := new(repoMocks.MockDBTX)

		mockCustomers.On("CustomerExists", ctx, int64(1)).Return(true, nil).Once()
		// Validasi lolos dengan stok 10...
		mockCatalog.On("GetProductByID", ctx, int64(7)).
			Return(&productDomain.Product{ID: 7, UnitPrice: 500, StockQuantity: 10}, nil).Once()
		mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil).Once()
		mockOrderRepo.On("InsertOrderWithLines", ctx, mockTx,
			mock.AnythingOfType("*domain.Order"), mock.AnythingOfType("[]domain.OrderLine")).Return(nil).Once()
		// ...tapi pembeli lain sudah menghabiskannya sebelum decrement.
		mockCatalog.On("DecrementStock", ctx, mockTx, int64(7), 6).Return(false, nil).Once()
		mockCatalog.On("GetProductByID", ctx, int64(7)).
			Return(&productDomain.Product{ID: 7, UnitPrice: 500, StockQuantity: 4}, nil).Once()
		mockTx.On("Rollback").Return(nil)

		resp, err := svc.PlaceOrder(ctx, domain.PlaceOrderRequest{
			CustomerID: 1,
			Lines:      []domain.PlaceOrderLineRequest{{ProductID: 7, Quantity: 6}},
		})

		assert.Nil(t, resp)
		var stockErr *InsufficientStockError
		if assert.ErrorAs(t, err, &stockErr) {
			assert.Equal(t, int64(7), stockErr.ProductID)
			assert.Equal(t, 6, stockErr.Requested)
			assert.Equal(t, 4, stockErr.Available)
		}
		mockTx.AssertNotCalled(t, "Commit")
		mockTx.AssertCalled(t, "Rollback")
		mockCatalog.AssertExpectations(t)
	})

	t.Run("Repository failure surfaces as order creation failure", func(t *testing.T) {
		mockOrderRepo, mockCatalog, mockCustomers, _, svc := newTestOrderService()
		mockTx := new(repoMocks.MockDBTX)

		repoErr := errors.New("db connection lost")
		mockCustomers.On("CustomerExists", ctx, int64(1)).Return(true, nil).Once()
		mockCatalog.On("GetProductByID", ctx, int64(7)).
			Return(&productDomain.Product{ID: 7, UnitPrice: 500, StockQuantity: 10}, nil).Once()
		mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil).Once()
		mockOrderRepo.On("InsertOrderWithLines", ctx, mockTx,
			mock.AnythingOfType("*domain.Order"), mock.AnythingOfType("[]domain.OrderLine")).Return(repoErr).Once()
		mockTx.On("Rollback").Return(nil)

		resp, err := svc.PlaceOrder(ctx, domain.PlaceOrderRequest{
			CustomerID: 1,
			Lines:      []domain.PlaceOrderLineRequest{{ProductID: 7, Quantity: 1}},
		})

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, ErrOrderCreationFailed)
		assert.Contains(t, err.Error(), repoErr.Error())
		mockTx.AssertNotCalled(t, "Commit")
	})

	t.Run("Decrements run in ascending product id order", func(t *testing.T) {
		mockOrderRepo, mockCatalog, mockCustomers, _, svc := newTestOrderService()
		mockTx := new(repoMocks.MockDBTX)

		mockCustomers.On("CustomerExists", ctx, int64(1)).Return(true, nil).Once()
		mockCatalog.On("GetProductByID", ctx, int64(9)).
			Return(&productDomain.Product{ID: 9, UnitPrice: 100, StockQuantity: 5}, nil).Once()
		mockCatalog.On("GetProductByID", ctx, int64(3)).
			Return(&productDomain.Product{ID: 3, UnitPrice: 200, StockQuantity: 5}, nil).Once()
		mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil).Once()
		mockOrderRepo.On("InsertOrderWithLines", ctx, mockTx,
			mock.AnythingOfType("*domain.Order"), mock.AnythingOfType("[]domain.OrderLine")).Return(nil).Once()

		var decremented []int64
		mockCatalog.On("DecrementStock", ctx, mockTx, mock.AnythingOfType("int64"), 1).
			Run(func(args mock.Arguments) {
				decremented = append(decremented, args.Get(2).(int64))
			}).Return(true, nil).Twice()
		mockTx.On("Commit").Return(nil).Once()
		mockTx.On("Rollback").Return(nil)

		// Caller mengirim 9 dulu baru 3; locking order harus 3 lalu 9.
		resp, err := svc.PlaceOrder(ctx, domain.PlaceOrderRequest{
			CustomerID: 1,
			Lines: []domain.PlaceOrderLineRequest{
				{ProductID: 9, Quantity: 1},
				{ProductID: 3, Quantity: 1},
			},
		})

		assert.NoError(t, err)
		assert.NotNil(t, resp)
		assert.Equal(t, []int64{3, 9}, decremented)
		// Lines tetap dalam urutan request caller.
		if assert.Len(t, resp.Lines, 2) {
			assert.Equal(t, int64(9), resp.Lines[0].ProductID)
			assert.Equal(t, int64(3), resp.Lines[1].ProductID)
		}
	})
}

func TestOrderService_DaysWithoutOrdersForMonth(t *testing.T) {
	ctx := context.TODO()

	t.Run("Returns only days without orders", func(t *testing.T) {
		mockOrderRepo, _, _, _, svc := newTestOrderService()
		mockOrderRepo.On("ListOrderDatesForMonth", ctx, 2024, 2).
			Return([]string{"2024-02-01", "2024-02-15", "2024-02-29"}, nil).Once()

		days, err := svc.DaysWithoutOrdersForMonth(ctx, 2024, 2)

		assert.NoError(t, err)
		assert.Len(t, days, 26) // Feb 2024 punya 29 hari, 3 di antaranya ber-order
		for _, d := range days {
			assert.NotEqual(t, "2024-02-01", d.Date)
			assert.NotEqual(t, "2024-02-15", d.Date)
			assert.NotEqual(t, "2024-02-29", d.Date)
			assert.Equal(t, 2, d.Month)
			assert.Equal(t, 2024, d.Year)
		}
	})

	t.Run("Rejects invalid month", func(t *testing.T) {
		mockOrderRepo, _, _, _, svc := newTestOrderService()

		_, err := svc.DaysWithoutOrdersForMonth(ctx, 2024, 13)

		assert.ErrorIs(t, err, ErrInvalidOrderRequest)
		mockOrderRepo.AssertNotCalled(t, "ListOrderDatesForMonth")
	})
}

func TestOrderService_SecondHighestOrderDayPerMonth(t *testing.T) {
	ctx := context.TODO()
	mockOrderRepo, _, _, _, svc := newTestOrderService()

	mockOrderRepo.On("ListOrderDayCounts", ctx).Return([]domain.OrderDayCount{
		{Date: "2024-01-03", OrderCount: 5, Month: 1, Year: 2024},
		{Date: "2024-01-10", OrderCount: 9, Month: 1, Year: 2024},
		{Date: "2024-01-21", OrderCount: 2, Month: 1, Year: 2024},
		{Date: "2024-02-02", OrderCount: 4, Month: 2, Year: 2024}, // hanya satu hari, dilewati
	}, nil).Once()

	result, err := svc.SecondHighestOrderDayPerMonth(ctx)

	assert.NoError(t, err)
	if assert.Len(t, result, 1) {
		assert.Equal(t, "2024-01-03", result[0].Date)
		assert.Equal(t, 5, result[0].OrderCount)
	}
}

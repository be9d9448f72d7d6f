package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ridloal/e-commerce-order-api/internal/order/domain"
	"github.com/ridloal/e-commerce-order-api/internal/order/repository"
	"github.com/ridloal/e-commerce-order-api/internal/platform/logger"
	productDomain "github.com/ridloal/e-commerce-order-api/internal/product/domain"
	productRepo "github.com/ridloal/e-commerce-order-api/internal/product/repository"
)

var (
	ErrInvalidOrderRequest = errors.New("invalid order request")
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrShipperNotFound     = errors.New("shipper not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrOrderCreationFailed = errors.New("order creation failed")
)

// InsufficientStockError membawa detail supaya caller bisa menampilkan
// "product X: only N left, requested M".
type InsufficientStockError struct {
	ProductID int64
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// CatalogStore adalah boundary ke katalog produk. DecrementStock menerima DBTX
// supaya pengurangan stok ikut transaksi yang sama dengan insert order.
type CatalogStore interface {
	GetProductByID(ctx context.Context, id int64) (*productDomain.Product, error)
	DecrementStock(ctx context.Context, dbops productRepo.DBTX, productID int64, quantity int) (bool, error)
}

type CustomerDirectory interface {
	CustomerExists(ctx context.Context, id int64) (bool, error)
}

type ShipperDirectory interface {
	ShipperExists(ctx context.Context, id int64) (bool, error)
}

type OrderService interface {
	PlaceOrder(ctx context.Context, req domain.PlaceOrderRequest) (*domain.PlaceOrderResponse, error)

	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	ListOrders(ctx context.Context, limit, offset int) ([]domain.Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID int64) ([]domain.Order, error)
	DeleteOrder(ctx context.Context, id int64) error

	OrdersWithCustomerInfo(ctx context.Context) ([]domain.OrderCustomerInfo, error)
	DaysWithoutOrdersForMonth(ctx context.Context, year, month int) ([]domain.DayWithoutOrders, error)
	SecondHighestOrderDayPerMonth(ctx context.Context) ([]domain.OrderDayCount, error)
	CustomerRankingByYear(ctx context.Context) ([]domain.CustomerSalesRank, error)
	OrderTotals(ctx context.Context) ([]domain.OrderTotal, error)
	TotalAmountByCountry(ctx context.Context) ([]domain.CountrySales, error)
	OrdersWithTotalAmountGreaterThan(ctx context.Context, threshold int64) ([]domain.OrderSummary, error)
	OrdersAboveAverage(ctx context.Context) ([]domain.OrderSummary, error)
}

type orderServiceImpl struct {
	orderRepo repository.OrderRepository
	catalog   CatalogStore
	customers CustomerDirectory
	shippers  ShipperDirectory
}

func NewOrderService(or repository.OrderRepository, catalog CatalogStore, customers CustomerDirectory, shippers ShipperDirectory) OrderService {
	return &orderServiceImpl{
		orderRepo: or,
		catalog:   catalog,
		customers: customers,
		shippers:  shippers,
	}
}

// PlaceOrder memvalidasi SEMUA line dulu (tanpa mutasi apa pun), lalu menulis
// order + lines + pengurangan stok dalam SATU transaksi. Pengurangan stok
// memakai conditional decrement, jadi race antara validasi dan commit
// terdeteksi di UPDATE dan seluruh transaksi di-rollback: tidak pernah oversell,
// tidak pernah ada partial order.
func (s *orderServiceImpl) PlaceOrder(ctx context.Context, req domain.PlaceOrderRequest) (*domain.PlaceOrderResponse, error) {
	if err := validatePlaceOrderRequest(req); err != nil {
		return nil, err
	}

	exists, err := s.customers.CustomerExists(ctx, req.CustomerID)
	if err != nil {
		logger.Error("PlaceOrder: customer lookup failed", err, map[string]interface{}{"customer_id": req.CustomerID})
		return nil, fmt.Errorf("%w: %v", ErrOrderCreationFailed, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: customer_id %d", ErrCustomerNotFound, req.CustomerID)
	}

	if req.ShipperID != nil {
		exists, err := s.shippers.ShipperExists(ctx, *req.ShipperID)
		if err != nil {
			logger.Error("PlaceOrder: shipper lookup failed", err, map[string]interface{}{"shipper_id": *req.ShipperID})
			return nil, fmt.Errorf("%w: %v", ErrOrderCreationFailed, err)
		}
		if !exists {
			return nil, fmt.Errorf("%w: shipper_id %d", ErrShipperNotFound, *req.ShipperID)
		}
	}

	// Tahap validasi & pricing: baca semua produk, kunci harga, cek ketersediaan.
	// Harga dari client tidak pernah dipercaya.
	lines := make([]domain.OrderLine, len(req.Lines))
	requestedPerProduct := make(map[int64]int)
	availablePerProduct := make(map[int64]int)
	var totalAmount int64

	for i, lineReq := range req.Lines {
		p, err := s.catalog.GetProductByID(ctx, lineReq.ProductID)
		if err != nil {
			if errors.Is(err, productRepo.ErrProductNotFound) {
				return nil, fmt.Errorf("%w: product_id %d", ErrProductNotFound, lineReq.ProductID)
			}
			logger.Error("PlaceOrder: product lookup failed", err, map[string]interface{}{"product_id": lineReq.ProductID})
			return nil, fmt.Errorf("%w: %v", ErrOrderCreationFailed, err)
		}

		// Akumulasi per produk supaya dua line untuk produk yang sama
		// tidak lolos validasi padahal totalnya melebihi stok.
		requestedPerProduct[p.ID] += lineReq.Quantity
		availablePerProduct[p.ID] = p.StockQuantity
		if requestedPerProduct[p.ID] > p.StockQuantity {
			return nil, &InsufficientStockError{
				ProductID: p.ID,
				Requested: requestedPerProduct[p.ID],
				Available: p.StockQuantity,
			}
		}

		lines[i] = domain.OrderLine{
			ProductID:           p.ID,
			Quantity:            lineReq.Quantity,
			UnitPriceAtPurchase: p.UnitPrice,
		}
		totalAmount += int64(lineReq.Quantity) * p.UnitPrice
	}

	newOrder := &domain.Order{
		CustomerID:  req.CustomerID,
		ShipperID:   req.ShipperID,
		Status:      domain.StatusPlaced,
		TotalAmount: totalAmount,
	}

	// Unit of work: insert order + lines + decrement stok, atau tidak sama sekali.
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("PlaceOrder: begin tx failed", err, nil)
		return nil, fmt.Errorf("%w: %v", ErrOrderCreationFailed, err)
	}
	defer tx.Rollback() // Rollback jika tidak di-commit

	if err := s.orderRepo.InsertOrderWithLines(ctx, tx, newOrder, lines); err != nil {
		logger.Error("PlaceOrder: failed to insert order with lines", err, nil)
		return nil, fmt.Errorf("%w: %v", ErrOrderCreationFailed, err)
	}

	// Decrement selalu dalam urutan product id naik; dua order yang menyentuh
	// produk yang sama mengambil row lock dengan urutan sama (anti deadlock).
	decrementOrder := make([]domain.OrderLine, len(lines))
	copy(decrementOrder, lines)
	sort.Slice(decrementOrder, func(i, j int) bool {
		return decrementOrder[i].ProductID < decrementOrder[j].ProductID
	})

	for _, line := range decrementOrder {
		applied, err := s.catalog.DecrementStock(ctx, tx, line.ProductID, line.Quantity)
		if err != nil {
			logger.Error("PlaceOrder: stock decrement failed", err, map[string]interface{}{"product_id": line.ProductID})
			return nil, fmt.Errorf("%w: %v", ErrOrderCreationFailed, err)
		}
		if !applied {
			// Race terdeteksi: pembeli lain menghabiskan stok di antara validasi
			// dan decrement. Transaksi di-rollback lewat defer.
			available := availablePerProduct[line.ProductID]
			if p, rerr := s.catalog.GetProductByID(ctx, line.ProductID); rerr == nil {
				available = p.StockQuantity
			}
			return nil, &InsufficientStockError{
				ProductID: line.ProductID,
				Requested: line.Quantity,
				Available: available,
			}
		}
	}

	if err := tx.Commit(); err != nil {
		logger.Error("PlaceOrder: commit tx failed", err, nil)
		return nil, fmt.Errorf("%w: %v", ErrOrderCreationFailed, err)
	}

	return &domain.PlaceOrderResponse{Order: *newOrder}, nil
}

func validatePlaceOrderRequest(req domain.PlaceOrderRequest) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customer_id is required", ErrInvalidOrderRequest)
	}
	if len(req.Lines) == 0 {
		return fmt.Errorf("%w: order must contain at least one line", ErrInvalidOrderRequest)
	}
	for _, line := range req.Lines {
		if line.ProductID <= 0 {
			return fmt.Errorf("%w: product_id is required", ErrInvalidOrderRequest)
		}
		if line.Quantity <= 0 {
			return fmt.Errorf("%w: quantity must be positive for product_id %d", ErrInvalidOrderRequest, line.ProductID)
		}
	}
	return nil
}

// --- Read paths ---

func (s *orderServiceImpl) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return s.orderRepo.GetOrderByID(ctx, id)
}

func (s *orderServiceImpl) ListOrders(ctx context.Context, limit, offset int) ([]domain.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.orderRepo.ListOrders(ctx, limit, offset)
}

func (s *orderServiceImpl) ListOrdersByCustomer(ctx context.Context, customerID int64) ([]domain.Order, error) {
	return s.orderRepo.ListOrdersByCustomerID(ctx, customerID)
}

func (s *orderServiceImpl) DeleteOrder(ctx context.Context, id int64) error {
	return s.orderRepo.DeleteOrderByID(ctx, id)
}

// --- Reports ---

func (s *orderServiceImpl) OrdersWithCustomerInfo(ctx context.Context) ([]domain.OrderCustomerInfo, error) {
	return s.orderRepo.ListOrdersWithCustomerInfo(ctx)
}

// DaysWithoutOrdersForMonth membangun daftar semua tanggal di bulan tsb lalu
// membuang tanggal yang punya order.
func (s *orderServiceImpl) DaysWithoutOrdersForMonth(ctx context.Context, year, month int) ([]domain.DayWithoutOrders, error) {
	if month < 1 || month > 12 || year < 1 {
		return nil, fmt.Errorf("%w: invalid year/month", ErrInvalidOrderRequest)
	}

	orderDates, err := s.orderRepo.ListOrderDatesForMonth(ctx, year, month)
	if err != nil {
		return nil, err
	}
	hasOrder := make(map[string]struct{}, len(orderDates))
	for _, d := range orderDates {
		hasOrder[d] = struct{}{}
	}

	daysInMonth := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	var days []domain.DayWithoutOrders
	for day := 1; day <= daysInMonth; day++ {
		date := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
		if _, ok := hasOrder[date]; ok {
			continue
		}
		days = append(days, domain.DayWithoutOrders{Date: date, Month: month, Year: year})
	}
	return days, nil
}

// SecondHighestOrderDayPerMonth mengambil hari dengan jumlah order tertinggi
// kedua di tiap bulan; bulan dengan satu hari ber-order dilewati.
func (s *orderServiceImpl) SecondHighestOrderDayPerMonth(ctx context.Context) ([]domain.OrderDayCount, error) {
	counts, err := s.orderRepo.ListOrderDayCounts(ctx)
	if err != nil {
		return nil, err
	}

	type monthKey struct{ year, month int }
	byMonth := make(map[monthKey][]domain.OrderDayCount)
	var keys []monthKey
	for _, c := range counts {
		k := monthKey{c.Year, c.Month}
		if _, ok := byMonth[k]; !ok {
			keys = append(keys, k)
		}
		byMonth[k] = append(byMonth[k], c)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})

	var result []domain.OrderDayCount
	for _, k := range keys {
		days := byMonth[k]
		sort.Slice(days, func(i, j int) bool { return days[i].OrderCount > days[j].OrderCount })
		if len(days) >= 2 {
			result = append(result, days[1])
		}
	}
	return result, nil
}

func (s *orderServiceImpl) CustomerRankingByYear(ctx context.Context) ([]domain.CustomerSalesRank, error) {
	return s.orderRepo.CustomerRankingByYear(ctx)
}

func (s *orderServiceImpl) OrderTotals(ctx context.Context) ([]domain.OrderTotal, error) {
	return s.orderRepo.OrderTotals(ctx)
}

func (s *orderServiceImpl) TotalAmountByCountry(ctx context.Context) ([]domain.CountrySales, error) {
	return s.orderRepo.TotalAmountByCountry(ctx)
}

func (s *orderServiceImpl) OrdersWithTotalAmountGreaterThan(ctx context.Context, threshold int64) ([]domain.OrderSummary, error) {
	return s.orderRepo.OrdersWithTotalAmountGreaterThan(ctx, threshold)
}

func (s *orderServiceImpl) OrdersAboveAverage(ctx context.Context) ([]domain.OrderSummary, error) {
	return s.orderRepo.OrdersAboveAverageTotal(ctx)
}

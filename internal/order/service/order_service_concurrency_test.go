package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/ridloal/e-commerce-order-api/internal/order/domain"
	"github.com/ridloal/e-commerce-order-api/internal/order/repository"
	productDomain "github.com/ridloal/e-commerce-order-api/internal/product/domain"
	productRepo "github.com/ridloal/e-commerce-order-api/internal/product/repository"
	"github.com/stretchr/testify/assert"
)

// fakeTx menahan insert sampai Commit; Rollback membuangnya. Order yang kalah
// race pada decrement tidak boleh tersisa di repo.
type fakeTx struct {
	repo    *fakeOrderRepo
	pending []domain.Order
}

func (t *fakeTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}
func (t *fakeTx) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	return nil, nil
}
func (t *fakeTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}
func (t *fakeTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func (t *fakeTx) Commit() error {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	t.repo.orders = append(t.repo.orders, t.pending...)
	t.pending = nil
	return nil
}

func (t *fakeTx) Rollback() error {
	t.pending = nil
	return nil
}

// fakeOrderRepo hanya mengimplementasikan path tulis; method lain tidak dipakai
// di test ini dan akan panic lewat embedded interface nil.
type fakeOrderRepo struct {
	repository.OrderRepository

	mu     sync.Mutex
	nextID int64
	orders []domain.Order
}

func (f *fakeOrderRepo) BeginTx(ctx context.Context) (repository.DBTX, error) {
	return &fakeTx{repo: f}, nil
}

func (f *fakeOrderRepo) InsertOrderWithLines(ctx context.Context, dbops repository.DBTX, order *domain.Order, lines []domain.OrderLine) error {
	f.mu.Lock()
	f.nextID++
	order.ID = f.nextID
	f.mu.Unlock()

	order.Lines = lines
	tx := dbops.(*fakeTx)
	tx.pending = append(tx.pending, *order)
	return nil
}

// fakeCatalog meniru semantik conditional decrement: pengurangan hanya terjadi
// jika stok masih cukup, dicek dan diterapkan secara atomik.
type fakeCatalog struct {
	mu       sync.Mutex
	products map[int64]*productDomain.Product
}

func (f *fakeCatalog) GetProductByID(ctx context.Context, id int64) (*productDomain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, productRepo.ErrProductNotFound
	}
	snapshot := *p
	return &snapshot, nil
}

func (f *fakeCatalog) DecrementStock(ctx context.Context, dbops productRepo.DBTX, productID int64, quantity int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[productID]
	if !ok || p.StockQuantity < quantity {
		return false, nil
	}
	p.StockQuantity -= quantity
	return true, nil
}

func (f *fakeCatalog) stock(id int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products[id].StockQuantity
}

type fakeCustomerDirectory struct{}

func (fakeCustomerDirectory) CustomerExists(ctx context.Context, id int64) (bool, error) {
	return true, nil
}

type fakeShipperDirectory struct{}

func (fakeShipperDirectory) ShipperExists(ctx context.Context, id int64) (bool, error) {
	return true, nil
}

func TestOrderService_PlaceOrder_NoOversellUnderConcurrency(t *testing.T) {
	ctx := context.TODO()

	t.Run("More buyers than stock, exactly stock many succeed", func(t *testing.T) {
		const initialStock = 12
		const buyers = 20

		catalog := &fakeCatalog{products: map[int64]*productDomain.Product{
			1: {ID: 1, Name: "Teh Botol", UnitPrice: 300, StockQuantity: initialStock},
		}}
		orderRepo := &fakeOrderRepo{}
		svc := NewOrderService(orderRepo, catalog, fakeCustomerDirectory{}, fakeShipperDirectory{})

		var wg sync.WaitGroup
		results := make(chan error, buyers)
		for i := 0; i < buyers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := svc.PlaceOrder(ctx, domain.PlaceOrderRequest{
					CustomerID: 1,
					Lines:      []domain.PlaceOrderLineRequest{{ProductID: 1, Quantity: 1}},
				})
				results <- err
			}()
		}
		wg.Wait()
		close(results)

		var succeeded, rejected int
		for err := range results {
			if err == nil {
				succeeded++
				continue
			}
			var stockErr *InsufficientStockError
			if assert.ErrorAs(t, err, &stockErr) {
				rejected++
			}
		}

		assert.Equal(t, initialStock, succeeded)
		assert.Equal(t, buyers-initialStock, rejected)
		assert.Equal(t, 0, catalog.stock(1))
		assert.Len(t, orderRepo.orders, initialStock)
	})

	t.Run("Two concurrent orders for more than half the stock, only one wins", func(t *testing.T) {
		catalog := &fakeCatalog{products: map[int64]*productDomain.Product{
			1: {ID: 1, Name: "Teh Botol", UnitPrice: 300, StockQuantity: 10},
		}}
		orderRepo := &fakeOrderRepo{}
		svc := NewOrderService(orderRepo, catalog, fakeCustomerDirectory{}, fakeShipperDirectory{})

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = svc.PlaceOrder(ctx, domain.PlaceOrderRequest{
					CustomerID: 1,
					Lines:      []domain.PlaceOrderLineRequest{{ProductID: 1, Quantity: 6}},
				})
			}(i)
		}
		wg.Wait()

		var succeeded int
		for _, err := range errs {
			if err == nil {
				succeeded++
			} else {
				var stockErr *InsufficientStockError
				assert.True(t, errors.As(err, &stockErr))
			}
		}

		assert.Equal(t, 1, succeeded)
		assert.Equal(t, 4, catalog.stock(1))
		assert.Len(t, orderRepo.orders, 1)
	})
}

func TestOrderService_PlaceOrder_PriceImmutableAfterPlacement(t *testing.T) {
	ctx := context.TODO()

	catalog := &fakeCatalog{products: map[int64]*productDomain.Product{
		1: {ID: 1, Name: "Teh Botol", UnitPrice: 300, StockQuantity: 10},
	}}
	orderRepo := &fakeOrderRepo{}
	svc := NewOrderService(orderRepo, catalog, fakeCustomerDirectory{}, fakeShipperDirectory{})

	resp, err := svc.PlaceOrder(ctx, domain.PlaceOrderRequest{
		CustomerID: 1,
		Lines:      []domain.PlaceOrderLineRequest{{ProductID: 1, Quantity: 2}},
	})
	assert.NoError(t, err)

	// Harga katalog naik setelah order dibuat.
	catalog.mu.Lock()
	catalog.products[1].UnitPrice = 999
	catalog.mu.Unlock()

	assert.Equal(t, int64(300), resp.Lines[0].UnitPriceAtPurchase)
	assert.Equal(t, int64(600), resp.TotalAmount)
	assert.Equal(t, int64(300), orderRepo.orders[0].Lines[0].UnitPriceAtPurchase)
}

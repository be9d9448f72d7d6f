package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq" // Untuk pq.Error
	"github.com/ridloal/e-commerce-order-api/internal/platform/logger"
	"github.com/ridloal/e-commerce-order-api/internal/product/domain"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrNegativeStock    = errors.New("stock update would result in negative quantity")
	ErrProductConflict  = errors.New("product conflict, possibly referenced by order lines")
	ErrProductReadWrite = errors.New("product read/write failed")
)

// DBTX bisa berupa *sql.Tx; dipakai saat operasi stok harus ikut transaksi caller.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
	Commit() error
	Rollback() error
}

type ProductRepository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProductByID(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) error
	UpdateProduct(ctx context.Context, product *domain.Product) error
	DeleteProductByID(ctx context.Context, id int64) error

	// Stock Management
	// DecrementStock hanya mengurangi jika stok cukup; false = tidak diterapkan.
	DecrementStock(ctx context.Context, dbops DBTX, productID int64, quantity int) (bool, error)
	IncreaseStock(ctx context.Context, productID int64, quantity int) error

	// Reports
	TopProductsByQuarter(ctx context.Context, startMonth, endMonth int) ([]domain.ProductSales, error)
	ProductsNeverOrdered(ctx context.Context) ([]string, error)
}

type postgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) ProductRepository {
	return &postgresProductRepository{db: db}
}

func (r *postgresProductRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT id, name, unit_price, stock_quantity, created_at, updated_at
              FROM products ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("ListProducts: query failed", err, nil)
		return nil, err
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.UnitPrice, &p.StockQuantity, &p.CreatedAt, &p.UpdatedAt); err != nil {
			logger.Error("ListProducts: scan failed", err, nil)
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *postgresProductRepository) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT id, name, unit_price, stock_quantity, created_at, updated_at
              FROM products WHERE id = $1`
	var p domain.Product
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.UnitPrice, &p.StockQuantity, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		logger.Error("GetProductByID: query failed", err, map[string]interface{}{"product_id": id})
		return nil, err
	}
	return &p, nil
}

func (r *postgresProductRepository) CreateProduct(ctx context.Context, product *domain.Product) error {
	query := `INSERT INTO products (name, unit_price, stock_quantity, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at, updated_at`
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query, product.Name, product.UnitPrice, product.StockQuantity,
		product.CreatedAt, product.UpdatedAt).
		Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		logger.Error("CreateProduct: failed to insert product", err, nil)
		return err
	}
	return nil
}

// UpdateProduct hanya mengubah name & unit_price. Stok lewat IncreaseStock/DecrementStock.
func (r *postgresProductRepository) UpdateProduct(ctx context.Context, product *domain.Product) error {
	query := `UPDATE products SET name = $1, unit_price = $2, updated_at = NOW()
              WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, product.Name, product.UnitPrice, product.ID)
	if err != nil {
		logger.Error("UpdateProduct: exec failed", err, map[string]interface{}{"product_id": product.ID})
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *postgresProductRepository) DeleteProductByID(ctx context.Context, id int64) error {
	query := `DELETE FROM products WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" { // foreign_key_violation
			return ErrProductConflict
		}
		logger.Error("DeleteProductByID: exec failed", err, map[string]interface{}{"product_id": id})
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// DecrementStock adalah compare-and-decrement atomik: WHERE clause menjamin
// stok tidak pernah negatif walau banyak pembelian concurrent.
func (r *postgresProductRepository) DecrementStock(ctx context.Context, dbops DBTX, productID int64, quantity int) (bool, error) {
	query := `UPDATE products SET stock_quantity = stock_quantity - $1, updated_at = NOW()
              WHERE id = $2 AND stock_quantity >= $1`
	res, err := dbops.ExecContext(ctx, query, quantity, productID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" { // check_violation
			logger.Error("DecrementStock: check violation", err, map[string]interface{}{"product_id": productID})
			return false, ErrNegativeStock
		}
		logger.Error("DecrementStock: exec failed", err, map[string]interface{}{"product_id": productID})
		return false, err
	}
	rowsAffected, _ := res.RowsAffected()
	// 0 row = produk tidak ada ATAU stok tidak cukup; caller yang membedakan.
	return rowsAffected > 0, nil
}

func (r *postgresProductRepository) IncreaseStock(ctx context.Context, productID int64, quantity int) error {
	query := `UPDATE products SET stock_quantity = stock_quantity + $1, updated_at = NOW()
              WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, quantity, productID)
	if err != nil {
		logger.Error("IncreaseStock: exec failed", err, map[string]interface{}{"product_id": productID})
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *postgresProductRepository) TopProductsByQuarter(ctx context.Context, startMonth, endMonth int) ([]domain.ProductSales, error) {
	query := `
        SELECT p.name, SUM(ol.quantity * ol.unit_price_at_purchase) AS total_sales
        FROM products p
        JOIN order_lines ol ON p.id = ol.product_id
        JOIN orders o ON ol.order_id = o.id
        WHERE EXTRACT(MONTH FROM o.order_date) BETWEEN $1 AND $2
        GROUP BY p.name
        ORDER BY total_sales DESC`
	rows, err := r.db.QueryContext(ctx, query, startMonth, endMonth)
	if err != nil {
		logger.Error("TopProductsByQuarter: query failed", err, nil)
		return nil, err
	}
	defer rows.Close()

	var sales []domain.ProductSales
	for rows.Next() {
		var ps domain.ProductSales
		if err := rows.Scan(&ps.ProductName, &ps.TotalSales); err != nil {
			logger.Error("TopProductsByQuarter: scan failed", err, nil)
			return nil, err
		}
		sales = append(sales, ps)
	}
	return sales, rows.Err()
}

func (r *postgresProductRepository) ProductsNeverOrdered(ctx context.Context) ([]string, error) {
	query := `SELECT name FROM products
              WHERE id NOT IN (SELECT DISTINCT product_id FROM order_lines)
              ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("ProductsNeverOrdered: query failed", err, nil)
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			logger.Error("ProductsNeverOrdered: scan failed", err, nil)
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

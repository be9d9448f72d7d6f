package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ridloal/e-commerce-order-api/internal/order/domain"
	"github.com/ridloal/e-commerce-order-api/internal/platform/logger"
)

var ErrOrderNotFound = errors.New("order not found")

// DBTX bisa berupa *sql.Tx; order insert dan stock decrement berbagi satu transaksi.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
	Commit() error
	Rollback() error
}

type OrderRepository interface {
	BeginTx(ctx context.Context) (DBTX, error)
	// InsertOrderWithLines menulis order + lines memakai dbops milik caller;
	// commit/rollback adalah tanggung jawab caller.
	InsertOrderWithLines(ctx context.Context, dbops DBTX, order *domain.Order, lines []domain.OrderLine) error

	GetOrderByID(ctx context.Context, id int64) (*domain.Order, error)
	ListOrders(ctx context.Context, limit, offset int) ([]domain.Order, error)
	ListOrdersByCustomerID(ctx context.Context, customerID int64) ([]domain.Order, error)
	DeleteOrderByID(ctx context.Context, id int64) error

	// Reports
	ListOrdersWithCustomerInfo(ctx context.Context) ([]domain.OrderCustomerInfo, error)
	ListOrderDatesForMonth(ctx context.Context, year, month int) ([]string, error)
	ListOrderDayCounts(ctx context.Context) ([]domain.OrderDayCount, error)
	CustomerRankingByYear(ctx context.Context) ([]domain.CustomerSalesRank, error)
	OrderTotals(ctx context.Context) ([]domain.OrderTotal, error)
	TotalAmountByCountry(ctx context.Context) ([]domain.CountrySales, error)
	OrdersWithTotalAmountGreaterThan(ctx context.Context, threshold int64) ([]domain.OrderSummary, error)
	OrdersAboveAverageTotal(ctx context.Context) ([]domain.OrderSummary, error)
}

type postgresOrderRepository struct {
	db *sql.DB
}

func NewPostgresOrderRepository(db *sql.DB) OrderRepository {
	return &postgresOrderRepository{db: db}
}

func (r *postgresOrderRepository) BeginTx(ctx context.Context) (DBTX, error) {
	return r.db.BeginTx(ctx, nil)
}

func (r *postgresOrderRepository) InsertOrderWithLines(ctx context.Context, dbops DBTX, order *domain.Order, lines []domain.OrderLine) error {
	orderQuery := `INSERT INTO orders (customer_id, shipper_id, order_date, status, total_amount)
                   VALUES ($1, $2, $3, $4, $5) RETURNING id, order_date`

	order.OrderDate = time.Now()
	if order.Status == "" {
		order.Status = domain.StatusPlaced
	}

	var shipperID sql.NullInt64
	if order.ShipperID != nil {
		shipperID = sql.NullInt64{Int64: *order.ShipperID, Valid: true}
	}

	err := dbops.QueryRowContext(ctx, orderQuery, order.CustomerID, shipperID, order.OrderDate,
		order.Status, order.TotalAmount).
		Scan(&order.ID, &order.OrderDate)
	if err != nil {
		logger.Error("InsertOrderWithLines: failed to insert order", err, nil)
		return err
	}

	lineStmt, err := dbops.PrepareContext(ctx, `INSERT INTO order_lines (order_id, product_id, quantity, unit_price_at_purchase)
                                               VALUES ($1, $2, $3, $4) RETURNING id`)
	if err != nil {
		logger.Error("InsertOrderWithLines: failed to prepare line statement", err, nil)
		return err
	}
	defer lineStmt.Close()

	for i := range lines {
		lines[i].OrderID = order.ID
		err = lineStmt.QueryRowContext(ctx, lines[i].OrderID, lines[i].ProductID, lines[i].Quantity,
			lines[i].UnitPriceAtPurchase).
			Scan(&lines[i].ID)
		if err != nil {
			logger.Error("InsertOrderWithLines: failed to insert order line", err,
				map[string]interface{}{"product_id": lines[i].ProductID})
			return err
		}
	}
	order.Lines = lines

	return nil
}

func (r *postgresOrderRepository) GetOrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	query := `SELECT id, customer_id, shipper_id, order_date, status, total_amount
              FROM orders WHERE id = $1`
	var o domain.Order
	var shipperID sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&o.ID, &o.CustomerID, &shipperID, &o.OrderDate, &o.Status, &o.TotalAmount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		logger.Error("GetOrderByID: query failed", err, map[string]interface{}{"order_id": id})
		return nil, err
	}
	if shipperID.Valid {
		o.ShipperID = &shipperID.Int64
	}

	lines, err := r.getOrderLines(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Lines = lines
	return &o, nil
}

func (r *postgresOrderRepository) getOrderLines(ctx context.Context, orderID int64) ([]domain.OrderLine, error) {
	query := `SELECT id, order_id, product_id, quantity, unit_price_at_purchase
              FROM order_lines WHERE order_id = $1 ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		logger.Error("getOrderLines: query failed", err, map[string]interface{}{"order_id": orderID})
		return nil, err
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Quantity, &l.UnitPriceAtPurchase); err != nil {
			logger.Error("getOrderLines: scan failed", err, nil)
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *postgresOrderRepository) scanOrders(rows *sql.Rows) ([]domain.Order, error) {
	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		var shipperID sql.NullInt64
		if err := rows.Scan(&o.ID, &o.CustomerID, &shipperID, &o.OrderDate, &o.Status, &o.TotalAmount); err != nil {
			logger.Error("scanOrders: scan failed", err, nil)
			return nil, err
		}
		if shipperID.Valid {
			o.ShipperID = &shipperID.Int64
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *postgresOrderRepository) ListOrders(ctx context.Context, limit, offset int) ([]domain.Order, error) {
	query := `SELECT id, customer_id, shipper_id, order_date, status, total_amount
              FROM orders ORDER BY order_date DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		logger.Error("ListOrders: query failed", err, nil)
		return nil, err
	}
	defer rows.Close()
	return r.scanOrders(rows)
}

func (r *postgresOrderRepository) ListOrdersByCustomerID(ctx context.Context, customerID int64) ([]domain.Order, error) {
	query := `SELECT id, customer_id, shipper_id, order_date, status, total_amount
              FROM orders WHERE customer_id = $1 ORDER BY order_date DESC`
	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		logger.Error("ListOrdersByCustomerID: query failed", err, map[string]interface{}{"customer_id": customerID})
		return nil, err
	}
	defer rows.Close()
	return r.scanOrders(rows)
}

// DeleteOrderByID menghapus order + lines dalam satu transaksi.
func (r *postgresOrderRepository) DeleteOrderByID(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("DeleteOrderByID: failed to begin tx", err, nil)
		return err
	}
	defer tx.Rollback() // Rollback jika tidak di-commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_lines WHERE order_id = $1`, id); err != nil {
		logger.Error("DeleteOrderByID: failed to delete lines", err, map[string]interface{}{"order_id": id})
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		logger.Error("DeleteOrderByID: failed to delete order", err, map[string]interface{}{"order_id": id})
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrOrderNotFound
	}
	return tx.Commit()
}

// --- Reports ---

func (r *postgresOrderRepository) ListOrdersWithCustomerInfo(ctx context.Context) ([]domain.OrderCustomerInfo, error) {
	query := `
        SELECT o.id, o.order_date,
               c.id, c.name, c.contact_name, c.country,
               ol.id, ol.product_id, ol.quantity, ol.unit_price_at_purchase,
               p.name, p.unit_price
        FROM orders o
        JOIN customers c ON o.customer_id = c.id
        JOIN order_lines ol ON ol.order_id = o.id
        JOIN products p ON ol.product_id = p.id
        ORDER BY o.id ASC, ol.id ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("ListOrdersWithCustomerInfo: query failed", err, nil)
		return nil, err
	}
	defer rows.Close()

	var infos []domain.OrderCustomerInfo
	for rows.Next() {
		var i domain.OrderCustomerInfo
		if err := rows.Scan(&i.OrderID, &i.OrderDate,
			&i.CustomerID, &i.CustomerName, &i.CustomerContactName, &i.CustomerCountry,
			&i.OrderLineID, &i.ProductID, &i.Quantity, &i.Price,
			&i.ProductName, &i.ProductUnitPrice); err != nil {
			logger.Error("ListOrdersWithCustomerInfo: scan failed", err, nil)
			return nil, err
		}
		infos = append(infos, i)
	}
	return infos, rows.Err()
}

func (r *postgresOrderRepository) ListOrderDatesForMonth(ctx context.Context, year, month int) ([]string, error) {
	query := `SELECT DISTINCT to_char(order_date, 'YYYY-MM-DD')
              FROM orders
              WHERE EXTRACT(YEAR FROM order_date) = $1 AND EXTRACT(MONTH FROM order_date) = $2
              ORDER BY 1 ASC`
	rows, err := r.db.QueryContext(ctx, query, year, month)
	if err != nil {
		logger.Error("ListOrderDatesForMonth: query failed", err, nil)
		return nil, err
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			logger.Error("ListOrderDatesForMonth: scan failed", err, nil)
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

func (r *postgresOrderRepository) ListOrderDayCounts(ctx context.Context) ([]domain.OrderDayCount, error) {
	query := `SELECT to_char(order_date, 'YYYY-MM-DD') AS day,
                     COUNT(id) AS order_count,
                     EXTRACT(MONTH FROM order_date)::int AS month,
                     EXTRACT(YEAR FROM order_date)::int AS year
              FROM orders
              GROUP BY 1, 3, 4
              ORDER BY 4 ASC, 3 ASC, 1 ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("ListOrderDayCounts: query failed", err, nil)
		return nil, err
	}
	defer rows.Close()

	var counts []domain.OrderDayCount
	for rows.Next() {
		var c domain.OrderDayCount
		if err := rows.Scan(&c.Date, &c.OrderCount, &c.Month, &c.Year); err != nil {
			logger.Error("ListOrderDayCounts: scan failed", err, nil)
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *postgresOrderRepository) CustomerRankingByYear(ctx context.Context) ([]domain.CustomerSalesRank, error) {
	query := `
        SELECT EXTRACT(YEAR FROM o.order_date)::int AS year,
               c.name,
               SUM(ol.quantity * ol.unit_price_at_purchase) AS total_sales
        FROM orders o
        JOIN customers c ON o.customer_id = c.id
        JOIN order_lines ol ON ol.order_id = o.id
        GROUP BY c.name, EXTRACT(YEAR FROM o.order_date)
        ORDER BY year DESC, total_sales DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("CustomerRankingByYear: query failed", err, nil)
		return nil, err
	}
	defer rows.Close()

	var ranks []domain.CustomerSalesRank
	for rows.Next() {
		var rk domain.CustomerSalesRank
		if err := rows.Scan(&rk.Year, &rk.CustomerName, &rk.TotalSales); err != nil {
			logger.Error("CustomerRankingByYear: scan failed", err, nil)
			return nil, err
		}
		ranks = append(ranks, rk)
	}
	return ranks, rows.Err()
}

func (r *postgresOrderRepository) OrderTotals(ctx context.Context) ([]domain.OrderTotal, error) {
	query := `
        SELECT c.name, COALESCE(s.name, ''),
               SUM(ol.quantity * ol.unit_price_at_purchase) AS total_amount
        FROM orders o
        JOIN customers c ON o.customer_id = c.id
        LEFT JOIN shippers s ON o.shipper_id = s.id
        JOIN order_lines ol ON ol.order_id = o.id
        GROUP BY o.id, c.name, s.name
        ORDER BY c.name ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("OrderTotals: query failed", err, nil)
		return nil, err
	}
	defer rows.Close()

	var totals []domain.OrderTotal
	for rows.Next() {
		var t domain.OrderTotal
		if err := rows.Scan(&t.CustomerName, &t.ShipperName, &t.TotalAmount); err != nil {
			logger.Error("OrderTotals: scan failed", err, nil)
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

func (r *postgresOrderRepository) TotalAmountByCountry(ctx context.Context) ([]domain.CountrySales, error) {
	query := `
        SELECT c.country, SUM(ol.quantity * ol.unit_price_at_purchase) AS total_amount
        FROM customers c
        JOIN orders o ON o.customer_id = c.id
        JOIN order_lines ol ON ol.order_id = o.id
        GROUP BY c.country
        ORDER BY total_amount DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("TotalAmountByCountry: query failed", err, nil)
		return nil, err
	}
	defer rows.Close()

	var sales []domain.CountrySales
	for rows.Next() {
		var cs domain.CountrySales
		if err := rows.Scan(&cs.Country, &cs.TotalAmount); err != nil {
			logger.Error("TotalAmountByCountry: scan failed", err, nil)
			return nil, err
		}
		sales = append(sales, cs)
	}
	return sales, rows.Err()
}

const orderSummarySelect = `
        SELECT o.id,
               c.name || ' - ID: ' || c.id AS customer_info,
               COALESCE(s.name || ' - ID: ' || s.id, '') AS shipper_info,
               SUM(ol.quantity * ol.unit_price_at_purchase) AS total_amount,
               o.order_date
        FROM orders o
        JOIN customers c ON o.customer_id = c.id
        LEFT JOIN shippers s ON o.shipper_id = s.id
        JOIN order_lines ol ON ol.order_id = o.id
        GROUP BY o.id, c.name, c.id, s.name, s.id, o.order_date`

func (r *postgresOrderRepository) scanOrderSummaries(rows *sql.Rows) ([]domain.OrderSummary, error) {
	var summaries []domain.OrderSummary
	for rows.Next() {
		var s domain.OrderSummary
		if err := rows.Scan(&s.OrderID, &s.CustomerInfo, &s.ShipperInfo, &s.TotalAmount, &s.OrderDate); err != nil {
			logger.Error("scanOrderSummaries: scan failed", err, nil)
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (r *postgresOrderRepository) OrdersWithTotalAmountGreaterThan(ctx context.Context, threshold int64) ([]domain.OrderSummary, error) {
	query := orderSummarySelect + `
        HAVING SUM(ol.quantity * ol.unit_price_at_purchase) > $1
        ORDER BY total_amount DESC`
	rows, err := r.db.QueryContext(ctx, query, threshold)
	if err != nil {
		logger.Error("OrdersWithTotalAmountGreaterThan: query failed", err, nil)
		return nil, err
	}
	defer rows.Close()
	return r.scanOrderSummaries(rows)
}

func (r *postgresOrderRepository) OrdersAboveAverageTotal(ctx context.Context) ([]domain.OrderSummary, error) {
	query := orderSummarySelect + `
        HAVING SUM(ol.quantity * ol.unit_price_at_purchase) > (
            SELECT AVG(t.total) FROM (
                SELECT SUM(ol2.quantity * ol2.unit_price_at_purchase) AS total
                FROM orders o2
                JOIN order_lines ol2 ON ol2.order_id = o2.id
                GROUP BY o2.id
            ) t
        )
        ORDER BY total_amount ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("OrdersAboveAverageTotal: query failed", err, nil)
		return nil, err
	}
	defer rows.Close()
	return r.scanOrderSummaries(rows)
}

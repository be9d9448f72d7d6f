package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq" // Untuk pq.Error
	"github.com/ridloal/e-commerce-order-api/internal/customer/domain"
	"github.com/ridloal/e-commerce-order-api/internal/platform/logger"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrCustomerConflict = errors.New("customer conflict, possibly referenced by orders")
)

type CustomerRepository interface {
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	GetCustomerByID(ctx context.Context, id int64) (*domain.Customer, error)
	CustomerExists(ctx context.Context, id int64) (bool, error)
	CreateCustomer(ctx context.Context, customer *domain.Customer) error
	UpdateCustomer(ctx context.Context, customer *domain.Customer) error
	DeleteCustomerByID(ctx context.Context, id int64) error
}

type postgresCustomerRepository struct {
	db *sql.DB
}

func NewPostgresCustomerRepository(db *sql.DB) CustomerRepository {
	return &postgresCustomerRepository{db: db}
}

func (r *postgresCustomerRepository) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	query := `SELECT id, name, contact_name, country, created_at, updated_at
              FROM customers ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("ListCustomers: query failed", err, nil)
		return nil, err
	}
	defer rows.Close()

	customers := []domain.Customer{}
	for rows.Next() {
		var cu domain.Customer
		if err := rows.Scan(&cu.ID, &cu.Name, &cu.ContactName, &cu.Country, &cu.CreatedAt, &cu.UpdatedAt); err != nil {
			logger.Error("ListCustomers: scan failed", err, nil)
			return nil, err
		}
		customers = append(customers, cu)
	}
	return customers, rows.Err()
}

func (r *postgresCustomerRepository) GetCustomerByID(ctx context.Context, id int64) (*domain.Customer, error) {
	query := `SELECT id, name, contact_name, country, created_at, updated_at
              FROM customers WHERE id = $1`
	var cu domain.Customer
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&cu.ID, &cu.Name, &cu.ContactName, &cu.Country, &cu.CreatedAt, &cu.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		logger.Error("GetCustomerByID: query failed", err, map[string]interface{}{"customer_id": id})
		return nil, err
	}
	return &cu, nil
}

func (r *postgresCustomerRepository) CustomerExists(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		logger.Error("CustomerExists: query failed", err, map[string]interface{}{"customer_id": id})
		return false, err
	}
	return exists, nil
}

func (r *postgresCustomerRepository) CreateCustomer(ctx context.Context, customer *domain.Customer) error {
	query := `INSERT INTO customers (name, contact_name, country, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at, updated_at`
	customer.CreatedAt = time.Now()
	customer.UpdatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query, customer.Name, customer.ContactName, customer.Country,
		customer.CreatedAt, customer.UpdatedAt).
		Scan(&customer.ID, &customer.CreatedAt, &customer.UpdatedAt)
	if err != nil {
		logger.Error("CreateCustomer: failed to insert customer", err, nil)
		return err
	}
	return nil
}

func (r *postgresCustomerRepository) UpdateCustomer(ctx context.Context, customer *domain.Customer) error {
	query := `UPDATE customers SET name = $1, contact_name = $2, country = $3, updated_at = NOW()
              WHERE id = $4`
	res, err := r.db.ExecContext(ctx, query, customer.Name, customer.ContactName, customer.Country, customer.ID)
	if err != nil {
		logger.Error("UpdateCustomer: exec failed", err, map[string]interface{}{"customer_id": customer.ID})
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

func (r *postgresCustomerRepository) DeleteCustomerByID(ctx context.Context, id int64) error {
	query := `DELETE FROM customers WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" { // foreign_key_violation
			return ErrCustomerConflict
		}
		logger.Error("DeleteCustomerByID: exec failed", err, map[string]interface{}{"customer_id": id})
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

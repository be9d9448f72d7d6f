package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq" // Untuk pq.Error
	"github.com/ridloal/e-commerce-order-api/internal/platform/logger"
	"github.com/ridloal/e-commerce-order-api/internal/shipper/domain"
)

var (
	ErrShipperNotFound = errors.New("shipper not found")
	ErrShipperConflict = errors.New("shipper conflict, possibly referenced by orders")
)

type ShipperRepository interface {
	ListShippers(ctx context.Context) ([]domain.Shipper, error)
	GetShipperByID(ctx context.Context, id int64) (*domain.Shipper, error)
	ShipperExists(ctx context.Context, id int64) (bool, error)
	CreateShipper(ctx context.Context, shipper *domain.Shipper) error
	UpdateShipper(ctx context.Context, shipper *domain.Shipper) error
	DeleteShipperByID(ctx context.Context, id int64) error
}

type postgresShipperRepository struct {
	db *sql.DB
}

func NewPostgresShipperRepository(db *sql.DB) ShipperRepository {
	return &postgresShipperRepository{db: db}
}

func (r *postgresShipperRepository) ListShippers(ctx context.Context) ([]domain.Shipper, error) {
	query := `SELECT id, name, created_at, updated_at FROM shippers ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("ListShippers: query failed", err, nil)
		return nil, err
	}
	defer rows.Close()

	shippers := []domain.Shipper{}
	for rows.Next() {
		var sh domain.Shipper
		if err := rows.Scan(&sh.ID, &sh.Name, &sh.CreatedAt, &sh.UpdatedAt); err != nil {
			logger.Error("ListShippers: scan failed", err, nil)
			return nil, err
		}
		shippers = append(shippers, sh)
	}
	return shippers, rows.Err()
}

func (r *postgresShipperRepository) GetShipperByID(ctx context.Context, id int64) (*domain.Shipper, error) {
	query := `SELECT id, name, created_at, updated_at FROM shippers WHERE id = $1`
	var sh domain.Shipper
	err := r.db.QueryRowContext(ctx, query, id).Scan(&sh.ID, &sh.Name, &sh.CreatedAt, &sh.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShipperNotFound
		}
		logger.Error("GetShipperByID: query failed", err, map[string]interface{}{"shipper_id": id})
		return nil, err
	}
	return &sh, nil
}

func (r *postgresShipperRepository) ShipperExists(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM shippers WHERE id = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		logger.Error("ShipperExists: query failed", err, map[string]interface{}{"shipper_id": id})
		return false, err
	}
	return exists, nil
}

func (r *postgresShipperRepository) CreateShipper(ctx context.Context, shipper *domain.Shipper) error {
	query := `INSERT INTO shippers (name, created_at, updated_at)
              VALUES ($1, $2, $3) RETURNING id, created_at, updated_at`
	shipper.CreatedAt = time.Now()
	shipper.UpdatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query, shipper.Name, shipper.CreatedAt, shipper.UpdatedAt).
		Scan(&shipper.ID, &shipper.CreatedAt, &shipper.UpdatedAt)
	if err != nil {
		logger.Error("CreateShipper: failed to insert shipper", err, nil)
		return err
	}
	return nil
}

func (r *postgresShipperRepository) UpdateShipper(ctx context.Context, shipper *domain.Shipper) error {
	query := `UPDATE shippers SET name = $1, updated_at = NOW() WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, shipper.Name, shipper.ID)
	if err != nil {
		logger.Error("UpdateShipper: exec failed", err, map[string]interface{}{"shipper_id": shipper.ID})
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrShipperNotFound
	}
	return nil
}

func (r *postgresShipperRepository) DeleteShipperByID(ctx context.Context, id int64) error {
	query := `DELETE FROM shippers WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" { // foreign_key_violation
			return ErrShipperConflict
		}
		logger.Error("DeleteShipperByID: exec failed", err, map[string]interface{}{"shipper_id": id})
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrShipperNotFound
	}
	return nil
}

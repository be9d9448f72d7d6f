package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/ridloal/e-commerce-order-api/internal/platform/logger"
	"github.com/ridloal/e-commerce-order-api/internal/user/domain"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserConflict = errors.New("user with this email already exists")
var ErrRefreshTokenNotFound = errors.New("refresh token not found")

type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)

	StoreRefreshToken(ctx context.Context, token *domain.RefreshToken) error
	GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	DeleteRefreshTokenByHash(ctx context.Context, tokenHash string) error
	DeleteExpiredRefreshTokens(ctx context.Context) (int64, error)
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (email, role, password_hash, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at, updated_at`

	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	if user.Role == "" {
		user.Role = domain.RoleCustomer
	}

	err := r.db.QueryRowContext(ctx, query, user.Email, user.Role, user.PasswordHash, user.CreatedAt, user.UpdatedAt).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		// Kode error '23505' adalah unique_violation
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			logger.Error("CreateUser: unique violation", err, map[string]interface{}{"email": user.Email})
			return ErrUserConflict
		}
		logger.Error("CreateUser: failed to insert user", err, nil)
		return err
	}
	return nil
}

func (r *postgresUserRepository) getUserBy(ctx context.Context, field string, value interface{}) (*domain.User, error) {
	query := `SELECT id, email, role, password_hash, created_at, updated_at FROM users WHERE ` + field + ` = $1`
	user := &domain.User{}

	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&user.ID, &user.Email, &user.Role, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		logger.Error("GetUserBy"+field+": query failed", err, nil)
		return nil, err
	}
	return user, nil
}

func (r *postgresUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getUserBy(ctx, "email", email)
}

func (r *postgresUserRepository) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getUserBy(ctx, "id", id)
}

func (r *postgresUserRepository) StoreRefreshToken(ctx context.Context, token *domain.RefreshToken) error {
	query := `INSERT INTO refresh_tokens (user_id, token_hash, expires_at, created_at)
              VALUES ($1, $2, $3, $4) RETURNING id`

	token.CreatedAt = time.Now()
	err := r.db.QueryRowContext(ctx, query, token.UserID, token.TokenHash, token.ExpiresAt, token.CreatedAt).
		Scan(&token.ID)
	if err != nil {
		logger.Error("StoreRefreshToken: failed to insert token", err, map[string]interface{}{"user_id": token.UserID})
		return err
	}
	return nil
}

func (r *postgresUserRepository) GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	query := `SELECT id, user_id, token_hash, expires_at, created_at FROM refresh_tokens WHERE token_hash = $1`
	token := &domain.RefreshToken{}

	err := r.db.QueryRowContext(ctx, query, tokenHash).Scan(
		&token.ID, &token.UserID, &token.TokenHash, &token.ExpiresAt, &token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRefreshTokenNotFound
		}
		logger.Error("GetRefreshTokenByHash: query failed", err, nil)
		return nil, err
	}
	return token, nil
}

func (r *postgresUserRepository) DeleteRefreshTokenByHash(ctx context.Context, tokenHash string) error {
	query := `DELETE FROM refresh_tokens WHERE token_hash = $1`
	res, err := r.db.ExecContext(ctx, query, tokenHash)
	if err != nil {
		logger.Error("DeleteRefreshTokenByHash: delete failed", err, nil)
		return err
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRefreshTokenNotFound
	}
	return nil
}

func (r *postgresUserRepository) DeleteExpiredRefreshTokens(ctx context.Context) (int64, error) {
	query := `DELETE FROM refresh_tokens WHERE expires_at < NOW()`
	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		logger.Error("DeleteExpiredRefreshTokens: delete failed", err, nil)
		return 0, err
	}
	return res.RowsAffected()
}

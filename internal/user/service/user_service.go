package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ridloal/e-commerce-order-api/internal/platform/config"
	"github.com/ridloal/e-commerce-order-api/internal/platform/logger"
	"github.com/ridloal/e-commerce-order-api/internal/user/domain"
	"github.com/ridloal/e-commerce-order-api/internal/user/repository"
	"github.com/robfig/cron/v3"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrUserAlreadyExists   = errors.New("user with this email already exists")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	ErrInvalidAccessToken  = errors.New("invalid or expired access token")
)

// AccessClaims adalah isi access token yang dipakai middleware.
type AccessClaims struct {
	UserID int64
	Email  string
	Role   string
}

type UserService interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.LoginResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	VerifyAccessToken(tokenString string) (*AccessClaims, error)
	PurgeExpiredRefreshTokens(ctx context.Context) // Fungsi untuk scheduler
}

type userService struct {
	repo      repository.UserRepository
	auth      config.AuthConfig
	scheduler *cron.Cron
}

func NewUserService(repo repository.UserRepository, auth config.AuthConfig) UserService {
	s := &userService{
		repo:      repo,
		auth:      auth,
		scheduler: cron.New(cron.WithSeconds()),
	}
	s.initScheduler()
	return s
}

func (s *userService) initScheduler() {
	spec := "0 0 * * * *" // Setiap jam
	s.scheduler.AddFunc(spec, func() {
		// Gunakan context.Background() karena ini adalah background job
		s.PurgeExpiredRefreshTokens(context.Background())
	})
	s.scheduler.Start()
	logger.Info(fmt.Sprintf("Refresh token purge scheduler initialized with spec '%s'", spec))
}

// StopScheduler menghentikan background job; dipakai saat shutdown dan di test.
func (s *userService) StopScheduler() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func (s *userService) PurgeExpiredRefreshTokens(ctx context.Context) {
	deleted, err := s.repo.DeleteExpiredRefreshTokens(ctx)
	if err != nil {
		logger.Error("PurgeExpiredRefreshTokens: delete failed", err, nil)
		return
	}
	if deleted > 0 {
		logger.Info(fmt.Sprintf("PurgeExpiredRefreshTokens: removed %d expired tokens", deleted))
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	// Validasi dasar (sebagian sudah dilakukan oleh Gin `binding:"required"`)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("Register: failed to hash password", err, nil)
		return nil, fmt.Errorf("could not process registration: %w", err)
	}

	user := &domain.User{
		Email:        req.Email,
		Role:         domain.RoleCustomer,
		PasswordHash: string(hashedPassword),
	}

	err = s.repo.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrUserConflict) {
			return nil, ErrUserAlreadyExists
		}
		logger.Error("Register: failed to create user in repo", err, nil)
		return nil, fmt.Errorf("could not save user: %w", err)
	}

	user.PasswordHash = "" // Hapus sebelum dikembalikan
	return user, nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		logger.Error("Login: failed to get user by email", err, nil)
		return nil, ErrInvalidCredentials
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password))
	if err != nil { // Password tidak cocok
		return nil, ErrInvalidCredentials
	}

	return s.issueTokenPair(ctx, user)
}

// Refresh menukar refresh token dengan pasangan token baru. Token lama dihapus
// dulu (single use); token yang sudah dipakai atau kedaluwarsa ditolak.
func (s *userService) Refresh(ctx context.Context, refreshToken string) (*domain.LoginResponse, error) {
	tokenHash := hashRefreshToken(refreshToken)

	stored, err := s.repo.GetRefreshTokenByHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		logger.Error("Refresh: failed to load refresh token", err, nil)
		return nil, ErrInvalidRefreshToken
	}

	if err := s.repo.DeleteRefreshTokenByHash(ctx, tokenHash); err != nil {
		// Sudah dihapus request lain: token dipakai dua kali.
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		logger.Error("Refresh: failed to rotate refresh token", err, nil)
		return nil, ErrInvalidRefreshToken
	}

	if time.Now().After(stored.ExpiresAt) {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.repo.GetUserByID(ctx, stored.UserID)
	if err != nil {
		logger.Error("Refresh: failed to load user", err, map[string]interface{}{"user_id": stored.UserID})
		return nil, ErrInvalidRefreshToken
	}

	return s.issueTokenPair(ctx, user)
}

func (s *userService) Logout(ctx context.Context, refreshToken string) error {
	err := s.repo.DeleteRefreshTokenByHash(ctx, hashRefreshToken(refreshToken))
	if err != nil && !errors.Is(err, repository.ErrRefreshTokenNotFound) {
		logger.Error("Logout: failed to delete refresh token", err, nil)
		return err
	}
	return nil
}

func (s *userService) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.auth.AccessSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidAccessToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidAccessToken
	}
	userID, ok := claims["user_id"].(float64) // angka JSON selalu float64
	if !ok {
		return nil, ErrInvalidAccessToken
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	return &AccessClaims{UserID: int64(userID), Email: email, Role: role}, nil
}

func (s *userService) issueTokenPair(ctx context.Context, user *domain.User) (*domain.LoginResponse, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(s.auth.AccessTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessToken, err := token.SignedString(s.auth.AccessSecret)
	if err != nil {
		logger.Error("issueTokenPair: failed to sign access token", err, nil)
		return nil, fmt.Errorf("could not generate token: %w", err)
	}

	refreshToken, err := newRefreshToken()
	if err != nil {
		logger.Error("issueTokenPair: failed to generate refresh token", err, nil)
		return nil, fmt.Errorf("could not generate token: %w", err)
	}
	err = s.repo.StoreRefreshToken(ctx, &domain.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashRefreshToken(refreshToken),
		ExpiresAt: time.Now().Add(s.auth.RefreshTTL),
	})
	if err != nil {
		return nil, fmt.Errorf("could not store refresh token: %w", err)
	}

	user.PasswordHash = "" // Hapus sebelum dikembalikan
	return &domain.LoginResponse{
		User:         *user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh token berbentuk opaque random string; DB hanya menyimpan hash-nya.
func newRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func hashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

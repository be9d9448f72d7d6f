package service

import (
	"context"

	"github.com/ridloal/e-commerce-order-api/internal/platform/logger"
	"github.com/ridloal/e-commerce-order-api/internal/shipper/domain"
	"github.com/ridloal/e-commerce-order-api/internal/shipper/repository"
)

type ShipperService interface {
	ListShippers(ctx context.Context) ([]domain.Shipper, error)
	GetShipper(ctx context.Context, id int64) (*domain.Shipper, error)
	CreateShipper(ctx context.Context, req domain.UpsertShipperRequest) (*domain.Shipper, error)
	UpdateShipper(ctx context.Context, id int64, req domain.UpsertShipperRequest) (*domain.Shipper, error)
	DeleteShipper(ctx context.Context, id int64) error
}

type shipperServiceImpl struct {
	repo repository.ShipperRepository
}

func NewShipperService(repo repository.ShipperRepository) ShipperService {
	return &shipperServiceImpl{repo: repo}
}

func (s *shipperServiceImpl) ListShippers(ctx context.Context) ([]domain.Shipper, error) {
	return s.repo.ListShippers(ctx)
}

func (s *shipperServiceImpl) GetShipper(ctx context.Context, id int64) (*domain.Shipper, error) {
	return s.repo.GetShipperByID(ctx, id)
}

func (s *shipperServiceImpl) CreateShipper(ctx context.Context, req domain.UpsertShipperRequest) (*domain.Shipper, error) {
	sh := &domain.Shipper{Name: req.Name}
	if err := s.repo.CreateShipper(ctx, sh); err != nil {
		logger.Error("Svc.CreateShipper: repo error", err, nil)
		return nil, err
	}
	return sh, nil
}

func (s *shipperServiceImpl) UpdateShipper(ctx context.Context, id int64, req domain.UpsertShipperRequest) (*domain.Shipper, error) {
	sh, err := s.repo.GetShipperByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sh.Name = req.Name
	if err := s.repo.UpdateShipper(ctx, sh); err != nil {
		logger.Error("Svc.UpdateShipper: repo error", err, map[string]interface{}{"shipper_id": id})
		return nil, err
	}
	return sh, nil
}

func (s *shipperServiceImpl) DeleteShipper(ctx context.Context, id int64) error {
	return s.repo.DeleteShipperByID(ctx, id)
}

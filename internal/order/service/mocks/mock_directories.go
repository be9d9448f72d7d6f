package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockCustomerDirectory struct {
	mock.Mock
}

func (m *MockCustomerDirectory) CustomerExists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockShipperDirectory struct {
	mock.Mock
}

func (m *MockShipperDirectory) ShipperExists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

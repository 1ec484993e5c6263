package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/healthtrack/healthtrack-api/internal/models"
)

// MockEmergencyProfileDAO is a mock implementation of EmergencyProfileDAO
type MockEmergencyProfileDAO struct {
	mock.Mock
}

func (m *MockEmergencyProfileDAO) Get(ctx context.Context, userID string) (*models.EmergencyProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EmergencyProfile), args.Error(1)
}

func (m *MockEmergencyProfileDAO) Upsert(ctx context.Context, profile *models.EmergencyProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

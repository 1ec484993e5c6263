package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/healthtrack/healthtrack-api/internal/models"
)

// MockRecordDAO is a mock implementation of RecordDAO
type MockRecordDAO struct {
	mock.Mock
}

func (m *MockRecordDAO) Create(ctx context.Context, record *models.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRecordDAO) GetByID(ctx context.Context, userID, recordID string) (*models.Record, error) {
	args := m.Called(ctx, userID, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Record), args.Error(1)
}

func (m *MockRecordDAO) ListByUser(ctx context.Context, userID string) ([]models.Record, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Record), args.Error(1)
}

func (m *MockRecordDAO) Delete(ctx context.Context, userID, recordID string) error {
	args := m.Called(ctx, userID, recordID)
	return args.Error(0)
}

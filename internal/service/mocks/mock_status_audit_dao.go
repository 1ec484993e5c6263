package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/healthtrack/healthtrack-api/internal/database"
	"github.com/healthtrack/healthtrack-api/internal/models"
)

// MockStatusAuditDAO is a mock implementation of StatusAuditDAO
type MockStatusAuditDAO struct {
	mock.Mock
}

func (m *MockStatusAuditDAO) CreateWithTx(ctx context.Context, tx *database.Transaction, audit *models.ConsentStatusAudit) error {
	args := m.Called(ctx, tx, audit)
	return args.Error(0)
}

func (m *MockStatusAuditDAO) GetByConsentID(ctx context.Context, consentID string) ([]models.ConsentStatusAudit, error) {
	args := m.Called(ctx, consentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ConsentStatusAudit), args.Error(1)
}

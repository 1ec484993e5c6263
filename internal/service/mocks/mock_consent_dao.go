package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/healthtrack/healthtrack-api/internal/database"
	"github.com/healthtrack/healthtrack-api/internal/models"
)

// MockConsentDAO is a mock implementation of ConsentDAO
type MockConsentDAO struct {
	mock.Mock
}

func (m *MockConsentDAO) CreateWithTx(ctx context.Context, tx *database.Transaction, consent *models.Consent) error {
	args := m.Called(ctx, tx, consent)
	return args.Error(0)
}

func (m *MockConsentDAO) GetByID(ctx context.Context, consentID string) (*models.Consent, error) {
	args := m.Called(ctx, consentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Consent), args.Error(1)
}

func (m *MockConsentDAO) GetByPair(ctx context.Context, doctorID, patientID string) (*models.Consent, error) {
	args := m.Called(ctx, doctorID, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Consent), args.Error(1)
}

func (m *MockConsentDAO) GetByPairWithTx(ctx context.Context, tx *database.Transaction, doctorID, patientID string) (*models.Consent, error) {
	args := m.Called(ctx, tx, doctorID, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Consent), args.Error(1)
}

func (m *MockConsentDAO) UpdateStatusWithTx(ctx context.Context, tx *database.Transaction, consentID, patientID string, status models.ConsentStatus, updatedAt time.Time) error {
	args := m.Called(ctx, tx, consentID, patientID, status, updatedAt)
	return args.Error(0)
}

func (m *MockConsentDAO) ListByPatientAndStatus(ctx context.Context, patientID string, status models.ConsentStatus) ([]models.Consent, error) {
	args := m.Called(ctx, patientID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Consent), args.Error(1)
}

func (m *MockConsentDAO) ListByDoctor(ctx context.Context, doctorID string) ([]models.Consent, error) {
	args := m.Called(ctx, doctorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Consent), args.Error(1)
}

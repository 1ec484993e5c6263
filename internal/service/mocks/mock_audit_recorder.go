package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/healthtrack/healthtrack-api/internal/models"
)

// MockAuditRecorder is a mock implementation of the audit logger
type MockAuditRecorder struct {
	mock.Mock
}

func (m *MockAuditRecorder) Record(entry models.AuditEntry) {
	m.Called(entry)
}

func (m *MockAuditRecorder) Query(ctx context.Context, recordID string) ([]models.AuditEntry, error) {
	args := m.Called(ctx, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AuditEntry), args.Error(1)
}

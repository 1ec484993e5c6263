package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/healthtrack/healthtrack-api/internal/models"
)

// MockFamilyMemberDAO is a mock implementation of FamilyMemberDAO
type MockFamilyMemberDAO struct {
	mock.Mock
}

func (m *MockFamilyMemberDAO) Create(ctx context.Context, member *models.FamilyMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockFamilyMemberDAO) GetByID(ctx context.Context, userID, memberID string) (*models.FamilyMember, error) {
	args := m.Called(ctx, userID, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FamilyMember), args.Error(1)
}

func (m *MockFamilyMemberDAO) ListByUser(ctx context.Context, userID string) ([]models.FamilyMember, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FamilyMember), args.Error(1)
}

func (m *MockFamilyMemberDAO) SetEmergencyProfile(ctx context.Context, userID, memberID string, enabled bool) error {
	args := m.Called(ctx, userID, memberID, enabled)
	return args.Error(0)
}

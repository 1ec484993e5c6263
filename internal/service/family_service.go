package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/healthtrack/healthtrack-api/internal/dao"
	"github.com/healthtrack/healthtrack-api/internal/models"
	"github.com/healthtrack/healthtrack-api/internal/serviceerror"
	"github.com/healthtrack/healthtrack-api/pkg/utils"
)

// FamilyService manages a user's family members
type FamilyService struct {
	familyDAO FamilyMemberStore
	logger    *logrus.Logger
}

// NewFamilyService creates a new family service instance
func NewFamilyService(familyDAO FamilyMemberStore, logger *logrus.Logger) *FamilyService {
	return &FamilyService{familyDAO: familyDAO, logger: logger}
}

// ListMembers returns the owner's family members in the order they were added
func (s *FamilyService) ListMembers(ctx context.Context, actor *models.User, userID string) ([]models.FamilyMember, error) {
	if err := requireOwner(actor, userID); err != nil {
		return nil, err
	}

	members, err := s.familyDAO.ListByUser(ctx, userID)
	if err != nil {
		return nil, serviceerror.Wrap(serviceerror.PersistenceError, err, "Failed to list family members")
	}
	return members, nil
}

// AddMember adds a family member to the owner's account
func (s *FamilyService) AddMember(ctx context.Context, actor *models.User, userID string, req *models.FamilyMemberRequest) (*models.FamilyMember, error) {
	if err := requireOwner(actor, userID); err != nil {
		return nil, err
	}

	name := utils.SanitizeString(req.Name)
	relation := utils.SanitizeString(req.Relation)
	if name == "" || relation == "" || req.Age <= 0 {
		return nil, serviceerror.CustomServiceError(serviceerror.InvalidRequest, "Name, relation, and age are required")
	}

	member := &models.FamilyMember{
		ID:                  utils.GenerateFamilyMemberID(),
		UserID:              userID,
		Name:                name,
		Relation:            relation,
		Age:                 req.Age,
		HasEmergencyProfile: req.HasEmergencyProfile,
		CreatedAt:           utils.Now(),
	}
	if err := s.familyDAO.Create(ctx, member); err != nil {
		return nil, serviceerror.Wrap(serviceerror.PersistenceError, err, "Failed to add family member")
	}

	s.logger.WithFields(logrus.Fields{
		"member_id": member.ID,
		"user_id":   userID,
	}).Info("Family member added")
	return member, nil
}

// ToggleEmergencyProfile flips the member's hasEmergencyProfile flag
func (s *FamilyService) ToggleEmergencyProfile(ctx context.Context, actor *models.User, userID, memberID string) (*models.FamilyMember, error) {
	if err := requireOwner(actor, userID); err != nil {
		return nil, err
	}

	member, err := s.familyDAO.GetByID(ctx, userID, memberID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return nil, familyMemberNotFound()
		}
		return nil, serviceerror.Wrap(serviceerror.PersistenceError, err, "Failed to load family member")
	}

	enabled := !member.HasEmergencyProfile
	if err := s.familyDAO.SetEmergencyProfile(ctx, userID, memberID, enabled); err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return nil, familyMemberNotFound()
		}
		return nil, serviceerror.Wrap(serviceerror.PersistenceError, err, "Failed to update family member")
	}
	member.HasEmergencyProfile = enabled
	return member, nil
}

func familyMemberNotFound() error {
	return serviceerror.CustomServiceError(serviceerror.NotFound, "Family member not found")
}

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

// EmergencyService manages emergency profiles
type EmergencyService struct {
	profileDAO EmergencyProfileStore
	logger     *logrus.Logger
}

// NewEmergencyService creates a new emergency service instance
func NewEmergencyService(profileDAO EmergencyProfileStore, logger *logrus.Logger) *EmergencyService {
	return &EmergencyService{profileDAO: profileDAO, logger: logger}
}

// Get returns the owner's full profile
func (s *EmergencyService) Get(ctx context.Context, actor *models.User, userID string) (*models.EmergencyProfile, error) {
	if err := requireOwner(actor, userID); err != nil {
		return nil, err
	}
	return s.load(ctx, userID)
}

// GetPublic returns the profile filtered by its visibility settings
func (s *EmergencyService) GetPublic(ctx context.Context, userID string) (*models.PublicEmergencyProfile, error) {
	profile, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return profile.Public(), nil
}

func (s *EmergencyService) load(ctx context.Context, userID string) (*models.EmergencyProfile, error) {
	profile, err := s.profileDAO.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return nil, serviceerror.CustomServiceError(serviceerror.NotFound, "Emergency profile not found")
		}
		return nil, serviceerror.Wrap(serviceerror.PersistenceError, err, "Failed to load emergency profile")
	}
	return profile, nil
}

// Upsert creates or replaces the owner's profile. Omitted lists are stored
// empty; an omitted visibility keeps the stored one.
func (s *EmergencyService) Upsert(ctx context.Context, actor *models.User, userID string, req *models.EmergencyProfileRequest) (*models.EmergencyProfile, error) {
	if err := requireOwner(actor, userID); err != nil {
		return nil, err
	}

	bloodGroup := utils.SanitizeString(req.BloodGroup)
	if bloodGroup == "" {
		return nil, serviceerror.CustomServiceError(serviceerror.InvalidRequest, "bloodGroup is required")
	}

	name := utils.SanitizeString(req.Name)
	if name == "" {
		name = models.UnknownUserName
	}

	visibility := models.DefaultVisibility()
	if req.Visibility != nil {
		visibility = *req.Visibility
	} else {
		existing, err := s.profileDAO.Get(ctx, userID)
		switch {
		case err == nil:
			visibility = existing.Visibility
		case !errors.Is(err, dao.ErrNotFound):
			return nil, serviceerror.Wrap(serviceerror.PersistenceError, err, "Failed to load emergency profile")
		}
	}

	profile := &models.EmergencyProfile{
		UserID:            userID,
		Name:              name,
		BloodGroup:        bloodGroup,
		Allergies:         nonNilStrings(req.Allergies),
		ChronicConditions: nonNilStrings(req.ChronicConditions),
		Medications:       nonNilStrings(req.Medications),
		EmergencyContacts: models.ContactList(req.EmergencyContacts),
		Visibility:        visibility,
		UpdatedAt:         utils.Now(),
	}
	if profile.EmergencyContacts == nil {
		profile.EmergencyContacts = models.ContactList{}
	}

	if err := s.profileDAO.Upsert(ctx, profile); err != nil {
		return nil, serviceerror.Wrap(serviceerror.PersistenceError, err, "Failed to save emergency profile")
	}

	s.logger.WithField("user_id", userID).Info("Emergency profile updated")
	return profile, nil
}

func nonNilStrings(items []string) models.StringList {
	if items == nil {
		return models.StringList{}
	}
	return models.StringList(items)
}

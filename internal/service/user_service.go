package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/healthtrack/healthtrack-api/internal/dao"
	"github.com/healthtrack/healthtrack-api/internal/models"
	"github.com/healthtrack/healthtrack-api/internal/serviceerror"
	"github.com/healthtrack/healthtrack-api/pkg/utils"
)

const minPasswordLength = 6

// UserService handles user registration and lookup
type UserService struct {
	userDAO UserStore
	logger  *logrus.Logger
}

// NewUserService creates a new user service instance
func NewUserService(userDAO UserStore, logger *logrus.Logger) *UserService {
	return &UserService{userDAO: userDAO, logger: logger}
}

// Register creates a user with a bcrypt-hashed password. The role defaults to PATIENT.
func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	name := utils.SanitizeString(req.Name)
	email := strings.ToLower(utils.SanitizeString(req.Email))

	if err := utils.ValidateRequired("name", name); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.InvalidRequest, err.Error())
	}
	if err := utils.ValidateMaxLength("name", name, 255); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.InvalidRequest, err.Error())
	}
	if err := utils.ValidateEmail(email); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.InvalidRequest, err.Error())
	}
	if err := utils.ValidateMinLength("password", req.Password, minPasswordLength); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.InvalidRequest, err.Error())
	}

	role := models.RolePatient
	if req.Role != "" {
		parsed, err := models.ParseRole(req.Role)
		if err != nil {
			return nil, serviceerror.CustomServiceError(serviceerror.InvalidRequest, err.Error())
		}
		role = parsed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, serviceerror.Wrap(serviceerror.InternalError, err, "Failed to hash password")
	}

	now := utils.Now()
	user := &models.User{
		ID:           utils.GenerateUserID(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if abha := utils.SanitizeString(req.AbhaID); abha != "" {
		user.AbhaID = &abha
	}

	if err := s.userDAO.Create(ctx, user); err != nil {
		if errors.Is(err, dao.ErrDuplicateKey) {
			return nil, serviceerror.CustomServiceError(serviceerror.Conflict, "Email already registered")
		}
		return nil, serviceerror.Wrap(serviceerror.PersistenceError, err, "Failed to create user")
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"role":    user.Role,
	}).Info("User registered")

	return user, nil
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userDAO.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return nil, serviceerror.CustomServiceError(serviceerror.NotFound, "User not found")
		}
		return nil, serviceerror.Wrap(serviceerror.PersistenceError, err, "Failed to load user")
	}
	return user, nil
}

// SearchPatients finds patients whose name or email contains query, ignoring case
func (s *UserService) SearchPatients(ctx context.Context, query string) ([]models.User, error) {
	users, err := s.userDAO.Search(ctx, models.RolePatient, utils.SanitizeString(query))
	if err != nil {
		return nil, serviceerror.Wrap(serviceerror.PersistenceError, err, "Failed to search patients")
	}
	return users, nil
}

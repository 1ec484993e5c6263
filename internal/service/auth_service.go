package service

import (
	"context"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/healthtrack/healthtrack-api/internal/config"
	"github.com/healthtrack/healthtrack-api/internal/dao"
	"github.com/healthtrack/healthtrack-api/internal/models"
	"github.com/healthtrack/healthtrack-api/internal/serviceerror"
	"github.com/healthtrack/healthtrack-api/pkg/utils"
)

const invalidCredentials = "Invalid email or password"

// Claims is the JWT payload issued at login
type Claims struct {
	jwt.RegisteredClaims
	Role models.Role `json:"role"`
}

// AuthService issues and verifies access tokens
type AuthService struct {
	userDAO UserStore
	cfg     config.JWTConfig
	logger  *logrus.Logger
}

// NewAuthService creates a new auth service instance
func NewAuthService(userDAO UserStore, cfg config.JWTConfig, logger *logrus.Logger) *AuthService {
	return &AuthService{userDAO: userDAO, cfg: cfg, logger: logger}
}

// Login checks the credentials and returns a signed token
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	user, err := s.userDAO.GetByEmail(ctx, strings.ToLower(utils.SanitizeString(email)))
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return nil, serviceerror.CustomServiceError(serviceerror.Unauthorized, invalidCredentials)
		}
		return nil, serviceerror.Wrap(serviceerror.PersistenceError, err, "Failed to load user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.WithField("user_id", user.ID).Warn("Login failed: password mismatch")
		return nil, serviceerror.CustomServiceError(serviceerror.Unauthorized, invalidCredentials)
	}

	token, claims, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      user.Summary(),
	}, nil
}

// IssueToken signs an HS256 token for user
func (s *AuthService) IssueToken(user *models.User) (string, *Claims, error) {
	now := utils.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TTL)),
		},
		Role: user.Role,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", nil, serviceerror.Wrap(serviceerror.InternalError, err, "Failed to sign token")
	}
	return token, claims, nil
}

// VerifyToken validates signature, issuer and expiry and returns the claims
func (s *AuthService) VerifyToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, serviceerror.Wrap(serviceerror.Unauthorized, err, "Invalid or expired token")
	}

	if _, err := models.ParseRole(string(claims.Role)); err != nil || claims.Subject == "" {
		return nil, serviceerror.CustomServiceError(serviceerror.Unauthorized, "Invalid token claims")
	}
	return claims, nil
}

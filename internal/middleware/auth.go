package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/healthtrack/healthtrack-api/internal/models"
	"github.com/healthtrack/healthtrack-api/internal/service"
	"github.com/healthtrack/healthtrack-api/internal/serviceerror"
	"github.com/healthtrack/healthtrack-api/internal/utils"
)

// TokenVerifier validates bearer tokens
type TokenVerifier interface {
	VerifyToken(token string) (*service.Claims, error)
}

// UserLoader loads the user a token was issued to
type UserLoader interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

// Authenticate requires a valid bearer token and stores the token's user in the context
func Authenticate(verifier TokenVerifier, users UserLoader, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			utils.SendUnauthorizedError(c, "Missing bearer token")
			return
		}

		claims, err := verifier.VerifyToken(strings.TrimSpace(token))
		if err != nil {
			utils.SendServiceError(c, err)
			return
		}

		user, err := users.GetUser(c.Request.Context(), claims.Subject)
		if err != nil {
			if serviceerror.From(err).Code == serviceerror.NotFound.Code {
				utils.SendUnauthorizedError(c, "Token subject no longer exists")
				return
			}
			utils.SendServiceError(c, err)
			return
		}
		if user.Role != claims.Role {
			logger.WithFields(logrus.Fields{
				"user_id":    user.ID,
				"token_role": claims.Role,
				"user_role":  user.Role,
			}).Warn("Token role does not match user")
			utils.SendUnauthorizedError(c, "Token is out of date")
			return
		}

		c.Set(utils.CurrentUserKey, user)
		c.Next()
	}
}

// RequireRoles rejects authenticated users whose role is not listed
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := utils.GetCurrentUser(c)
		if user == nil {
			utils.SendUnauthorizedError(c, "Authentication is required")
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		utils.SendForbiddenError(c, "This action requires role "+joinRoles(roles))
	}
}

func joinRoles(roles []models.Role) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.String()
	}
	return strings.Join(names, " or ")
}

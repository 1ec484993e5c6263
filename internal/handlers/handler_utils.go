package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/healthtrack/healthtrack-api/internal/models"
	"github.com/healthtrack/healthtrack-api/internal/utils"
)

// currentUser returns the authenticated user, or sends 401 and returns nil
func currentUser(c *gin.Context) *models.User {
	user := utils.GetCurrentUser(c)
	if user == nil {
		utils.SendUnauthorizedError(c, "Authentication is required")
	}
	return user
}

// bindJSON binds the request body into dest, or sends 400 and returns false
func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return false
	}
	return true
}

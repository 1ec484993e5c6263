package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/healthtrack/healthtrack-api/internal/models"
	"github.com/healthtrack/healthtrack-api/internal/service"
	"github.com/healthtrack/healthtrack-api/internal/utils"
)

// EmergencyHandler serves emergency profiles
type EmergencyHandler struct {
	emergencyService *service.EmergencyService
}

// NewEmergencyHandler creates a new emergency handler instance
func NewEmergencyHandler(emergencyService *service.EmergencyService) *EmergencyHandler {
	return &EmergencyHandler{emergencyService: emergencyService}
}

// GetPublic handles GET /api/emergency/:userId without authentication
func (h *EmergencyHandler) GetPublic(c *gin.Context) {
	profile, err := h.emergencyService.GetPublic(c.Request.Context(), c.Param("userId"))
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "", profile)
}

// Get handles GET /api/users/:userId/emergency for the profile owner
func (h *EmergencyHandler) Get(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	profile, err := h.emergencyService.Get(c.Request.Context(), user, c.Param("userId"))
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "", profile)
}

// Upsert handles POST /api/emergency/:userId
func (h *EmergencyHandler) Upsert(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var req models.EmergencyProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.emergencyService.Upsert(c.Request.Context(), user, c.Param("userId"), &req)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "Emergency profile updated", profile)
}

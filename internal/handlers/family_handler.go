package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/healthtrack/healthtrack-api/internal/models"
	"github.com/healthtrack/healthtrack-api/internal/service"
	"github.com/healthtrack/healthtrack-api/internal/utils"
)

// FamilyHandler handles a user's family members
type FamilyHandler struct {
	familyService *service.FamilyService
}

// NewFamilyHandler creates a new family handler instance
func NewFamilyHandler(familyService *service.FamilyService) *FamilyHandler {
	return &FamilyHandler{familyService: familyService}
}

// List handles GET /api/users/:userId/family
func (h *FamilyHandler) List(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	members, err := h.familyService.ListMembers(c.Request.Context(), user, c.Param("userId"))
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "", members)
}

// Add handles POST /api/users/:userId/family
func (h *FamilyHandler) Add(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var req models.FamilyMemberRequest
	if !bindJSON(c, &req) {
		return
	}

	member, err := h.familyService.AddMember(c.Request.Context(), user, c.Param("userId"), &req)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendCreatedResponse(c, models.NewSuccessResponse("", member))
}

// ToggleEmergency handles PATCH /api/users/:userId/family/:memberId/toggle-emergency
func (h *FamilyHandler) ToggleEmergency(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	member, err := h.familyService.ToggleEmergencyProfile(c.Request.Context(), user, c.Param("userId"), c.Param("memberId"))
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "", member)
}

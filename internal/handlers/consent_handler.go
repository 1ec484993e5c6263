package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/healthtrack/healthtrack-api/internal/models"
	"github.com/healthtrack/healthtrack-api/internal/service"
	"github.com/healthtrack/healthtrack-api/internal/utils"
)

// ConsentHandler handles consent-related HTTP requests
type ConsentHandler struct {
	consentService *service.ConsentService
}

// NewConsentHandler creates a new consent handler instance
func NewConsentHandler(consentService *service.ConsentService) *ConsentHandler {
	return &ConsentHandler{consentService: consentService}
}

// RequestAccess handles POST /api/consent/request.
// doctorId defaults to the caller and may not name anyone else.
func (h *ConsentHandler) RequestAccess(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var req models.ConsentRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.DoctorID == "" {
		req.DoctorID = user.ID
	}
	if req.DoctorID != user.ID {
		utils.SendForbiddenError(c, "doctorId must be the authenticated doctor")
		return
	}

	sendRequestAccessResult(c, h.consentService, user.ID, req.PatientID)
}

func sendRequestAccessResult(c *gin.Context, consentService *service.ConsentService, doctorID, patientID string) {
	result, err := consentService.RequestAccess(c.Request.Context(), doctorID, patientID)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, result.Message, result)
}

// ListPending handles GET /api/consent/pending?patientId=
func (h *ConsentHandler) ListPending(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	patientID := c.DefaultQuery("patientId", user.ID)
	if patientID != user.ID {
		utils.SendForbiddenError(c, "You can only list your own pending requests")
		return
	}

	pending, err := h.consentService.ListPendingForPatient(c.Request.Context(), patientID)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "", pending)
}

// Respond handles PUT /api/consent/:consentId
func (h *ConsentHandler) Respond(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var req models.ConsentDecisionRequest
	if !bindJSON(c, &req) {
		return
	}

	consent, err := h.consentService.RespondToRequest(c.Request.Context(), c.Param("consentId"), user.ID, req.Status)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, fmt.Sprintf("Request %s", consent.Status), consent)
}

// History handles GET /api/consent/:consentId/history
func (h *ConsentHandler) History(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	history, err := h.consentService.GetHistory(c.Request.Context(), c.Param("consentId"), user.ID)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "", history)
}

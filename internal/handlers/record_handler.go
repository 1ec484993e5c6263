package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/healthtrack/healthtrack-api/internal/models"
	"github.com/healthtrack/healthtrack-api/internal/service"
	"github.com/healthtrack/healthtrack-api/internal/utils"
)

// RecordHandler handles a user's own health records
type RecordHandler struct {
	recordService *service.RecordService
}

// NewRecordHandler creates a new record handler instance
func NewRecordHandler(recordService *service.RecordService) *RecordHandler {
	return &RecordHandler{recordService: recordService}
}

// List handles GET /api/users/:userId/records
func (h *RecordHandler) List(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	records, err := h.recordService.ListRecords(c.Request.Context(), user, c.Param("userId"))
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "", records)
}

// Get handles GET /api/users/:userId/records/:recordId
func (h *RecordHandler) Get(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	record, err := h.recordService.GetRecord(c.Request.Context(), user, c.Param("userId"), c.Param("recordId"))
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "", record)
}

// Create handles POST /api/users/:userId/records
func (h *RecordHandler) Create(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var req models.RecordCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequestError(c, "title, type and providerName are required", err.Error())
		return
	}

	record, err := h.recordService.CreateRecord(c.Request.Context(), user, c.Param("userId"), &req)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendCreatedResponse(c, models.NewSuccessResponse("", record))
}

// Delete handles DELETE /api/users/:userId/records/:recordId
func (h *RecordHandler) Delete(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	if err := h.recordService.DeleteRecord(c.Request.Context(), user, c.Param("userId"), c.Param("recordId")); err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "Record deleted", nil)
}

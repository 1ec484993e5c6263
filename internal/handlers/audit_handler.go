package handlers

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/healthtrack/healthtrack-api/internal/models"
	"github.com/healthtrack/healthtrack-api/internal/service"
	"github.com/healthtrack/healthtrack-api/internal/utils"
)

// AuditHandler exposes the record access log
type AuditHandler struct {
	audit         service.AuditRecorder
	recordService *service.RecordService
}

// NewAuditHandler creates a new audit handler instance
func NewAuditHandler(audit service.AuditRecorder, recordService *service.RecordService) *AuditHandler {
	return &AuditHandler{audit: audit, recordService: recordService}
}

// List handles GET /api/audit/:recordId for the record owner
func (h *AuditHandler) List(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	entries, err := h.recordService.GetAccessLog(c.Request.Context(), user, c.Param("recordId"))
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "", entries)
}

// Log handles POST /api/audit/:recordId. The write is fire-and-forget and the
// response never reports its outcome. An empty body is accepted.
func (h *AuditHandler) Log(c *gin.Context) {
	var req models.AuditLogRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}

	h.audit.Record(models.AuditEntry{
		RecordID: c.Param("recordId"),
		ViewerID: req.ViewerID,
		Username: req.Username,
		Action:   req.Action,
	})
	utils.SendSuccess(c, "", nil)
}

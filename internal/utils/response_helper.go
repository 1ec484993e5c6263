package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/healthtrack/healthtrack-api/internal/models"
	"github.com/healthtrack/healthtrack-api/internal/serviceerror"
)

// Gin context keys set by the middleware
const (
	CorrelationIDKey = "correlation_id"
	CurrentUserKey   = "current_user"
)

var statusByCode = map[string]int{
	serviceerror.NotFound.Code:         http.StatusNotFound,
	serviceerror.DuplicateRequest.Code: http.StatusBadRequest,
	serviceerror.InvalidDecision.Code:  http.StatusBadRequest,
	serviceerror.InvalidRequest.Code:   http.StatusBadRequest,
	serviceerror.Unauthorized.Code:     http.StatusUnauthorized,
	serviceerror.AccessDenied.Code:     http.StatusForbidden,
	serviceerror.Conflict.Code:         http.StatusConflict,
	serviceerror.PersistenceError.Code: http.StatusInternalServerError,
	serviceerror.InternalError.Code:    http.StatusInternalServerError,
}

// HTTPStatus returns the HTTP status for a service error code
func HTTPStatus(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// SendServiceError renders err with the status mapped from its code.
// The wrapped cause is never rendered.
func SendServiceError(c *gin.Context, err error) {
	se := serviceerror.From(err)
	_ = c.Error(err)
	SendErrorResponse(c, HTTPStatus(se.Code), se.Code, se.Message, se.Description)
}

// SendSuccess sends the {success, message, data} envelope with status 200
func SendSuccess(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, models.NewSuccessResponse(message, data))
}

// SendErrorResponse sends an error JSON response
func SendErrorResponse(c *gin.Context, statusCode int, errCode, message, details string) {
	c.AbortWithStatusJSON(statusCode, models.NewErrorResponse(errCode, message, details))
}

// SendCreatedResponse sends a 201 Created response
func SendCreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// SendBadRequestError sends a 400 Bad Request error
func SendBadRequestError(c *gin.Context, message, details string) {
	SendErrorResponse(c, http.StatusBadRequest, serviceerror.InvalidRequest.Code, message, details)
}

// SendUnauthorizedError sends a 401 Unauthorized error
func SendUnauthorizedError(c *gin.Context, details string) {
	SendErrorResponse(c, http.StatusUnauthorized, serviceerror.Unauthorized.Code, serviceerror.Unauthorized.Message, details)
}

// SendForbiddenError sends a 403 Forbidden error
func SendForbiddenError(c *gin.Context, details string) {
	SendErrorResponse(c, http.StatusForbidden, serviceerror.AccessDenied.Code, serviceerror.AccessDenied.Message, details)
}

// GetCurrentUser returns the authenticated user set by the auth middleware
func GetCurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(CurrentUserKey)
	if !exists {
		return nil
	}
	user, _ := value.(*models.User)
	return user
}

// GetCorrelationIDFromContext extracts correlation ID from context
func GetCorrelationIDFromContext(c *gin.Context) string {
	return c.GetString(CorrelationIDKey)
}

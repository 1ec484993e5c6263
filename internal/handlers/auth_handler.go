package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/healthtrack/healthtrack-api/internal/models"
	"github.com/healthtrack/healthtrack-api/internal/service"
	"github.com/healthtrack/healthtrack-api/internal/utils"
)

// AuthHandler handles registration and login
type AuthHandler struct {
	userService *service.UserService
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler instance
func NewAuthHandler(userService *service.UserService, authService *service.AuthService) *AuthHandler {
	return &AuthHandler{userService: userService, authService: authService}
}

// Register handles POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Register(c.Request.Context(), &req)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendCreatedResponse(c, models.NewSuccessResponse("User registered", user.Summary()))
}

// Login handles POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "Login successful", resp)
}

// Me handles GET /api/me
func (h *AuthHandler) Me(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	utils.SendSuccess(c, "", user.Summary())
}

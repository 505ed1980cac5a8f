package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/amiyamandal-dev/newscms/internal/domain"
	"github.com/amiyamandal-dev/newscms/internal/service"
	"github.com/amiyamandal-dev/newscms/pkg/logger"
	"github.com/amiyamandal-dev/newscms/pkg/response"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	authService *service.AuthService
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      log.WithComponent("auth-handler"),
	}
}

// Login handles admin login
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	loginResp, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			response.Unauthorized(c, "Invalid credentials")
			return
		}
		h.logger.Error("Login failed", "error", err)
		response.InternalServerError(c, "Failed to login")
		return
	}

	response.Success(c, loginResp)
}

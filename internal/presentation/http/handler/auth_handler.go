package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/nirmalkarki/udharo-api/internal/application/service"
	"github.com/nirmalkarki/udharo-api/internal/presentation/http/dto/request"
	"github.com/nirmalkarki/udharo-api/internal/presentation/http/dto/response"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles user login
// @Summary Login
// @Description Authenticate user and return an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Login credentials"
// @Success 200 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Login successful", gin.H{
		"user": gin.H{
			"id":       result.User.ID,
			"name":     result.User.Name,
			"username": result.User.Username,
			"role":     result.User.Role,
			"store_id": result.User.StoreID,
		},
		"permissions":  result.Permissions,
		"access_token": result.AccessToken,
		"token_type":   "Bearer",
	})
}

// Logout handles user logout
// @Summary Logout
// @Description Logout user (client should discard the token)
// @Tags auth
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	// JWT is stateless; the client discards the token.
	response.OK(c, "Logged out successfully", nil)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leavehub/hr-platform-api/internal/config"
	"github.com/leavehub/hr-platform-api/internal/middleware"
	"github.com/leavehub/hr-platform-api/internal/services"
	"github.com/leavehub/hr-platform-api/pkg/utils"
)

type AuthHandler struct {
	authService *services.AuthService
	security    config.SecurityConfig
}

func NewAuthHandler(authService *services.AuthService, security config.SecurityConfig) *AuthHandler {
	return &AuthHandler{authService: authService, security: security}
}

type signupRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

// Signup registers a new account. The account starts with no memberships;
// the user either creates an organization or accepts an invitation next.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.authService.Signup(c.Request.Context(), services.SignupInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SendCreatedResponse(c, "account created", profile)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, tokens, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SendSuccessResponse(c, gin.H{
		"user":   profile,
		"tokens": tokens,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	tokens, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SendSuccessResponse(c, tokens)
}

// Logout clears the workspace cookie. Access tokens are stateless, so there
// is nothing else to revoke server-side; clients drop their tokens.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.security.OrgCookieName, "", -1, "/", h.security.CookieDomain, h.security.CookieSecure, true)
	utils.SendMessageResponse(c, "logged out")
}

func (h *AuthHandler) Profile(c *gin.Context) {
	profile, err := h.authService.GetProfile(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SendSuccessResponse(c, profile)
}

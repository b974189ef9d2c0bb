package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leavehub/hr-platform-api/internal/config"
	"github.com/leavehub/hr-platform-api/internal/middleware"
	"github.com/leavehub/hr-platform-api/internal/services"
	"github.com/leavehub/hr-platform-api/pkg/utils"
)

type WorkspaceHandler struct {
	workspaceService *services.WorkspaceService
	jwtService       *services.JWTService
	security         config.SecurityConfig
}

func NewWorkspaceHandler(
	workspaceService *services.WorkspaceService,
	jwtService *services.JWTService,
	security config.SecurityConfig,
) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaceService: workspaceService,
		jwtService:       jwtService,
		security:         security,
	}
}

// ListOrganizations returns every active membership of the caller, across
// all organizations. This endpoint runs before org-context resolution: it is
// what a user with no default workspace uses to pick one.
func (h *WorkspaceHandler) ListOrganizations(c *gin.Context) {
	memberships, err := h.workspaceService.ListOrganizations(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SendSuccessResponse(c, memberships)
}

type switchRequest struct {
	OrganizationID string `json:"organization_id" binding:"required"`
}

// Switch validates the caller's membership in the target organization and
// sets the signed workspace cookie. It performs no writes; switching is
// idempotent and affects only this browser's subsequent requests.
func (h *WorkspaceHandler) Switch(c *gin.Context) {
	var req switchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := middleware.GetUserID(c)
	membership, err := h.workspaceService.Switch(c.Request.Context(), userID, req.OrganizationID)
	if err != nil {
		RespondError(c, err)
		return
	}

	pointer, err := h.jwtService.GenerateOrgPointer(userID, membership.OrganizationID)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		h.security.OrgCookieName,
		pointer,
		int(h.security.OrgCookieExpiry.Seconds()),
		"/",
		h.security.CookieDomain,
		h.security.CookieSecure,
		true,
	)

	utils.SendSuccessResponse(c, gin.H{
		"organization_id": membership.OrganizationID,
		"role":            membership.Role,
	})
}

type setDefaultRequest struct {
	OrganizationID string `json:"organization_id" binding:"required"`
}

// SetDefault marks the target organization as the caller's fallback
// workspace for requests that carry no explicit hint.
func (h *WorkspaceHandler) SetDefault(c *gin.Context) {
	var req setDefaultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.workspaceService.SetDefault(c.Request.Context(), middleware.GetUserID(c), req.OrganizationID)
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SendMessageResponse(c, "default organization updated")
}

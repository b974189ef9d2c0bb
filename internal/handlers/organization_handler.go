package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leavehub/hr-platform-api/internal/middleware"
	"github.com/leavehub/hr-platform-api/internal/services"
	"github.com/leavehub/hr-platform-api/pkg/utils"
)

type OrganizationHandler struct {
	organizationService *services.OrganizationService
}

func NewOrganizationHandler(organizationService *services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{organizationService: organizationService}
}

type createOrganizationRequest struct {
	Name                string `json:"name" binding:"required"`
	Slug                string `json:"slug" binding:"required"`
	GoogleDomain        string `json:"google_domain"`
	RequireGoogleDomain bool   `json:"require_google_domain"`
}

// Create runs outside the org-context chain: any authenticated user can
// start an organization and becomes its admin.
func (h *OrganizationHandler) Create(c *gin.Context) {
	var req createOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	org, err := h.organizationService.Create(c.Request.Context(), middleware.GetUserID(c), services.CreateOrganizationInput{
		Name:                req.Name,
		Slug:                req.Slug,
		GoogleDomain:        req.GoogleDomain,
		RequireGoogleDomain: req.RequireGoogleDomain,
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SendCreatedResponse(c, "organization created", org)
}

// Get returns the resolved organization.
func (h *OrganizationHandler) Get(c *gin.Context) {
	org, err := h.organizationService.Get(c.Request.Context(), middleware.GetOrgContext(c))
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SendSuccessResponse(c, org)
}

// Delete soft-deletes the resolved organization and deactivates every
// membership in it.
func (h *OrganizationHandler) Delete(c *gin.Context) {
	if err := h.organizationService.Delete(c.Request.Context(), middleware.GetOrgContext(c)); err != nil {
		RespondError(c, err)
		return
	}

	utils.SendMessageResponse(c, "organization deleted")
}

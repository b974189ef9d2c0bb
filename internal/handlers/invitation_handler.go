package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leavehub/hr-platform-api/internal/middleware"
	"github.com/leavehub/hr-platform-api/internal/models"
	"github.com/leavehub/hr-platform-api/internal/services"
	"github.com/leavehub/hr-platform-api/pkg/utils"
)

type InvitationHandler struct {
	invitationService *services.InvitationService
}

func NewInvitationHandler(invitationService *services.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitationService: invitationService}
}

type createInvitationRequest struct {
	Email string      `json:"email" binding:"required,email"`
	Role  models.Role `json:"role"`
}

func (h *InvitationHandler) Create(c *gin.Context) {
	var req createInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	invitation, err := h.invitationService.Create(c.Request.Context(), middleware.GetOrgContext(c), services.CreateInvitationInput{
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SendCreatedResponse(c, "invitation sent", invitation)
}

func (h *InvitationHandler) List(c *gin.Context) {
	invitations, err := h.invitationService.List(c.Request.Context(), middleware.GetOrgContext(c))
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SendSuccessResponse(c, invitations)
}

func (h *InvitationHandler) Cancel(c *gin.Context) {
	if err := h.invitationService.Cancel(c.Request.Context(), middleware.GetOrgContext(c), c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}

	utils.SendMessageResponse(c, "invitation cancelled")
}

type acceptInvitationRequest struct {
	Token string `json:"token" binding:"required"`
}

// Accept redeems an invitation token for the authenticated caller. It runs
// before org-context resolution: a brand-new user has no workspace yet.
func (h *InvitationHandler) Accept(c *gin.Context) {
	var req acceptInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	membership, err := h.invitationService.Accept(c.Request.Context(), middleware.GetUserID(c), req.Token)
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SendSuccessResponse(c, membership)
}

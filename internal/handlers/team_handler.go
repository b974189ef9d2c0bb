package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leavehub/hr-platform-api/internal/middleware"
	"github.com/leavehub/hr-platform-api/internal/services"
	"github.com/leavehub/hr-platform-api/pkg/utils"
)

type TeamHandler struct {
	teamService *services.TeamService
}

func NewTeamHandler(teamService *services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

func (h *TeamHandler) List(c *gin.Context) {
	teams, err := h.teamService.List(c.Request.Context(), middleware.GetOrgContext(c))
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SendSuccessResponse(c, teams)
}

type teamRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h *TeamHandler) Create(c *gin.Context) {
	var req teamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	team, err := h.teamService.Create(c.Request.Context(), middleware.GetOrgContext(c), req.Name, req.Description)
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SendCreatedResponse(c, "team created", team)
}

func (h *TeamHandler) Get(c *gin.Context) {
	team, err := h.teamService.Get(c.Request.Context(), middleware.GetOrgContext(c), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SendSuccessResponse(c, team)
}

func (h *TeamHandler) Update(c *gin.Context) {
	var req teamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	team, err := h.teamService.Update(c.Request.Context(), middleware.GetOrgContext(c), c.Param("id"), req.Name, req.Description)
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SendSuccessResponse(c, team)
}

func (h *TeamHandler) Delete(c *gin.Context) {
	if err := h.teamService.Delete(c.Request.Context(), middleware.GetOrgContext(c), c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}

	utils.SendMessageResponse(c, "team deleted")
}

type teamMemberRequest struct {
	ProfileID string `json:"profile_id" binding:"required"`
}

func (h *TeamHandler) AddMember(c *gin.Context) {
	var req teamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	member, err := h.teamService.AddMember(c.Request.Context(), middleware.GetOrgContext(c), c.Param("id"), req.ProfileID)
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SendCreatedResponse(c, "member added", member)
}

func (h *TeamHandler) RemoveMember(c *gin.Context) {
	err := h.teamService.RemoveMember(c.Request.Context(), middleware.GetOrgContext(c), c.Param("id"), c.Param("profileId"))
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SendMessageResponse(c, "member removed")
}

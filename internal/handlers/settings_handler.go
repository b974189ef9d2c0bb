package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leavehub/hr-platform-api/internal/middleware"
	"github.com/leavehub/hr-platform-api/internal/services"
	"github.com/leavehub/hr-platform-api/pkg/utils"
)

type SettingsHandler struct {
	settingsService *services.SettingsService
}

func NewSettingsHandler(settingsService *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settingsService.Get(c.Request.Context(), middleware.GetOrgContext(c))
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SendSuccessResponse(c, settings)
}

type updateSettingsRequest struct {
	AnnualLeaveDays *int    `json:"annual_leave_days"`
	CarryOverDays   *int    `json:"carry_over_days"`
	RequireApproval *bool   `json:"require_approval"`
	Timezone        *string `json:"timezone"`
}

func (h *SettingsHandler) Update(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	settings, err := h.settingsService.Update(c.Request.Context(), middleware.GetOrgContext(c), services.UpdateSettingsInput{
		AnnualLeaveDays: req.AnnualLeaveDays,
		CarryOverDays:   req.CarryOverDays,
		RequireApproval: req.RequireApproval,
		Timezone:        req.Timezone,
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SendSuccessResponse(c, settings)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leavehub/hr-platform-api/internal/middleware"
	"github.com/leavehub/hr-platform-api/internal/services"
	"github.com/leavehub/hr-platform-api/pkg/utils"
)

type BillingHandler struct {
	billingService *services.BillingService
}

func NewBillingHandler(billingService *services.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

func (h *BillingHandler) GetSubscription(c *gin.Context) {
	sub, err := h.billingService.GetSubscription(c.Request.Context(), middleware.GetOrgContext(c))
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SendSuccessResponse(c, sub)
}

type changePlanRequest struct {
	Plan string `json:"plan" binding:"required"`
}

func (h *BillingHandler) ChangePlan(c *gin.Context) {
	var req changePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	sub, err := h.billingService.ChangePlan(c.Request.Context(), middleware.GetOrgContext(c), req.Plan)
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SendSuccessResponse(c, sub)
}

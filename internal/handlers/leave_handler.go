package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/leavehub/hr-platform-api/internal/middleware"
	"github.com/leavehub/hr-platform-api/internal/models"
	"github.com/leavehub/hr-platform-api/internal/services"
	"github.com/leavehub/hr-platform-api/pkg/utils"
)

type LeaveHandler struct {
	leaveService *services.LeaveService
	authorizer   *services.Authorizer
}

func NewLeaveHandler(leaveService *services.LeaveService, authorizer *services.Authorizer) *LeaveHandler {
	return &LeaveHandler{leaveService: leaveService, authorizer: authorizer}
}

type createLeaveRequest struct {
	Type      models.LeaveType `json:"type" binding:"required"`
	StartDate string           `json:"start_date" binding:"required"`
	EndDate   string           `json:"end_date" binding:"required"`
	Reason    string           `json:"reason"`
}

func (h *LeaveHandler) Create(c *gin.Context) {
	var req createLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
		return
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "end_date must be YYYY-MM-DD")
		return
	}

	request, err := h.leaveService.Create(c.Request.Context(), middleware.GetOrgContext(c), services.CreateLeaveInput{
		Type:      req.Type,
		StartDate: startDate,
		EndDate:   endDate,
		Reason:    req.Reason,
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SendCreatedResponse(c, "leave request filed", request)
}

// List returns the caller's own requests, or every request in the
// organization when ?scope=all is passed by a reviewer.
func (h *LeaveHandler) List(c *gin.Context) {
	octx := middleware.GetOrgContext(c)
	page, limit := pagination(c)

	if c.Query("scope") == "all" {
		if err := h.authorizer.Authorize(octx.Role, services.CapReviewLeave); err != nil {
			RespondError(c, err)
			return
		}
		requests, total, err := h.leaveService.ListAll(c.Request.Context(), octx, page, limit)
		if err != nil {
			RespondError(c, err)
			return
		}
		utils.Paginated(c, requests, page, limit, total)
		return
	}

	requests, total, err := h.leaveService.ListOwn(c.Request.Context(), octx, page, limit)
	if err != nil {
		RespondError(c, err)
		return
	}
	utils.Paginated(c, requests, page, limit, total)
}

func (h *LeaveHandler) Get(c *gin.Context) {
	octx := middleware.GetOrgContext(c)
	canReview := h.authorizer.Can(octx.Role, services.CapReviewLeave)

	request, err := h.leaveService.Get(c.Request.Context(), octx, canReview, c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SendSuccessResponse(c, request)
}

func (h *LeaveHandler) Approve(c *gin.Context) {
	request, err := h.leaveService.Approve(c.Request.Context(), middleware.GetOrgContext(c), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SendSuccessResponse(c, request)
}

func (h *LeaveHandler) Reject(c *gin.Context) {
	request, err := h.leaveService.Reject(c.Request.Context(), middleware.GetOrgContext(c), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SendSuccessResponse(c, request)
}

func (h *LeaveHandler) Cancel(c *gin.Context) {
	request, err := h.leaveService.Cancel(c.Request.Context(), middleware.GetOrgContext(c), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SendSuccessResponse(c, request)
}

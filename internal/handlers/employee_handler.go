package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leavehub/hr-platform-api/internal/middleware"
	"github.com/leavehub/hr-platform-api/internal/models"
	"github.com/leavehub/hr-platform-api/internal/services"
	"github.com/leavehub/hr-platform-api/pkg/utils"
)

type EmployeeHandler struct {
	employeeService *services.EmployeeService
}

func NewEmployeeHandler(employeeService *services.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

func (h *EmployeeHandler) List(c *gin.Context) {
	page, limit := pagination(c)

	memberships, total, err := h.employeeService.List(c.Request.Context(), middleware.GetOrgContext(c), page, limit)
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.Paginated(c, memberships, page, limit, total)
}

type createEmployeeRequest struct {
	Email          string      `json:"email" binding:"required,email"`
	FirstName      string      `json:"first_name"`
	LastName       string      `json:"last_name"`
	Role           models.Role `json:"role"`
	EmploymentType string      `json:"employment_type"`
}

func (h *EmployeeHandler) Create(c *gin.Context) {
	var req createEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	membership, err := h.employeeService.Create(c.Request.Context(), middleware.GetOrgContext(c), services.CreateEmployeeInput{
		Email:          req.Email,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Role:           req.Role,
		EmploymentType: req.EmploymentType,
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SendCreatedResponse(c, "employee added", membership)
}

func (h *EmployeeHandler) Get(c *gin.Context) {
	membership, err := h.employeeService.Get(c.Request.Context(), middleware.GetOrgContext(c), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SendSuccessResponse(c, membership)
}

type updateEmployeeRequest struct {
	Role           *models.Role `json:"role"`
	EmploymentType *string      `json:"employment_type"`
}

func (h *EmployeeHandler) Update(c *gin.Context) {
	var req updateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	membership, err := h.employeeService.Update(c.Request.Context(), middleware.GetOrgContext(c), c.Param("id"), services.UpdateEmployeeInput{
		Role:           req.Role,
		EmploymentType: req.EmploymentType,
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SendSuccessResponse(c, membership)
}

func (h *EmployeeHandler) Deactivate(c *gin.Context) {
	if err := h.employeeService.Deactivate(c.Request.Context(), middleware.GetOrgContext(c), c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}

	utils.SendMessageResponse(c, "membership deactivated")
}

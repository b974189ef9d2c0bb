package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/leavehub/hr-platform-api/internal/apperrors"
	"github.com/leavehub/hr-platform-api/pkg/utils"
)

// RespondError translates a service error into an HTTP response. Only the
// classified public message is surfaced; internal causes are logged here and
// nowhere else.
func RespondError(c *gin.Context, err error) {
	switch apperrors.KindOf(err) {
	case apperrors.KindUnauthenticated:
		utils.SendErrorResponse(c, http.StatusUnauthorized, apperrors.PublicMessage(err))
	case apperrors.KindNoOrganizationContext:
		utils.SendErrorResponse(c, http.StatusBadRequest, apperrors.PublicMessage(err))
	case apperrors.KindAccessDenied, apperrors.KindForbidden:
		utils.SendErrorResponse(c, http.StatusForbidden, apperrors.PublicMessage(err))
	case apperrors.KindValidation:
		utils.SendErrorResponse(c, http.StatusBadRequest, apperrors.PublicMessage(err))
	default:
		utils.LogError(c.Request.Context(), "request failed", err)
		utils.SendErrorResponse(c, http.StatusInternalServerError, apperrors.PublicMessage(err))
	}
}

// pagination reads page/limit query parameters with sane bounds.
func pagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

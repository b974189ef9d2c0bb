package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leavehub/hr-platform-api/internal/apperrors"
	"github.com/leavehub/hr-platform-api/internal/services"
	"github.com/leavehub/hr-platform-api/pkg/utils"
)

const (
	// OrgHeaderName carries an explicit organization selection for one request.
	OrgHeaderName = "X-Organization-ID"
	// OrgQueryParam is the query-string equivalent of OrgHeaderName.
	OrgQueryParam = "organization_id"
)

type OrgContextMiddleware struct {
	orgContextService *services.OrgContextService
	jwtService        *services.JWTService
	authorizer        *services.Authorizer
	cookieName        string
}

func NewOrgContextMiddleware(
	orgContextService *services.OrgContextService,
	jwtService *services.JWTService,
	authorizer *services.Authorizer,
	cookieName string,
) *OrgContextMiddleware {
	return &OrgContextMiddleware{
		orgContextService: orgContextService,
		jwtService:        jwtService,
		authorizer:        authorizer,
		cookieName:        cookieName,
	}
}

// ResolveOrgContext establishes the organization context for the request.
//
// The hint order is: explicit request parameter (header, then query), then
// the signed workspace cookie, then the user's default membership. A cookie
// that fails signature verification or was signed for a different user is
// treated as absent rather than rejected, so a stale cookie never locks a
// user out of their default workspace.
func (m *OrgContextMiddleware) ResolveOrgContext() gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		userID := GetUserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": "Authentication required",
			})
			c.Abort()
			return
		}

		octx, err := m.orgContextService.Resolve(c.Request.Context(), userID, m.orgHint(c, userID))
		if err != nil {
			status := http.StatusForbidden
			if apperrors.KindOf(err) == apperrors.KindNoOrganizationContext {
				status = http.StatusBadRequest
			}
			utils.LogWarn(c.Request.Context(), "organization context resolution failed", utils.LogFields{
				"reason": err.Error(),
			})
			c.JSON(status, gin.H{
				"error":   http.StatusText(status),
				"message": apperrors.PublicMessage(err),
			})
			c.Abort()
			return
		}

		c.Set("org_context", octx)
		c.Set("organization_id", octx.OrganizationID)
		c.Set("role", string(octx.Role))

		ctx := context.WithValue(c.Request.Context(), "organization_id", octx.OrganizationID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	})
}

// orgHint picks the highest-priority organization hint from the request.
func (m *OrgContextMiddleware) orgHint(c *gin.Context, userID string) string {
	if hint := c.GetHeader(OrgHeaderName); hint != "" {
		return hint
	}
	if hint := c.Query(OrgQueryParam); hint != "" {
		return hint
	}

	cookie, err := c.Cookie(m.cookieName)
	if err != nil || cookie == "" {
		return ""
	}
	claims, err := m.jwtService.ParseOrgPointer(cookie)
	if err != nil || claims.UserID != userID {
		return ""
	}
	return claims.OrganizationID
}

// RequireCapability gates a route on the resolved role's capability set.
func (m *OrgContextMiddleware) RequireCapability(cap services.Capability) gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		octx := GetOrgContext(c)
		if octx == nil {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "Forbidden",
				"message": "Organization context required",
			})
			c.Abort()
			return
		}

		if err := m.authorizer.Authorize(octx.Role, cap); err != nil {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "Forbidden",
				"message": apperrors.PublicMessage(err),
			})
			c.Abort()
			return
		}

		c.Next()
	})
}

// GetOrgContext returns the resolved organization context, or nil when
// ResolveOrgContext has not run on this request.
func GetOrgContext(c *gin.Context) *services.OrgContext {
	if v, ok := c.Get("org_context"); ok {
		if octx, ok := v.(*services.OrgContext); ok {
			return octx
		}
	}
	return nil
}

package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leavehub/hr-platform-api/internal/apperrors"
	"github.com/leavehub/hr-platform-api/internal/models"
)

func TestEmployeeCapabilities(t *testing.T) {
	a := NewAuthorizer()

	allowed := []Capability{CapViewOwnLeave, CapCreateOwnLeave, CapCancelOwnLeave, CapViewSettings}
	for _, cap := range allowed {
		assert.True(t, a.Can(models.RoleEmployee, cap), "employee should hold %s", cap)
	}

	denied := []Capability{
		CapReviewLeave, CapViewMembers, CapManageTeams, CapManageMembers,
		CapManageSettings, CapManageInvites, CapManageBilling, CapAdminUtilities,
	}
	for _, cap := range denied {
		assert.False(t, a.Can(models.RoleEmployee, cap), "employee should not hold %s", cap)
	}
}

func TestManagerCapabilities(t *testing.T) {
	a := NewAuthorizer()

	assert.True(t, a.Can(models.RoleManager, CapReviewLeave))
	assert.True(t, a.Can(models.RoleManager, CapViewMembers))
	assert.True(t, a.Can(models.RoleManager, CapManageTeams))

	assert.False(t, a.Can(models.RoleManager, CapManageMembers))
	assert.False(t, a.Can(models.RoleManager, CapManageSettings))
	assert.False(t, a.Can(models.RoleManager, CapManageBilling))
	assert.False(t, a.Can(models.RoleManager, CapAdminUtilities))
}

// The grant sets are strictly nested: everything an employee can do a
// manager can do, and everything a manager can do an admin can do.
func TestRoleContainment(t *testing.T) {
	a := NewAuthorizer()

	all := []Capability{
		CapViewOwnLeave, CapCreateOwnLeave, CapCancelOwnLeave, CapReviewLeave,
		CapViewMembers, CapManageTeams, CapManageMembers, CapViewSettings,
		CapManageSettings, CapManageInvites, CapManageBilling, CapAdminUtilities,
	}

	for _, cap := range all {
		if a.Can(models.RoleEmployee, cap) {
			assert.True(t, a.Can(models.RoleManager, cap), "manager must hold employee capability %s", cap)
		}
		if a.Can(models.RoleManager, cap) {
			assert.True(t, a.Can(models.RoleAdmin, cap), "admin must hold manager capability %s", cap)
		}
		assert.True(t, a.Can(models.RoleAdmin, cap), "admin must hold %s", cap)
	}
}

func TestAuthorizeReturnsForbidden(t *testing.T) {
	a := NewAuthorizer()

	err := a.Authorize(models.RoleEmployee, CapReviewLeave)
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
	assert.Equal(t, "insufficient permissions", apperrors.PublicMessage(err))

	assert.NoError(t, a.Authorize(models.RoleAdmin, CapReviewLeave))
}

func TestUnknownRoleHoldsNothing(t *testing.T) {
	a := NewAuthorizer()

	assert.False(t, a.Can(models.Role("owner"), CapViewOwnLeave))
	assert.False(t, a.Can(models.Role(""), CapViewOwnLeave))
}

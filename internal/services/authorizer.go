package services

import (
	"github.com/leavehub/hr-platform-api/internal/apperrors"
	"github.com/leavehub/hr-platform-api/internal/models"
)

// Capability names a class of operation that a role may or may not perform
// within the organization it was resolved for.
type Capability string

const (
	CapViewOwnLeave   Capability = "leave:view_own"
	CapCreateOwnLeave Capability = "leave:create_own"
	CapCancelOwnLeave Capability = "leave:cancel_own"
	CapReviewLeave    Capability = "leave:review"
	CapViewMembers    Capability = "members:view"
	CapManageTeams    Capability = "teams:manage"
	CapManageMembers  Capability = "members:manage"
	CapViewSettings   Capability = "settings:view"
	CapManageSettings Capability = "settings:manage"
	CapManageInvites  Capability = "invitations:manage"
	CapManageBilling  Capability = "billing:manage"
	CapAdminUtilities Capability = "admin:utilities"
)

// roleCapabilities is the explicit rule table. The containment
// admin ⊇ manager ⊇ employee is written out literally rather than computed,
// so a role's grant set can only ever be read off this table, never
// inherited from another organization or another role at runtime.
var roleCapabilities = map[models.Role]map[Capability]bool{
	models.RoleEmployee: {
		CapViewOwnLeave:   true,
		CapCreateOwnLeave: true,
		CapCancelOwnLeave: true,
		CapViewSettings:   true,
	},
	models.RoleManager: {
		CapViewOwnLeave:   true,
		CapCreateOwnLeave: true,
		CapCancelOwnLeave: true,
		CapViewSettings:   true,
		CapReviewLeave:    true,
		CapViewMembers:    true,
		CapManageTeams:    true,
	},
	models.RoleAdmin: {
		CapViewOwnLeave:   true,
		CapCreateOwnLeave: true,
		CapCancelOwnLeave: true,
		CapViewSettings:   true,
		CapReviewLeave:    true,
		CapViewMembers:    true,
		CapManageTeams:    true,
		CapManageMembers:  true,
		CapManageSettings: true,
		CapManageInvites:  true,
		CapManageBilling:  true,
		CapAdminUtilities: true,
	},
}

type Authorizer struct{}

func NewAuthorizer() *Authorizer {
	return &Authorizer{}
}

// Authorize checks role against the required capability. The role must be
// the one resolved for the current request's organization; roles are never
// carried across organizations or requests.
func (a *Authorizer) Authorize(role models.Role, required Capability) error {
	if roleCapabilities[role][required] {
		return nil
	}
	return apperrors.Forbidden()
}

// Can is the boolean form of Authorize, for layered ownership checks.
func (a *Authorizer) Can(role models.Role, required Capability) bool {
	return roleCapabilities[role][required]
}

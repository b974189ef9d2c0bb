package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/leavehub/hr-platform-api/internal/apperrors"
	"github.com/leavehub/hr-platform-api/internal/database"
	"github.com/leavehub/hr-platform-api/internal/models"
	"github.com/leavehub/hr-platform-api/pkg/utils"
)

// Internal causes, kept out of responses. They classify denial sub-cases for
// logs; the caller always sees the same access-denied message.
var (
	errInvalidOrgID = errors.New("malformed organization id")
	errNotAMember   = errors.New("no active membership for organization")
)

// OrgContext is the single source of truth for every authorization decision
// in a request. It is produced exactly once, by Resolve, and threaded to all
// downstream calls; nothing downstream may re-derive the organization from
// request input.
type OrgContext struct {
	UserID         string
	OrganizationID string
	Role           models.Role
}

// Owns reports whether a resource's organization id matches this context.
func (o *OrgContext) Owns(organizationID string) bool {
	return o != nil && o.OrganizationID == organizationID
}

type OrgContextService struct {
	db database.Database
}

func NewOrgContextService(db database.Database) *OrgContextService {
	return &OrgContextService{db: db}
}

// Resolve determines the active organization for userID.
//
// explicitOrgID is the already-prioritized organization hint (request
// parameter first, then the verified cookie); empty means no hint, in which
// case the user's default active membership decides. Failure modes:
//
//   - empty userID: Unauthenticated
//   - no hint and no default membership: NoOrganizationContext
//   - malformed hint, unknown org, not a member, or membership revoked:
//     a single indistinguishable AccessDenied
func (s *OrgContextService) Resolve(ctx context.Context, userID, explicitOrgID string) (*OrgContext, error) {
	if userID == "" {
		return nil, apperrors.Unauthenticated()
	}

	if explicitOrgID != "" {
		if !utils.ValidateUUID(explicitOrgID) {
			return nil, apperrors.AccessDenied(errInvalidOrgID)
		}

		m, err := s.activeMembership(ctx, userID, explicitOrgID)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		if m == nil {
			return nil, apperrors.AccessDenied(errNotAMember)
		}

		return &OrgContext{UserID: userID, OrganizationID: m.OrganizationID, Role: m.Role}, nil
	}

	m, err := s.defaultMembership(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if m == nil {
		return nil, apperrors.NoOrganizationContext()
	}

	return &OrgContext{UserID: userID, OrganizationID: m.OrganizationID, Role: m.Role}, nil
}

// activeMembership returns the active membership for (userID, orgID), or nil
// when none exists. Inactive rows are filtered here so a revoked membership
// is indistinguishable from one that never existed.
func (s *OrgContextService) activeMembership(ctx context.Context, userID, orgID string) (*models.Membership, error) {
	var m models.Membership
	err := s.db.DB().WithContext(ctx).
		Where("profile_id = ? AND organization_id = ? AND is_active = ?", userID, orgID, true).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (s *OrgContextService) defaultMembership(ctx context.Context, userID string) (*models.Membership, error) {
	var m models.Membership
	err := s.db.DB().WithContext(ctx).
		Where("profile_id = ? AND is_active = ? AND is_default = ?", userID, true, true).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

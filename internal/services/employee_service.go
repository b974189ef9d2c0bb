package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/leavehub/hr-platform-api/internal/apperrors"
	"github.com/leavehub/hr-platform-api/internal/database"
	"github.com/leavehub/hr-platform-api/internal/models"
	"github.com/leavehub/hr-platform-api/pkg/utils"
)

// EmployeeService manages the org-scoped view of people: memberships joined
// with profiles. Every method takes the resolved OrgContext and binds every
// query to its organization id.
type EmployeeService struct {
	db database.Database
}

func NewEmployeeService(db database.Database) *EmployeeService {
	return &EmployeeService{db: db}
}

func (s *EmployeeService) List(ctx context.Context, octx *OrgContext, page, limit int) ([]models.Membership, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 25
	}

	query := s.db.DB().WithContext(ctx).
		Model(&models.Membership{}).
		Where("organization_id = ? AND is_active = ?", octx.OrganizationID, true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Internal(err)
	}

	var memberships []models.Membership
	err := query.
		Preload("Profile").
		Order("created_at ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&memberships).Error
	if err != nil {
		return nil, 0, apperrors.Internal(err)
	}

	return memberships, int(total), nil
}

type CreateEmployeeInput struct {
	Email          string
	FirstName      string
	LastName       string
	Role           models.Role
	EmploymentType string
}

// Create adds a person to the resolved organization: the profile is found or
// created by email, then a membership row is written. An existing inactive
// membership is reactivated in place so the (profile, organization) pair
// stays unique.
func (s *EmployeeService) Create(ctx context.Context, octx *OrgContext, input CreateEmployeeInput) (*models.Membership, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !utils.ValidateEmail(email) {
		return nil, apperrors.Validation("invalid email address")
	}
	if input.Role == "" {
		input.Role = models.RoleEmployee
	}
	if !input.Role.Valid() {
		return nil, apperrors.Validation("invalid role")
	}

	var membership *models.Membership
	err := s.db.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var profile models.Profile
		err := tx.Where("email = ?", email).First(&profile).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			profile = models.Profile{
				Email:     email,
				FirstName: input.FirstName,
				LastName:  input.LastName,
				IsActive:  true,
			}
			err = tx.Create(&profile).Error
		}
		if err != nil {
			return err
		}

		var existing models.Membership
		err = tx.Where("profile_id = ? AND organization_id = ?", profile.ID, octx.OrganizationID).
			First(&existing).Error
		switch {
		case err == nil && existing.IsActive:
			return apperrors.Validation("person is already a member of this organization")
		case err == nil:
			// revoked earlier; reactivate the same row
			updates := map[string]interface{}{
				"is_active":       true,
				"role":            input.Role,
				"employment_type": input.EmploymentType,
				"joined_via":      "admin_created",
			}
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				return err
			}
			membership = &existing
			return nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		var defaults int64
		if err := tx.Model(&models.Membership{}).
			Where("profile_id = ? AND is_active = ? AND is_default = ?", profile.ID, true, true).
			Count(&defaults).Error; err != nil {
			return err
		}

		membership = &models.Membership{
			ProfileID:      profile.ID,
			OrganizationID: octx.OrganizationID,
			Role:           input.Role,
			IsActive:       true,
			IsDefault:      defaults == 0,
			EmploymentType: input.EmploymentType,
			JoinedVia:      "admin_created",
		}
		return tx.Create(membership).Error
	})
	if err != nil {
		var ae *apperrors.Error
		if errors.As(err, &ae) {
			return nil, ae
		}
		return nil, apperrors.Internal(err)
	}

	if err := s.db.DB().WithContext(ctx).Preload("Profile").First(membership, "id = ?", membership.ID).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	return membership, nil
}

// Get fetches a single membership by id, scoped to the resolved org. A miss
// is reported as the uniform access denial whether the id is unknown or
// belongs to another organization.
func (s *EmployeeService) Get(ctx context.Context, octx *OrgContext, membershipID string) (*models.Membership, error) {
	return s.scopedGet(ctx, octx, membershipID)
}

type UpdateEmployeeInput struct {
	Role           *models.Role
	EmploymentType *string
}

func (s *EmployeeService) Update(ctx context.Context, octx *OrgContext, membershipID string, input UpdateEmployeeInput) (*models.Membership, error) {
	m, err := s.scopedGet(ctx, octx, membershipID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, apperrors.Validation("invalid role")
		}
		updates["role"] = *input.Role
	}
	if input.EmploymentType != nil {
		updates["employment_type"] = *input.EmploymentType
	}
	if len(updates) == 0 {
		return m, nil
	}

	if err := s.db.DB().WithContext(ctx).Model(m).Updates(updates).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	return m, nil
}

// Deactivate revokes the membership with a single atomic row update. From
// the next request on, the pair behaves as if it never existed.
func (s *EmployeeService) Deactivate(ctx context.Context, octx *OrgContext, membershipID string) error {
	m, err := s.scopedGet(ctx, octx, membershipID)
	if err != nil {
		return err
	}
	if m.ProfileID == octx.UserID {
		return apperrors.Validation("cannot deactivate your own membership")
	}

	err = s.db.DB().WithContext(ctx).Model(m).
		Updates(map[string]interface{}{"is_active": false, "is_default": false}).Error
	if err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *EmployeeService) scopedGet(ctx context.Context, octx *OrgContext, membershipID string) (*models.Membership, error) {
	if !utils.ValidateUUID(membershipID) {
		return nil, apperrors.AccessDenied(errInvalidOrgID)
	}

	var m models.Membership
	err := s.db.DB().WithContext(ctx).
		Preload("Profile").
		Where("id = ? AND organization_id = ? AND is_active = ?", membershipID, octx.OrganizationID, true).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.AccessDenied(errNotAMember)
		}
		return nil, apperrors.Internal(err)
	}

	if !octx.Owns(m.OrganizationID) {
		return nil, apperrors.AccessDenied(errNotAMember)
	}
	return &m, nil
}

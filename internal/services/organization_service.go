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

type OrganizationService struct {
	db database.Database
}

func NewOrganizationService(db database.Database) *OrganizationService {
	return &OrganizationService{db: db}
}

type CreateOrganizationInput struct {
	Name                string
	Slug                string
	GoogleDomain        string
	RequireGoogleDomain bool
}

// Create creates the organization, its settings row and the creator's admin
// membership in one transaction. The new membership becomes the creator's
// default when they have no other default active membership.
func (s *OrganizationService) Create(ctx context.Context, userID string, input CreateOrganizationInput) (*models.Organization, error) {
	input.Slug = strings.ToLower(strings.TrimSpace(input.Slug))
	if input.Name == "" {
		return nil, apperrors.Validation("organization name is required")
	}
	if !utils.ValidateSlug(input.Slug) {
		return nil, apperrors.Validation("invalid organization slug")
	}
	if input.RequireGoogleDomain && input.GoogleDomain == "" {
		return nil, apperrors.Validation("google domain is required when domain restriction is enabled")
	}

	org := &models.Organization{
		Name:                input.Name,
		Slug:                input.Slug,
		GoogleDomain:        strings.ToLower(input.GoogleDomain),
		RequireGoogleDomain: input.RequireGoogleDomain,
	}

	err := s.db.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Organization{}).
			Where("slug = ?", input.Slug).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperrors.Validation("organization slug is already taken")
		}

		if err := tx.Create(org).Error; err != nil {
			return err
		}

		if err := tx.Create(&models.OrganizationSettings{OrganizationID: org.ID}).Error; err != nil {
			return err
		}

		var defaults int64
		if err := tx.Model(&models.Membership{}).
			Where("profile_id = ? AND is_active = ? AND is_default = ?", userID, true, true).
			Count(&defaults).Error; err != nil {
			return err
		}

		membership := &models.Membership{
			ProfileID:      userID,
			OrganizationID: org.ID,
			Role:           models.RoleAdmin,
			IsActive:       true,
			IsDefault:      defaults == 0,
			JoinedVia:      "created",
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

	return org, nil
}

// Get returns the resolved organization itself.
func (s *OrganizationService) Get(ctx context.Context, octx *OrgContext) (*models.Organization, error) {
	var org models.Organization
	err := s.db.DB().WithContext(ctx).
		Where("id = ?", octx.OrganizationID).
		First(&org).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.AccessDenied(errNotAMember)
		}
		return nil, apperrors.Internal(err)
	}
	return &org, nil
}

// Delete soft-deletes the resolved organization and deactivates every
// membership in it, in one transaction. Deactivated memberships drop out of
// all lookups immediately, so no session retains access.
func (s *OrganizationService) Delete(ctx context.Context, octx *OrgContext) error {
	err := s.db.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Membership{}).
			Where("organization_id = ?", octx.OrganizationID).
			Updates(map[string]interface{}{"is_active": false, "is_default": false}).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", octx.OrganizationID).
			Delete(&models.Organization{}).Error
	})
	if err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

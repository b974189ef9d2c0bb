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

// WorkspaceService validates switches of a user's active organization and
// manages the default membership. A switch only moves the session pointer;
// it never mutates membership rows and never grants anything a later
// request would not re-check.
type WorkspaceService struct {
	db database.Database
}

func NewWorkspaceService(db database.Database) *WorkspaceService {
	return &WorkspaceService{db: db}
}

// Switch validates that userID holds an active membership in targetOrgID and
// returns it so the caller can issue a new pointer cookie. It performs no
// writes, which also makes it trivially idempotent and safe to call
// concurrently from multiple sessions.
func (s *WorkspaceService) Switch(ctx context.Context, userID, targetOrgID string) (*models.Membership, error) {
	if !utils.ValidateUUID(targetOrgID) {
		return nil, apperrors.Validation("invalid organization id")
	}

	var m models.Membership
	err := s.db.DB().WithContext(ctx).
		Where("profile_id = ? AND organization_id = ? AND is_active = ?", userID, targetOrgID, true).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.AccessDenied(errNotAMember)
		}
		return nil, apperrors.Internal(err)
	}

	return &m, nil
}

// ListOrganizations returns the caller's active memberships with their
// organizations, for the workspace picker.
func (s *WorkspaceService) ListOrganizations(ctx context.Context, userID string) ([]models.Membership, error) {
	var memberships []models.Membership
	err := s.db.DB().WithContext(ctx).
		Preload("Organization").
		Where("profile_id = ? AND is_active = ?", userID, true).
		Order("created_at ASC").
		Find(&memberships).Error
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return memberships, nil
}

// SetDefault marks the membership in targetOrgID as the user's default,
// clearing any previous default in the same transaction so at most one
// active membership per user is ever the default.
func (s *WorkspaceService) SetDefault(ctx context.Context, userID, targetOrgID string) error {
	if !utils.ValidateUUID(targetOrgID) {
		return apperrors.Validation("invalid organization id")
	}

	err := s.db.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m models.Membership
		if err := tx.
			Where("profile_id = ? AND organization_id = ? AND is_active = ?", userID, targetOrgID, true).
			First(&m).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Membership{}).
			Where("profile_id = ? AND id <> ?", userID, m.ID).
			Update("is_default", false).Error; err != nil {
			return err
		}

		return tx.Model(&models.Membership{}).
			Where("id = ?", m.ID).
			Update("is_default", true).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.AccessDenied(errNotAMember)
		}
		return apperrors.Internal(err)
	}

	return nil
}

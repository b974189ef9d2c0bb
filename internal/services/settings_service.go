package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/leavehub/hr-platform-api/internal/apperrors"
	"github.com/leavehub/hr-platform-api/internal/database"
	"github.com/leavehub/hr-platform-api/internal/models"
)

type SettingsService struct {
	db database.Database
}

func NewSettingsService(db database.Database) *SettingsService {
	return &SettingsService{db: db}
}

// Get returns the settings row for the resolved organization, creating the
// defaults row on first read. Organizations created before settings existed
// still get a usable row this way.
func (s *SettingsService) Get(ctx context.Context, octx *OrgContext) (*models.OrganizationSettings, error) {
	var settings models.OrganizationSettings
	err := s.db.DB().WithContext(ctx).
		Where("organization_id = ?", octx.OrganizationID).
		First(&settings).Error
	if err == nil {
		return &settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Internal(err)
	}

	settings = models.OrganizationSettings{
		OrganizationID:  octx.OrganizationID,
		AnnualLeaveDays: 26,
		CarryOverDays:   5,
		RequireApproval: true,
		Timezone:        "UTC",
		Plan:            "free",
	}
	if err := s.db.DB().WithContext(ctx).Create(&settings).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	return &settings, nil
}

type UpdateSettingsInput struct {
	AnnualLeaveDays *int
	CarryOverDays   *int
	RequireApproval *bool
	Timezone        *string
}

func (s *SettingsService) Update(ctx context.Context, octx *OrgContext, input UpdateSettingsInput) (*models.OrganizationSettings, error) {
	settings, err := s.Get(ctx, octx)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.AnnualLeaveDays != nil {
		if *input.AnnualLeaveDays < 0 || *input.AnnualLeaveDays > 365 {
			return nil, apperrors.Validation("annual leave days must be between 0 and 365")
		}
		updates["annual_leave_days"] = *input.AnnualLeaveDays
	}
	if input.CarryOverDays != nil {
		if *input.CarryOverDays < 0 || *input.CarryOverDays > 365 {
			return nil, apperrors.Validation("carry over days must be between 0 and 365")
		}
		updates["carry_over_days"] = *input.CarryOverDays
	}
	if input.RequireApproval != nil {
		updates["require_approval"] = *input.RequireApproval
	}
	if input.Timezone != nil {
		if *input.Timezone == "" {
			return nil, apperrors.Validation("timezone cannot be empty")
		}
		updates["timezone"] = *input.Timezone
	}
	if len(updates) == 0 {
		return settings, nil
	}

	if err := s.db.DB().WithContext(ctx).Model(settings).Updates(updates).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	return settings, nil
}

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

type TeamService struct {
	db database.Database
}

func NewTeamService(db database.Database) *TeamService {
	return &TeamService{db: db}
}

func (s *TeamService) List(ctx context.Context, octx *OrgContext) ([]models.Team, error) {
	var teams []models.Team
	err := s.db.DB().WithContext(ctx).
		Where("organization_id = ?", octx.OrganizationID).
		Order("name ASC").
		Find(&teams).Error
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return teams, nil
}

func (s *TeamService) Create(ctx context.Context, octx *OrgContext, name, description string) (*models.Team, error) {
	if name == "" {
		return nil, apperrors.Validation("team name is required")
	}

	team := &models.Team{
		OrganizationID: octx.OrganizationID,
		Name:           name,
		Description:    description,
	}
	if err := s.db.DB().WithContext(ctx).Create(team).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	return team, nil
}

func (s *TeamService) Get(ctx context.Context, octx *OrgContext, teamID string) (*models.Team, error) {
	return s.scopedGet(ctx, octx, teamID, true)
}

func (s *TeamService) Update(ctx context.Context, octx *OrgContext, teamID, name, description string) (*models.Team, error) {
	team, err := s.scopedGet(ctx, octx, teamID, false)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if name != "" {
		updates["name"] = name
	}
	if description != "" {
		updates["description"] = description
	}
	if len(updates) == 0 {
		return team, nil
	}

	if err := s.db.DB().WithContext(ctx).Model(team).Updates(updates).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	return team, nil
}

func (s *TeamService) Delete(ctx context.Context, octx *OrgContext, teamID string) error {
	team, err := s.scopedGet(ctx, octx, teamID, false)
	if err != nil {
		return err
	}

	err = s.db.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", team.ID).Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(team).Error
	})
	if err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// AddMember adds a profile to a team. The profile must hold an active
// membership in the same organization as the team.
func (s *TeamService) AddMember(ctx context.Context, octx *OrgContext, teamID, profileID string) (*models.TeamMember, error) {
	team, err := s.scopedGet(ctx, octx, teamID, false)
	if err != nil {
		return nil, err
	}
	if !utils.ValidateUUID(profileID) {
		return nil, apperrors.Validation("invalid profile id")
	}

	var membership int64
	err = s.db.DB().WithContext(ctx).Model(&models.Membership{}).
		Where("profile_id = ? AND organization_id = ? AND is_active = ?", profileID, octx.OrganizationID, true).
		Count(&membership).Error
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if membership == 0 {
		return nil, apperrors.Validation("profile is not an active member of this organization")
	}

	var existing int64
	err = s.db.DB().WithContext(ctx).Model(&models.TeamMember{}).
		Where("team_id = ? AND profile_id = ?", team.ID, profileID).
		Count(&existing).Error
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if existing > 0 {
		return nil, apperrors.Validation("profile is already a member of this team")
	}

	tm := &models.TeamMember{TeamID: team.ID, ProfileID: profileID}
	if err := s.db.DB().WithContext(ctx).Create(tm).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	return tm, nil
}

func (s *TeamService) RemoveMember(ctx context.Context, octx *OrgContext, teamID, profileID string) error {
	team, err := s.scopedGet(ctx, octx, teamID, false)
	if err != nil {
		return err
	}

	result := s.db.DB().WithContext(ctx).
		Where("team_id = ? AND profile_id = ?", team.ID, profileID).
		Delete(&models.TeamMember{})
	if result.Error != nil {
		return apperrors.Internal(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.Validation("profile is not a member of this team")
	}
	return nil
}

func (s *TeamService) scopedGet(ctx context.Context, octx *OrgContext, teamID string, withMembers bool) (*models.Team, error) {
	if !utils.ValidateUUID(teamID) {
		return nil, apperrors.AccessDenied(errResourceOutsideOrg)
	}

	query := s.db.DB().WithContext(ctx).
		Where("id = ? AND organization_id = ?", teamID, octx.OrganizationID)
	if withMembers {
		query = query.Preload("Members.Profile")
	}

	var team models.Team
	if err := query.First(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.AccessDenied(errResourceOutsideOrg)
		}
		return nil, apperrors.Internal(err)
	}

	if !octx.Owns(team.OrganizationID) {
		return nil, apperrors.AccessDenied(errResourceOutsideOrg)
	}
	return &team, nil
}

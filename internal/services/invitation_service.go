package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/leavehub/hr-platform-api/internal/apperrors"
	"github.com/leavehub/hr-platform-api/internal/database"
	"github.com/leavehub/hr-platform-api/internal/models"
	"github.com/leavehub/hr-platform-api/pkg/utils"
)

var errInvalidInvitation = errors.New("invitation missing, expired or not addressed to caller")

type InvitationService struct {
	db       database.Database
	notifier Notifier
	ttl      time.Duration
}

func NewInvitationService(db database.Database, notifier Notifier, ttl time.Duration) *InvitationService {
	return &InvitationService{db: db, notifier: notifier, ttl: ttl}
}

type CreateInvitationInput struct {
	Email string
	Role  models.Role
}

// Create issues an invitation into the resolved organization, honoring the
// organization's google-domain restriction when set.
func (s *InvitationService) Create(ctx context.Context, octx *OrgContext, input CreateInvitationInput) (*models.Invitation, error) {
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

	var org models.Organization
	if err := s.db.DB().WithContext(ctx).
		Where("id = ?", octx.OrganizationID).
		First(&org).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	if org.RequireGoogleDomain && utils.EmailDomain(email) != org.GoogleDomain {
		return nil, apperrors.Validation("email domain is not allowed for this organization")
	}

	var activeMember int64
	err := s.db.DB().WithContext(ctx).
		Model(&models.Membership{}).
		Joins("JOIN profiles ON profiles.id = user_organizations.profile_id").
		Where("profiles.email = ? AND user_organizations.organization_id = ? AND user_organizations.is_active = ?",
			email, octx.OrganizationID, true).
		Count(&activeMember).Error
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if activeMember > 0 {
		return nil, apperrors.Validation("person is already a member of this organization")
	}

	var pending int64
	err = s.db.DB().WithContext(ctx).
		Model(&models.Invitation{}).
		Where("organization_id = ? AND email = ? AND status = ? AND expires_at > ?",
			octx.OrganizationID, email, models.InvitationStatusPending, time.Now().UTC()).
		Count(&pending).Error
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if pending > 0 {
		return nil, apperrors.Validation("a pending invitation for this email already exists")
	}

	invitation := &models.Invitation{
		OrganizationID: octx.OrganizationID,
		Email:          email,
		Role:           input.Role,
		Status:         models.InvitationStatusPending,
		ExpiresAt:      time.Now().UTC().Add(s.ttl),
		InvitedByID:    octx.UserID,
	}
	if err := s.db.DB().WithContext(ctx).Create(invitation).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	if err := s.notifier.SendInvitation(ctx, email, org.Name, invitation.Token); err != nil {
		utils.LogWarn(ctx, "failed to send invitation notification", utils.LogFields{
			"invitation_id": invitation.ID,
		})
	}

	return invitation, nil
}

func (s *InvitationService) List(ctx context.Context, octx *OrgContext) ([]models.Invitation, error) {
	var invitations []models.Invitation
	err := s.db.DB().WithContext(ctx).
		Where("organization_id = ?", octx.OrganizationID).
		Order("created_at DESC").
		Find(&invitations).Error
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return invitations, nil
}

func (s *InvitationService) Cancel(ctx context.Context, octx *OrgContext, invitationID string) error {
	if !utils.ValidateUUID(invitationID) {
		return apperrors.AccessDenied(errResourceOutsideOrg)
	}

	var invitation models.Invitation
	err := s.db.DB().WithContext(ctx).
		Where("id = ? AND organization_id = ?", invitationID, octx.OrganizationID).
		First(&invitation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.AccessDenied(errResourceOutsideOrg)
		}
		return apperrors.Internal(err)
	}

	if invitation.Status != models.InvitationStatusPending {
		return apperrors.Validation("invitation is not pending")
	}

	err = s.db.DB().WithContext(ctx).Model(&invitation).
		Update("status", models.InvitationStatusCancelled).Error
	if err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// Accept redeems an invitation token for the authenticated caller. Every
// failure mode (unknown token, expired, cancelled, addressed to a different
// email) produces the same denial so tokens cannot be probed. The membership
// write is transactional and respects the unique (profile, organization)
// pair and the single-default rule.
func (s *InvitationService) Accept(ctx context.Context, userID, token string) (*models.Membership, error) {
	if userID == "" {
		return nil, apperrors.Unauthenticated()
	}
	if token == "" {
		return nil, apperrors.AccessDenied(errInvalidInvitation)
	}

	var membership *models.Membership
	err := s.db.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var profile models.Profile
		if err := tx.Where("id = ? AND is_active = ?", userID, true).First(&profile).Error; err != nil {
			return err
		}

		var invitation models.Invitation
		err := tx.Where("token = ? AND status = ?", token, models.InvitationStatusPending).
			First(&invitation).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.AccessDenied(errInvalidInvitation)
			}
			return err
		}

		if time.Now().UTC().After(invitation.ExpiresAt) {
			return apperrors.AccessDenied(errInvalidInvitation)
		}

		if !strings.EqualFold(invitation.Email, profile.Email) {
			return apperrors.AccessDenied(errInvalidInvitation)
		}

		var existing models.Membership
		err = tx.Where("profile_id = ? AND organization_id = ?", profile.ID, invitation.OrganizationID).
			First(&existing).Error
		switch {
		case err == nil && existing.IsActive:
			// already in; just consume the invitation
			membership = &existing
		case err == nil:
			if err := tx.Model(&existing).Updates(map[string]interface{}{
				"is_active":  true,
				"role":       invitation.Role,
				"joined_via": "invitation",
			}).Error; err != nil {
				return err
			}
			membership = &existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			var defaults int64
			if err := tx.Model(&models.Membership{}).
				Where("profile_id = ? AND is_active = ? AND is_default = ?", profile.ID, true, true).
				Count(&defaults).Error; err != nil {
				return err
			}

			membership = &models.Membership{
				ProfileID:      profile.ID,
				OrganizationID: invitation.OrganizationID,
				Role:           invitation.Role,
				IsActive:       true,
				IsDefault:      defaults == 0,
				JoinedVia:      "invitation",
			}
			if err := tx.Create(membership).Error; err != nil {
				return err
			}
		default:
			return err
		}

		return tx.Model(&invitation).
			Update("status", models.InvitationStatusAccepted).Error
	})
	if err != nil {
		var ae *apperrors.Error
		if errors.As(err, &ae) {
			return nil, ae
		}
		return nil, apperrors.Internal(err)
	}

	return membership, nil
}

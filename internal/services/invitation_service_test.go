package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leavehub/hr-platform-api/internal/apperrors"
	"github.com/leavehub/hr-platform-api/internal/models"
)

type recordingNotifier struct {
	emails []string
	tokens []string
}

func (n *recordingNotifier) SendInvitation(ctx context.Context, email, organizationName, token string) error {
	n.emails = append(n.emails, email)
	n.tokens = append(n.tokens, token)
	return nil
}

func invitationFixture(t *testing.T) (*InvitationService, *recordingNotifier, *OrgContext, *models.Organization) {
	db := newTestDB(t)
	notifier := &recordingNotifier{}
	svc := NewInvitationService(db, notifier, 72*time.Hour)

	admin := createTestProfile(t, db, "invite-admin@example.com")
	org := createTestOrganization(t, db, "org")
	createTestMembership(t, db, admin, org, models.RoleAdmin, asDefault)

	octx := &OrgContext{UserID: admin.ID, OrganizationID: org.ID, Role: models.RoleAdmin}
	return svc, notifier, octx, org
}

func TestInvitationCreateAndNotify(t *testing.T) {
	svc, notifier, octx, _ := invitationFixture(t)

	inv, err := svc.Create(context.Background(), octx, CreateInvitationInput{
		Email: "Invitee@Example.com",
		Role:  models.RoleManager,
	})
	require.NoError(t, err)
	assert.Equal(t, "invitee@example.com", inv.Email)
	assert.Equal(t, models.RoleManager, inv.Role)
	assert.Equal(t, models.InvitationStatusPending, inv.Status)
	assert.NotEmpty(t, inv.Token)
	assert.True(t, inv.ExpiresAt.After(time.Now()))

	require.Len(t, notifier.emails, 1)
	assert.Equal(t, "invitee@example.com", notifier.emails[0])
}

func TestInvitationCreateRejectsDuplicatePending(t *testing.T) {
	svc, _, octx, _ := invitationFixture(t)

	_, err := svc.Create(context.Background(), octx, CreateInvitationInput{Email: "twice@example.com"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), octx, CreateInvitationInput{Email: "twice@example.com"})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestInvitationDomainRestriction(t *testing.T) {
	db := newTestDB(t)
	svc := NewInvitationService(db, &recordingNotifier{}, 72*time.Hour)

	admin := createTestProfile(t, db, "domain-admin@corp.example")
	org := &models.Organization{
		Name:                "Corp",
		Slug:                "corp",
		GoogleDomain:        "corp.example",
		RequireGoogleDomain: true,
	}
	require.NoError(t, db.DB().Create(org).Error)
	createTestMembership(t, db, admin, org, models.RoleAdmin, asDefault)

	octx := &OrgContext{UserID: admin.ID, OrganizationID: org.ID, Role: models.RoleAdmin}

	_, err := svc.Create(context.Background(), octx, CreateInvitationInput{Email: "stranger@elsewhere.example"})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = svc.Create(context.Background(), octx, CreateInvitationInput{Email: "colleague@corp.example"})
	require.NoError(t, err)
}

func TestInvitationAcceptCreatesMembership(t *testing.T) {
	db := newTestDB(t)
	svc := NewInvitationService(db, &recordingNotifier{}, 72*time.Hour)

	admin := createTestProfile(t, db, "accept-admin@example.com")
	org := createTestOrganization(t, db, "org")
	createTestMembership(t, db, admin, org, models.RoleAdmin, asDefault)

	invitee := createTestProfile(t, db, "joiner@example.com")

	octx := &OrgContext{UserID: admin.ID, OrganizationID: org.ID, Role: models.RoleAdmin}
	inv, err := svc.Create(context.Background(), octx, CreateInvitationInput{
		Email: "joiner@example.com",
		Role:  models.RoleEmployee,
	})
	require.NoError(t, err)

	m, err := svc.Accept(context.Background(), invitee.ID, inv.Token)
	require.NoError(t, err)
	assert.Equal(t, org.ID, m.OrganizationID)
	assert.Equal(t, models.RoleEmployee, m.Role)
	assert.True(t, m.IsDefault, "first membership becomes the default")
	assert.Equal(t, "invitation", m.JoinedVia)

	var stored models.Invitation
	require.NoError(t, db.DB().First(&stored, "id = ?", inv.ID).Error)
	assert.Equal(t, models.InvitationStatusAccepted, stored.Status)
}

// Unknown token, expired token, cancelled token and a token addressed to a
// different email all fail with the same denial.
func TestInvitationAcceptDenialsAreUniform(t *testing.T) {
	db := newTestDB(t)
	svc := NewInvitationService(db, &recordingNotifier{}, 72*time.Hour)

	admin := createTestProfile(t, db, "uniform-admin@example.com")
	org := createTestOrganization(t, db, "org")
	createTestMembership(t, db, admin, org, models.RoleAdmin, asDefault)
	octx := &OrgContext{UserID: admin.ID, OrganizationID: org.ID, Role: models.RoleAdmin}

	caller := createTestProfile(t, db, "caller@example.com")

	expired, err := svc.Create(context.Background(), octx, CreateInvitationInput{Email: "caller@example.com"})
	require.NoError(t, err)
	require.NoError(t, db.DB().Model(expired).
		Update("expires_at", time.Now().UTC().Add(-time.Hour)).Error)

	cancelled, err := svc.Create(context.Background(), octx, CreateInvitationInput{Email: "cancel-me@example.com"})
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(context.Background(), octx, cancelled.ID))

	wrongEmail, err := svc.Create(context.Background(), octx, CreateInvitationInput{Email: "other-person@example.com"})
	require.NoError(t, err)

	tokens := map[string]string{
		"unknown token":   "00000000-0000-0000-0000-000000000000",
		"expired token":   expired.Token,
		"cancelled token": cancelled.Token,
		"wrong email":     wrongEmail.Token,
	}

	for name, token := range tokens {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Accept(context.Background(), caller.ID, token)
			require.Error(t, err)
			assert.True(t, apperrors.IsKind(err, apperrors.KindAccessDenied))
			assert.Equal(t, "organization access denied", apperrors.PublicMessage(err))
		})
	}
}

func TestInvitationAcceptReactivatesExistingPair(t *testing.T) {
	db := newTestDB(t)
	svc := NewInvitationService(db, &recordingNotifier{}, 72*time.Hour)

	admin := createTestProfile(t, db, "pair-admin@example.com")
	org := createTestOrganization(t, db, "org")
	createTestMembership(t, db, admin, org, models.RoleAdmin, asDefault)

	returning := createTestProfile(t, db, "returning@example.com")
	old := createTestMembership(t, db, returning, org, models.RoleEmployee, asInactive)

	octx := &OrgContext{UserID: admin.ID, OrganizationID: org.ID, Role: models.RoleAdmin}
	inv, err := svc.Create(context.Background(), octx, CreateInvitationInput{
		Email: "returning@example.com",
		Role:  models.RoleManager,
	})
	require.NoError(t, err)

	m, err := svc.Accept(context.Background(), returning.ID, inv.Token)
	require.NoError(t, err)
	assert.Equal(t, old.ID, m.ID)

	var count int64
	require.NoError(t, db.DB().Model(&models.Membership{}).
		Where("profile_id = ? AND organization_id = ?", returning.ID, org.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

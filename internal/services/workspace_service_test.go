package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leavehub/hr-platform-api/internal/apperrors"
	"github.com/leavehub/hr-platform-api/internal/models"
)

func TestSwitchToActiveMembership(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkspaceService(db)

	user := createTestProfile(t, db, "switcher@example.com")
	orgA := createTestOrganization(t, db, "org-a")
	orgB := createTestOrganization(t, db, "org-b")
	createTestMembership(t, db, user, orgA, models.RoleAdmin, asDefault)
	createTestMembership(t, db, user, orgB, models.RoleEmployee)

	m, err := svc.Switch(context.Background(), user.ID, orgB.ID)
	require.NoError(t, err)
	assert.Equal(t, orgB.ID, m.OrganizationID)
	assert.Equal(t, models.RoleEmployee, m.Role)
}

// Switching writes nothing: repeating the same switch yields the same result
// and the default membership is untouched.
func TestSwitchIsIdempotentAndReadOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkspaceService(db)

	user := createTestProfile(t, db, "idempotent@example.com")
	orgA := createTestOrganization(t, db, "org-a")
	orgB := createTestOrganization(t, db, "org-b")
	createTestMembership(t, db, user, orgA, models.RoleAdmin, asDefault)
	createTestMembership(t, db, user, orgB, models.RoleEmployee)

	first, err := svc.Switch(context.Background(), user.ID, orgB.ID)
	require.NoError(t, err)
	second, err := svc.Switch(context.Background(), user.ID, orgB.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var def models.Membership
	require.NoError(t, db.DB().
		Where("profile_id = ? AND is_default = ?", user.ID, true).
		First(&def).Error)
	assert.Equal(t, orgA.ID, def.OrganizationID)
}

func TestSwitchRejectsMalformedTarget(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkspaceService(db)

	user := createTestProfile(t, db, "malformed@example.com")

	_, err := svc.Switch(context.Background(), user.ID, "not-a-uuid")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestSwitchDeniesNonMembership(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkspaceService(db)

	user := createTestProfile(t, db, "outsider@example.com")
	org := createTestOrganization(t, db, "exclusive")
	revoked := createTestOrganization(t, db, "revoked")
	createTestMembership(t, db, user, revoked, models.RoleEmployee, asInactive)

	for _, target := range []string{org.ID, revoked.ID} {
		_, err := svc.Switch(context.Background(), user.ID, target)
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindAccessDenied))
		assert.Equal(t, "organization access denied", apperrors.PublicMessage(err))
	}
}

func TestSetDefaultMovesTheFlag(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkspaceService(db)

	user := createTestProfile(t, db, "default@example.com")
	orgA := createTestOrganization(t, db, "org-a")
	orgB := createTestOrganization(t, db, "org-b")
	createTestMembership(t, db, user, orgA, models.RoleAdmin, asDefault)
	createTestMembership(t, db, user, orgB, models.RoleEmployee)

	require.NoError(t, svc.SetDefault(context.Background(), user.ID, orgB.ID))

	var defaults []models.Membership
	require.NoError(t, db.DB().
		Where("profile_id = ? AND is_default = ?", user.ID, true).
		Find(&defaults).Error)
	require.Len(t, defaults, 1)
	assert.Equal(t, orgB.ID, defaults[0].OrganizationID)
}

func TestSetDefaultDeniesNonMembership(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkspaceService(db)

	user := createTestProfile(t, db, "nondefault@example.com")
	org := createTestOrganization(t, db, "org")

	err := svc.SetDefault(context.Background(), user.ID, org.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindAccessDenied))
}

func TestListOrganizationsSkipsInactive(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkspaceService(db)

	user := createTestProfile(t, db, "lister@example.com")
	orgA := createTestOrganization(t, db, "org-a")
	orgB := createTestOrganization(t, db, "org-b")
	createTestMembership(t, db, user, orgA, models.RoleAdmin, asDefault)
	createTestMembership(t, db, user, orgB, models.RoleEmployee, asInactive)

	memberships, err := svc.ListOrganizations(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, memberships, 1)
	assert.Equal(t, orgA.ID, memberships[0].OrganizationID)
	require.NotNil(t, memberships[0].Organization)
	assert.Equal(t, orgA.ID, memberships[0].Organization.ID)
}

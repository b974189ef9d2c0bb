package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leavehub/hr-platform-api/internal/apperrors"
	"github.com/leavehub/hr-platform-api/internal/models"
)

func TestEmployeeCreateNewProfile(t *testing.T) {
	db := newTestDB(t)
	svc := NewEmployeeService(db)

	admin := createTestProfile(t, db, "hr-admin@example.com")
	org := createTestOrganization(t, db, "org")
	createTestMembership(t, db, admin, org, models.RoleAdmin, asDefault)

	octx := &OrgContext{UserID: admin.ID, OrganizationID: org.ID, Role: models.RoleAdmin}

	m, err := svc.Create(context.Background(), octx, CreateEmployeeInput{
		Email:     "new.hire@example.com",
		FirstName: "New",
		LastName:  "Hire",
	})
	require.NoError(t, err)
	assert.Equal(t, org.ID, m.OrganizationID)
	assert.Equal(t, models.RoleEmployee, m.Role)
	assert.True(t, m.IsActive)
	assert.True(t, m.IsDefault, "first membership becomes the default")
	require.NotNil(t, m.Profile)
	assert.Equal(t, "new.hire@example.com", m.Profile.Email)
}

func TestEmployeeCreateRejectsActiveDuplicate(t *testing.T) {
	db := newTestDB(t)
	svc := NewEmployeeService(db)

	admin := createTestProfile(t, db, "dup-admin@example.com")
	existing := createTestProfile(t, db, "existing@example.com")
	org := createTestOrganization(t, db, "org")
	createTestMembership(t, db, admin, org, models.RoleAdmin, asDefault)
	createTestMembership(t, db, existing, org, models.RoleEmployee, asDefault)

	octx := &OrgContext{UserID: admin.ID, OrganizationID: org.ID, Role: models.RoleAdmin}

	_, err := svc.Create(context.Background(), octx, CreateEmployeeInput{Email: "existing@example.com"})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

// Re-adding someone whose membership was revoked reactivates the original
// row instead of inserting a second (profile, organization) pair.
func TestEmployeeCreateReactivatesRevokedMembership(t *testing.T) {
	db := newTestDB(t)
	svc := NewEmployeeService(db)

	admin := createTestProfile(t, db, "react-admin@example.com")
	former := createTestProfile(t, db, "former@example.com")
	org := createTestOrganization(t, db, "org")
	createTestMembership(t, db, admin, org, models.RoleAdmin, asDefault)
	revoked := createTestMembership(t, db, former, org, models.RoleEmployee, asInactive)

	octx := &OrgContext{UserID: admin.ID, OrganizationID: org.ID, Role: models.RoleAdmin}

	m, err := svc.Create(context.Background(), octx, CreateEmployeeInput{
		Email: "former@example.com",
		Role:  models.RoleManager,
	})
	require.NoError(t, err)
	assert.Equal(t, revoked.ID, m.ID)
	assert.True(t, m.IsActive)
	assert.Equal(t, models.RoleManager, m.Role)

	var count int64
	require.NoError(t, db.DB().Model(&models.Membership{}).
		Where("profile_id = ? AND organization_id = ?", former.ID, org.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestEmployeeGetDeniesCrossOrgAndMissingAlike(t *testing.T) {
	db := newTestDB(t)
	svc := NewEmployeeService(db)

	admin := createTestProfile(t, db, "scope-admin@example.com")
	orgA := createTestOrganization(t, db, "org-a")
	orgB := createTestOrganization(t, db, "org-b")
	createTestMembership(t, db, admin, orgA, models.RoleAdmin, asDefault)

	outsider := createTestProfile(t, db, "outsider@example.com")
	foreign := createTestMembership(t, db, outsider, orgB, models.RoleEmployee, asDefault)

	octx := &OrgContext{UserID: admin.ID, OrganizationID: orgA.ID, Role: models.RoleAdmin}

	_, crossErr := svc.Get(context.Background(), octx, foreign.ID)
	require.Error(t, crossErr)
	_, missErr := svc.Get(context.Background(), octx, "3f9d7a44-0000-0000-0000-000000000003")
	require.Error(t, missErr)
	_, badErr := svc.Get(context.Background(), octx, "garbage")
	require.Error(t, badErr)

	for _, err := range []error{crossErr, missErr, badErr} {
		assert.True(t, apperrors.IsKind(err, apperrors.KindAccessDenied))
		assert.Equal(t, "organization access denied", apperrors.PublicMessage(err))
	}
}

func TestEmployeeDeactivateForbidsSelf(t *testing.T) {
	db := newTestDB(t)
	svc := NewEmployeeService(db)

	admin := createTestProfile(t, db, "self-admin@example.com")
	org := createTestOrganization(t, db, "org")
	own := createTestMembership(t, db, admin, org, models.RoleAdmin, asDefault)

	octx := &OrgContext{UserID: admin.ID, OrganizationID: org.ID, Role: models.RoleAdmin}

	err := svc.Deactivate(context.Background(), octx, own.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestEmployeeDeactivateRevokesAccess(t *testing.T) {
	db := newTestDB(t)
	empSvc := NewEmployeeService(db)
	octxSvc := NewOrgContextService(db)

	admin := createTestProfile(t, db, "revoke-admin@example.com")
	victim := createTestProfile(t, db, "victim@example.com")
	org := createTestOrganization(t, db, "org")
	createTestMembership(t, db, admin, org, models.RoleAdmin, asDefault)
	target := createTestMembership(t, db, victim, org, models.RoleEmployee, asDefault)

	octx := &OrgContext{UserID: admin.ID, OrganizationID: org.ID, Role: models.RoleAdmin}
	require.NoError(t, empSvc.Deactivate(context.Background(), octx, target.ID))

	// the next resolution behaves as if the membership never existed
	_, err := octxSvc.Resolve(context.Background(), victim.ID, org.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindAccessDenied))
}

func TestEmployeeListExcludesInactive(t *testing.T) {
	db := newTestDB(t)
	svc := NewEmployeeService(db)

	admin := createTestProfile(t, db, "list-admin@example.com")
	gone := createTestProfile(t, db, "gone@example.com")
	org := createTestOrganization(t, db, "org")
	createTestMembership(t, db, admin, org, models.RoleAdmin, asDefault)
	createTestMembership(t, db, gone, org, models.RoleEmployee, asInactive)

	octx := &OrgContext{UserID: admin.ID, OrganizationID: org.ID, Role: models.RoleAdmin}

	memberships, total, err := svc.List(context.Background(), octx, 1, 25)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, memberships, 1)
	assert.Equal(t, admin.ID, memberships[0].ProfileID)
}

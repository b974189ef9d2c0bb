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

func TestLeaveCreateUsesResolvedContext(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaveService(db)

	user := createTestProfile(t, db, "requester@example.com")
	org := createTestOrganization(t, db, "org")
	createTestMembership(t, db, user, org, models.RoleEmployee, asDefault)

	octx := &OrgContext{UserID: user.ID, OrganizationID: org.ID, Role: models.RoleEmployee}

	lr, err := svc.Create(context.Background(), octx, CreateLeaveInput{
		Type:      models.LeaveTypeVacation,
		StartDate: time.Now().AddDate(0, 0, 7),
		EndDate:   time.Now().AddDate(0, 0, 12),
		Reason:    "holiday",
	})
	require.NoError(t, err)
	assert.Equal(t, org.ID, lr.OrganizationID)
	assert.Equal(t, user.ID, lr.ProfileID)
	assert.Equal(t, models.LeaveStatusPending, lr.Status)
}

func TestLeaveCreateValidatesDates(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaveService(db)

	user := createTestProfile(t, db, "dates@example.com")
	org := createTestOrganization(t, db, "org")
	octx := &OrgContext{UserID: user.ID, OrganizationID: org.ID, Role: models.RoleEmployee}

	_, err := svc.Create(context.Background(), octx, CreateLeaveInput{
		StartDate: time.Now().AddDate(0, 0, 5),
		EndDate:   time.Now().AddDate(0, 0, 2),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

// A request in another organization and a request that does not exist must
// produce the same denial.
func TestLeaveCrossOrgAccessIsIndistinguishableFromMissing(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaveService(db)

	alice := createTestProfile(t, db, "alice@example.com")
	orgA := createTestOrganization(t, db, "org-a")
	orgB := createTestOrganization(t, db, "org-b")
	createTestMembership(t, db, alice, orgA, models.RoleAdmin, asDefault)

	bob := createTestProfile(t, db, "bob@example.com")
	createTestMembership(t, db, bob, orgB, models.RoleEmployee, asDefault)

	bobCtx := &OrgContext{UserID: bob.ID, OrganizationID: orgB.ID, Role: models.RoleEmployee}
	lr, err := svc.Create(context.Background(), bobCtx, CreateLeaveInput{
		StartDate: time.Now().AddDate(0, 0, 1),
		EndDate:   time.Now().AddDate(0, 0, 2),
	})
	require.NoError(t, err)

	aliceCtx := &OrgContext{UserID: alice.ID, OrganizationID: orgA.ID, Role: models.RoleAdmin}

	_, crossOrgErr := svc.Get(context.Background(), aliceCtx, true, lr.ID)
	require.Error(t, crossOrgErr)

	_, missingErr := svc.Get(context.Background(), aliceCtx, true, "3f9d7a44-0000-0000-0000-000000000002")
	require.Error(t, missingErr)

	assert.Equal(t, apperrors.KindOf(crossOrgErr), apperrors.KindOf(missingErr))
	assert.Equal(t, apperrors.PublicMessage(crossOrgErr), apperrors.PublicMessage(missingErr))
	assert.True(t, apperrors.IsKind(crossOrgErr, apperrors.KindAccessDenied))
}

func TestLeaveGetHidesOthersFromNonReviewers(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaveService(db)

	owner := createTestProfile(t, db, "owner@example.com")
	peer := createTestProfile(t, db, "peer@example.com")
	org := createTestOrganization(t, db, "org")
	createTestMembership(t, db, owner, org, models.RoleEmployee, asDefault)
	createTestMembership(t, db, peer, org, models.RoleEmployee, asDefault)

	ownerCtx := &OrgContext{UserID: owner.ID, OrganizationID: org.ID, Role: models.RoleEmployee}
	lr, err := svc.Create(context.Background(), ownerCtx, CreateLeaveInput{
		StartDate: time.Now().AddDate(0, 0, 1),
		EndDate:   time.Now().AddDate(0, 0, 2),
	})
	require.NoError(t, err)

	peerCtx := &OrgContext{UserID: peer.ID, OrganizationID: org.ID, Role: models.RoleEmployee}
	_, err = svc.Get(context.Background(), peerCtx, false, lr.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindAccessDenied))

	got, err := svc.Get(context.Background(), peerCtx, true, lr.ID)
	require.NoError(t, err)
	assert.Equal(t, lr.ID, got.ID)
}

func TestLeaveApproveRecordsReviewer(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaveService(db)

	employee := createTestProfile(t, db, "employee@example.com")
	manager := createTestProfile(t, db, "manager@example.com")
	org := createTestOrganization(t, db, "org")
	createTestMembership(t, db, employee, org, models.RoleEmployee, asDefault)
	createTestMembership(t, db, manager, org, models.RoleManager, asDefault)

	empCtx := &OrgContext{UserID: employee.ID, OrganizationID: org.ID, Role: models.RoleEmployee}
	lr, err := svc.Create(context.Background(), empCtx, CreateLeaveInput{
		StartDate: time.Now().AddDate(0, 0, 1),
		EndDate:   time.Now().AddDate(0, 0, 2),
	})
	require.NoError(t, err)

	mgrCtx := &OrgContext{UserID: manager.ID, OrganizationID: org.ID, Role: models.RoleManager}
	approved, err := svc.Approve(context.Background(), mgrCtx, lr.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LeaveStatusApproved, approved.Status)
	require.NotNil(t, approved.ReviewedByID)
	assert.Equal(t, manager.ID, *approved.ReviewedByID)
	assert.NotNil(t, approved.ReviewedAt)

	// second review attempt fails: the request is no longer pending
	_, err = svc.Reject(context.Background(), mgrCtx, lr.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestLeaveReviewRejectsOwnRequest(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaveService(db)

	manager := createTestProfile(t, db, "self-review@example.com")
	org := createTestOrganization(t, db, "org")
	createTestMembership(t, db, manager, org, models.RoleManager, asDefault)

	mgrCtx := &OrgContext{UserID: manager.ID, OrganizationID: org.ID, Role: models.RoleManager}
	lr, err := svc.Create(context.Background(), mgrCtx, CreateLeaveInput{
		StartDate: time.Now().AddDate(0, 0, 1),
		EndDate:   time.Now().AddDate(0, 0, 2),
	})
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), mgrCtx, lr.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	_, err = svc.Reject(context.Background(), mgrCtx, lr.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	// still pending, so another reviewer can pick it up
	var stored models.LeaveRequest
	require.NoError(t, db.DB().First(&stored, "id = ?", lr.ID).Error)
	assert.Equal(t, models.LeaveStatusPending, stored.Status)
	assert.Nil(t, stored.ReviewedByID)
}

func TestLeaveCancelIsOwnerOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaveService(db)

	owner := createTestProfile(t, db, "cancel-owner@example.com")
	admin := createTestProfile(t, db, "cancel-admin@example.com")
	org := createTestOrganization(t, db, "org")
	createTestMembership(t, db, owner, org, models.RoleEmployee, asDefault)
	createTestMembership(t, db, admin, org, models.RoleAdmin, asDefault)

	ownerCtx := &OrgContext{UserID: owner.ID, OrganizationID: org.ID, Role: models.RoleEmployee}
	lr, err := svc.Create(context.Background(), ownerCtx, CreateLeaveInput{
		StartDate: time.Now().AddDate(0, 0, 1),
		EndDate:   time.Now().AddDate(0, 0, 2),
	})
	require.NoError(t, err)

	adminCtx := &OrgContext{UserID: admin.ID, OrganizationID: org.ID, Role: models.RoleAdmin}
	_, err = svc.Cancel(context.Background(), adminCtx, lr.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	cancelled, err := svc.Cancel(context.Background(), ownerCtx, lr.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LeaveStatusCancelled, cancelled.Status)
}

func TestLeaveListIsOrgScoped(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaveService(db)

	user := createTestProfile(t, db, "multi@example.com")
	orgA := createTestOrganization(t, db, "org-a")
	orgB := createTestOrganization(t, db, "org-b")
	createTestMembership(t, db, user, orgA, models.RoleEmployee, asDefault)
	createTestMembership(t, db, user, orgB, models.RoleEmployee)

	ctxA := &OrgContext{UserID: user.ID, OrganizationID: orgA.ID, Role: models.RoleEmployee}
	ctxB := &OrgContext{UserID: user.ID, OrganizationID: orgB.ID, Role: models.RoleEmployee}

	_, err := svc.Create(context.Background(), ctxA, CreateLeaveInput{
		StartDate: time.Now().AddDate(0, 0, 1),
		EndDate:   time.Now().AddDate(0, 0, 2),
	})
	require.NoError(t, err)

	requestsA, totalA, err := svc.ListOwn(context.Background(), ctxA, 1, 25)
	require.NoError(t, err)
	assert.Equal(t, 1, totalA)
	require.Len(t, requestsA, 1)
	assert.Equal(t, orgA.ID, requestsA[0].OrganizationID)

	requestsB, totalB, err := svc.ListOwn(context.Background(), ctxB, 1, 25)
	require.NoError(t, err)
	assert.Equal(t, 0, totalB)
	assert.Empty(t, requestsB)
}

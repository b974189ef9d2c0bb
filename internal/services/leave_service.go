package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/leavehub/hr-platform-api/internal/apperrors"
	"github.com/leavehub/hr-platform-api/internal/database"
	"github.com/leavehub/hr-platform-api/internal/models"
	"github.com/leavehub/hr-platform-api/pkg/utils"
)

var errResourceOutsideOrg = errors.New("resource not in resolved organization")

type LeaveService struct {
	db database.Database
}

func NewLeaveService(db database.Database) *LeaveService {
	return &LeaveService{db: db}
}

type CreateLeaveInput struct {
	Type      models.LeaveType
	StartDate time.Time
	EndDate   time.Time
	Reason    string
}

// Create files a leave request for the caller in the resolved organization.
// The organization and requester come from the OrgContext, never from
// request input.
func (s *LeaveService) Create(ctx context.Context, octx *OrgContext, input CreateLeaveInput) (*models.LeaveRequest, error) {
	if input.Type == "" {
		input.Type = models.LeaveTypeVacation
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return nil, apperrors.Validation("start and end dates are required")
	}
	if input.EndDate.Before(input.StartDate) {
		return nil, apperrors.Validation("end date must not be before start date")
	}

	lr := &models.LeaveRequest{
		OrganizationID: octx.OrganizationID,
		ProfileID:      octx.UserID,
		Type:           input.Type,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		Status:         models.LeaveStatusPending,
		Reason:         input.Reason,
	}

	if err := s.db.DB().WithContext(ctx).Create(lr).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	return lr, nil
}

// ListOwn returns the caller's own requests in the resolved organization.
func (s *LeaveService) ListOwn(ctx context.Context, octx *OrgContext, page, limit int) ([]models.LeaveRequest, int, error) {
	return s.list(ctx, octx, octx.UserID, page, limit)
}

// ListAll returns every request in the resolved organization (reviewer view).
func (s *LeaveService) ListAll(ctx context.Context, octx *OrgContext, page, limit int) ([]models.LeaveRequest, int, error) {
	return s.list(ctx, octx, "", page, limit)
}

func (s *LeaveService) list(ctx context.Context, octx *OrgContext, profileID string, page, limit int) ([]models.LeaveRequest, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 25
	}

	query := s.db.DB().WithContext(ctx).
		Model(&models.LeaveRequest{}).
		Where("organization_id = ?", octx.OrganizationID)
	if profileID != "" {
		query = query.Where("profile_id = ?", profileID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Internal(err)
	}

	var requests []models.LeaveRequest
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&requests).Error
	if err != nil {
		return nil, 0, apperrors.Internal(err)
	}

	return requests, int(total), nil
}

// Get fetches one request. Employees only see their own; a request that is
// someone else's, nonexistent, or in another organization all produce the
// same denial.
func (s *LeaveService) Get(ctx context.Context, octx *OrgContext, canReview bool, id string) (*models.LeaveRequest, error) {
	lr, err := s.scopedGet(ctx, octx, id)
	if err != nil {
		return nil, err
	}
	if !canReview && lr.ProfileID != octx.UserID {
		return nil, apperrors.AccessDenied(errResourceOutsideOrg)
	}
	return lr, nil
}

// Approve transitions a pending request to approved, recording the reviewer
// from the resolved context.
func (s *LeaveService) Approve(ctx context.Context, octx *OrgContext, id string) (*models.LeaveRequest, error) {
	return s.review(ctx, octx, id, models.LeaveStatusApproved)
}

// Reject transitions a pending request to rejected.
func (s *LeaveService) Reject(ctx context.Context, octx *OrgContext, id string) (*models.LeaveRequest, error) {
	return s.review(ctx, octx, id, models.LeaveStatusRejected)
}

func (s *LeaveService) review(ctx context.Context, octx *OrgContext, id string, status models.LeaveStatus) (*models.LeaveRequest, error) {
	lr, err := s.scopedGet(ctx, octx, id)
	if err != nil {
		return nil, err
	}
	// Reviewers never review their own requests, whatever their role.
	if lr.ProfileID == octx.UserID {
		return nil, apperrors.Forbidden()
	}
	if lr.Status != models.LeaveStatusPending {
		return nil, apperrors.Validation("leave request is not pending")
	}

	now := time.Now().UTC()
	reviewer := octx.UserID
	updates := map[string]interface{}{
		"status":         status,
		"reviewed_by_id": &reviewer,
		"reviewed_at":    &now,
	}
	if err := s.db.DB().WithContext(ctx).Model(lr).Updates(updates).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	return lr, nil
}

// Cancel withdraws the caller's own pending request. Ownership is checked on
// top of role: nobody cancels someone else's request through this path.
func (s *LeaveService) Cancel(ctx context.Context, octx *OrgContext, id string) (*models.LeaveRequest, error) {
	lr, err := s.scopedGet(ctx, octx, id)
	if err != nil {
		return nil, err
	}
	if lr.ProfileID != octx.UserID {
		return nil, apperrors.Forbidden()
	}
	if lr.Status != models.LeaveStatusPending {
		return nil, apperrors.Validation("only pending leave requests can be cancelled")
	}

	if err := s.db.DB().WithContext(ctx).Model(lr).
		Update("status", models.LeaveStatusCancelled).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	return lr, nil
}

// scopedGet binds the fetch to the resolved organization. Misses are
// indistinguishable from cross-org hits by design.
func (s *LeaveService) scopedGet(ctx context.Context, octx *OrgContext, id string) (*models.LeaveRequest, error) {
	if !utils.ValidateUUID(id) {
		return nil, apperrors.AccessDenied(errResourceOutsideOrg)
	}

	var lr models.LeaveRequest
	err := s.db.DB().WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, octx.OrganizationID).
		First(&lr).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.AccessDenied(errResourceOutsideOrg)
		}
		return nil, apperrors.Internal(err)
	}

	if !octx.Owns(lr.OrganizationID) {
		return nil, apperrors.AccessDenied(errResourceOutsideOrg)
	}
	return &lr, nil
}

package services

import (
	"context"
	"fmt"

	"github.com/leavehub/hr-platform-api/internal/apperrors"
	"github.com/leavehub/hr-platform-api/internal/database"
	"github.com/leavehub/hr-platform-api/internal/models"
)

// Subscription is the billing view exposed to admins of an organization.
type Subscription struct {
	OrganizationID string `json:"organization_id"`
	Plan           string `json:"plan"`
	Seats          int64  `json:"seats"`
	SeatLimit      int    `json:"seat_limit"`
}

// PaymentProvider abstracts the upstream billing system. The manual provider
// is the built-in no-op used until an external processor is wired in.
type PaymentProvider interface {
	ChangePlan(ctx context.Context, organizationID, plan string) error
}

type manualProvider struct{}

func NewManualProvider() PaymentProvider { return manualProvider{} }

// NewPaymentProvider selects the provider named in configuration. An empty
// name means manual; an unknown name is a deployment mistake and fails
// startup rather than silently billing nobody.
func NewPaymentProvider(name string) (PaymentProvider, error) {
	switch name {
	case "", "manual":
		return NewManualProvider(), nil
	default:
		return nil, fmt.Errorf("unknown billing provider %q", name)
	}
}

func (manualProvider) ChangePlan(ctx context.Context, organizationID, plan string) error {
	return nil
}

var planSeatLimits = map[string]int{
	"free":       10,
	"team":       50,
	"enterprise": 0, // unlimited
}

type BillingService struct {
	db       database.Database
	settings *SettingsService
	provider PaymentProvider
}

func NewBillingService(db database.Database, settings *SettingsService, provider PaymentProvider) *BillingService {
	return &BillingService{db: db, settings: settings, provider: provider}
}

func (s *BillingService) GetSubscription(ctx context.Context, octx *OrgContext) (*Subscription, error) {
	settings, err := s.settings.Get(ctx, octx)
	if err != nil {
		return nil, err
	}

	var seats int64
	err = s.db.DB().WithContext(ctx).
		Model(&models.Membership{}).
		Where("organization_id = ? AND is_active = ?", octx.OrganizationID, true).
		Count(&seats).Error
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &Subscription{
		OrganizationID: octx.OrganizationID,
		Plan:           settings.Plan,
		Seats:          seats,
		SeatLimit:      planSeatLimits[settings.Plan],
	}, nil
}

func (s *BillingService) ChangePlan(ctx context.Context, octx *OrgContext, plan string) (*Subscription, error) {
	limit, ok := planSeatLimits[plan]
	if !ok {
		return nil, apperrors.Validation(fmt.Sprintf("unknown plan %q", plan))
	}

	sub, err := s.GetSubscription(ctx, octx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && sub.Seats > int64(limit) {
		return nil, apperrors.Validation("organization has more active members than the plan allows")
	}

	if err := s.provider.ChangePlan(ctx, octx.OrganizationID, plan); err != nil {
		return nil, apperrors.Internal(err)
	}

	err = s.db.DB().WithContext(ctx).
		Model(&models.OrganizationSettings{}).
		Where("organization_id = ?", octx.OrganizationID).
		Update("plan", plan).Error
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	sub.Plan = plan
	sub.SeatLimit = limit
	return sub, nil
}

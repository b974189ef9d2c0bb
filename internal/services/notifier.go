package services

import (
	"context"

	"github.com/leavehub/hr-platform-api/pkg/utils"
)

// Notifier delivers outbound notifications. Email delivery lives outside
// this service; in development the log notifier just records the intent.
type Notifier interface {
	SendInvitation(ctx context.Context, email, organizationName, token string) error
}

type logNotifier struct{}

func NewLogNotifier() Notifier {
	return &logNotifier{}
}

func (n *logNotifier) SendInvitation(ctx context.Context, email, organizationName, token string) error {
	utils.LogInfo(ctx, "invitation notification", utils.LogFields{
		"email":        email,
		"organization": organizationName,
	})
	return nil
}

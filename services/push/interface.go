package push

import (
	"context"

	"classhub/models"
)

// PushService manages durable push subscriptions and fans notifications out
// to a user's registered endpoints. Delivery outcomes for individual
// endpoints are handled internally: permanently-gone endpoints are pruned,
// transient failures are logged and left for the next attempt, and neither
// ever fails the operation that triggered the notification.
type PushService interface {
	Subscribe(ctx context.Context, userID, endpoint, p256dh, auth string) error
	Unsubscribe(ctx context.Context, userID, endpoint string) error
	Dispatch(ctx context.Context, userID string, notification models.Notification) error
}

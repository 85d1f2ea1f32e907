package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	subscriptionRepo "classhub/database/repository/subscription"
	"classhub/errs"
	"classhub/models"

	"go.uber.org/zap"
)

// DefaultPushService is the production implementation of PushService.
type DefaultPushService struct {
	Repo      subscriptionRepo.SubscriptionRepository
	Transport Transport
	Logger    *zap.Logger
}

// NewDefaultPushService wires a dispatcher over the given store and transport.
func NewDefaultPushService(repo subscriptionRepo.SubscriptionRepository, transport Transport, logger *zap.Logger) (*DefaultPushService, error) {
	if repo == nil || transport == nil {
		return nil, fmt.Errorf("push service initialization error: repo or transport is nil")
	}
	return &DefaultPushService{Repo: repo, Transport: transport, Logger: logger}, nil
}

// Subscribe upserts a durable subscription keyed by (user, endpoint).
// Re-subscribing the same endpoint after a key rotation overwrites the keys.
func (s *DefaultPushService) Subscribe(ctx context.Context, userID, endpoint, p256dh, auth string) error {
	if strings.TrimSpace(userID) == "" {
		return errs.NewValidationError("user id is required")
	}
	if strings.TrimSpace(endpoint) == "" {
		return errs.NewValidationError("subscription endpoint is required")
	}
	if strings.TrimSpace(p256dh) == "" || strings.TrimSpace(auth) == "" {
		return errs.NewValidationError("subscription keys are required")
	}

	sub := &models.PushSubscription{
		UserID:   userID,
		Endpoint: endpoint,
		P256dh:   p256dh,
		Auth:     auth,
	}
	return s.Repo.Upsert(sub)
}

// Unsubscribe removes exactly the (user, endpoint) record. Absence is not an
// error.
func (s *DefaultPushService) Unsubscribe(ctx context.Context, userID, endpoint string) error {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(endpoint) == "" {
		return errs.NewValidationError("user id and endpoint are required")
	}
	return s.Repo.Delete(userID, endpoint)
}

// Dispatch loads every subscription the user holds and attempts delivery to
// each independently. An endpoint the transport reports as permanently gone
// is removed; any other failure is logged and the subscription is kept for
// the next attempt. One bad endpoint never blocks the others.
func (s *DefaultPushService) Dispatch(ctx context.Context, userID string, notification models.Notification) error {
	subs, err := s.Repo.GetByUser(userID)
	if err != nil {
		return fmt.Errorf("dispatch: failed to load subscriptions for user %s: %w", userID, err)
	}
	if len(subs) == 0 {
		s.Logger.Debug("dispatch: no subscriptions", zap.String("userId", userID))
		return nil
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("dispatch: failed to marshal notification: %w", err)
	}

	for _, sub := range subs {
		if err := s.Transport.Send(ctx, sub, payload); err != nil {
			if errors.Is(err, ErrEndpointGone) {
				if delErr := s.Repo.Delete(sub.UserID, sub.Endpoint); delErr != nil {
					s.Logger.Warn("dispatch: failed to prune gone endpoint",
						zap.String("userId", userID), zap.Error(delErr))
				} else {
					s.Logger.Info("dispatch: pruned gone endpoint",
						zap.String("userId", userID), zap.String("endpoint", sub.Endpoint))
				}
				continue
			}
			deliveryErr := &errs.DeliveryError{Endpoint: sub.Endpoint, Err: err}
			s.Logger.Warn("dispatch: delivery failed",
				zap.String("userId", userID), zap.Error(deliveryErr))
			continue
		}
	}
	return nil
}

package subscriptionRepo

import "classhub/models"

// SubscriptionRepository defines data access for durable push subscriptions.
type SubscriptionRepository interface {
	// Upsert stores a subscription keyed by (user, endpoint). Re-subscribing
	// an existing endpoint overwrites the keys in place.
	Upsert(sub *models.PushSubscription) error
	// Delete removes the subscription for (user, endpoint). Absence is not
	// an error.
	Delete(userID, endpoint string) error
	// GetByUser retrieves all subscriptions belonging to a user.
	GetByUser(userID string) ([]models.PushSubscription, error)
}

package subscriptionRepo

import (
	"context"
	"fmt"
	"time"

	"classhub/database"
	"classhub/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSubscriptionRepo implements SubscriptionRepository using MongoDB.
type MongoSubscriptionRepo struct {
	coll *mongo.Collection
}

// NewMongoSubscriptionRepo creates a new instance of SubscriptionRepository using MongoDB.
func NewMongoSubscriptionRepo(dbName string) SubscriptionRepository {
	coll := database.MongoClient.Database(dbName).Collection("push_subscriptions")
	repo := &MongoSubscriptionRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create subscription indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoSubscriptionRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	// One record per (owner, endpoint).
	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "endpoint", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Upsert stores a subscription keyed by (user, endpoint), overwriting the
// keys when the endpoint is already registered.
func (r *MongoSubscriptionRepo) Upsert(sub *models.PushSubscription) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	filter := bson.M{"user_id": sub.UserID, "endpoint": sub.Endpoint}
	update := bson.M{
		"$set": bson.M{
			"p256dh":     sub.P256dh,
			"auth":       sub.Auth,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"id":         uuid.New().String(),
			"user_id":    sub.UserID,
			"endpoint":   sub.Endpoint,
			"created_at": now,
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := r.coll.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert subscription for user %s: %w", sub.UserID, err)
	}
	return nil
}

// Delete removes the subscription for (user, endpoint). Deleting an absent
// record is a no-op.
func (r *MongoSubscriptionRepo) Delete(userID, endpoint string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"user_id": userID, "endpoint": endpoint}
	if _, err := r.coll.DeleteOne(ctx, filter); err != nil {
		return fmt.Errorf("failed to delete subscription for user %s: %w", userID, err)
	}
	return nil
}

// GetByUser retrieves all subscriptions belonging to a user.
func (r *MongoSubscriptionRepo) GetByUser(userID string) ([]models.PushSubscription, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var subs []models.PushSubscription
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, fmt.Errorf("failed to decode subscriptions: %w", err)
	}
	return subs, nil
}

package activityRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"classhub/database"
	"classhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoActivityRepo implements ActivityRepository using MongoDB.
type MongoActivityRepo struct {
	coll *mongo.Collection
}

// NewMongoActivityRepo creates a new instance of ActivityRepository using MongoDB.
func NewMongoActivityRepo(dbName string) ActivityRepository {
	coll := database.MongoClient.Database(dbName).Collection("activities")
	repo := &MongoActivityRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create activity indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoActivityRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "starts_at", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByID retrieves an activity by its unique ID.
func (r *MongoActivityRepo) GetByID(id string) (*models.Activity, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var activity models.Activity
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&activity)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch activity %s: %w", id, err)
	}
	return &activity, nil
}

// GetAll retrieves all activities sorted by start time.
func (r *MongoActivityRepo) GetAll() ([]models.Activity, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "starts_at", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer cursor.Close(ctx)

	var activities []models.Activity
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, fmt.Errorf("failed to decode activities: %w", err)
	}
	return activities, nil
}

// Create inserts a new activity document.
func (r *MongoActivityRepo) Create(activity *models.Activity) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	activity.CreatedAt = now
	activity.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, activity); err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}
	return nil
}

// Update modifies an existing activity document. The derived occupancy field
// is deliberately excluded from the write.
func (r *MongoActivityRepo) Update(activity *models.Activity) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	activity.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"title":      activity.Title,
		"service_id": activity.ServiceID,
		"starts_at":  activity.StartsAt,
		"capacity":   activity.Capacity,
		"status":     activity.Status,
		"contact":    activity.Contact,
		"updated_at": activity.UpdatedAt,
	}}

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": activity.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update activity %s: %w", activity.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("activity with id %s not found", activity.ID)
	}
	return nil
}

// SetStatus updates only the lifecycle status of an activity.
func (r *MongoActivityRepo) SetStatus(id, status string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to set status for activity %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("activity with id %s not found", id)
	}
	return nil
}

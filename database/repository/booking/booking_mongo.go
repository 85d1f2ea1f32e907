package bookingRepo

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

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	bookingColl  *mongo.Collection
	activityColl *mongo.Collection
}

// NewMongoBookingRepo creates a new instance of BookingRepository using MongoDB.
func NewMongoBookingRepo(dbName string) BookingRepository {
	db := database.MongoClient.Database(dbName)
	repo := &MongoBookingRepo{
		bookingColl:  db.Collection("bookings"),
		activityColl: db.Collection("activities"),
	}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create booking indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoBookingRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "activity_id", Value: 1}}},
		{Keys: bson.D{{Key: "payer_id", Value: 1}}},
	}

	_, err := r.bookingColl.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByID retrieves a booking by its unique ID.
func (r *MongoBookingRepo) GetByID(id string) (*models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var booking models.Booking
	err := r.bookingColl.FindOne(ctx, bson.M{"id": id}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch booking %s: %w", id, err)
	}
	return &booking, nil
}

// GetByActivity retrieves all bookings referencing an activity, newest first.
func (r *MongoBookingRepo) GetByActivity(activityID string) ([]models.Booking, error) {
	return r.find(bson.M{"activity_id": activityID})
}

// GetByPayer retrieves all bookings paid for by a user, newest first.
func (r *MongoBookingRepo) GetByPayer(payerID string) ([]models.Booking, error) {
	return r.find(bson.M{"payer_id": payerID})
}

func (r *MongoBookingRepo) find(filter bson.M) ([]models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.bookingColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

// ReplaceItems overwrites a booking's line items and total in one write. The
// list is replaced wholesale, never patched, so a partial edit can't leave a
// stale mix of old and new items behind.
func (r *MongoBookingRepo) ReplaceItems(booking *models.Booking) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	booking.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"items":      booking.Items,
		"total":      booking.Total,
		"updated_at": booking.UpdatedAt,
	}}

	result, err := r.bookingColl.UpdateOne(ctx, bson.M{"id": booking.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update booking %s: %w", booking.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("booking with id %s not found", booking.ID)
	}
	return nil
}

// CountLive counts non-cancelled bookings referencing an activity.
func (r *MongoBookingRepo) CountLive(ctx context.Context, activityID string) (int, error) {
	n, err := r.bookingColl.CountDocuments(ctx, liveFilter(activityID))
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings for activity %s: %w", activityID, err)
	}
	return int(n), nil
}

func liveFilter(activityID string) bson.M {
	return bson.M{
		"activity_id": activityID,
		"status":      bson.M{"$ne": models.BookingCancelled},
	}
}

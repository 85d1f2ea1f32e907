package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"classhub/errs"
	"classhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// The occupancy recount is always a fresh count of live bookings followed by
// a $set on the activity document. It must never become an $inc/$dec: two
// concurrent operations on the same activity each overwrite the cached count,
// and only a fresh aggregate keeps the final value correct regardless of
// interleaving.

// CreateAndRecount inserts a booking and writes the recomputed occupancy onto
// the activity inside one transaction.
func (r *MongoBookingRepo) CreateAndRecount(ctx context.Context, booking *models.Booking) (int, error) {
	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	var occupancy int
	err := r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		if _, err := r.bookingColl.InsertOne(sc, booking); err != nil {
			return fmt.Errorf("insert booking failed: %w", err)
		}
		n, err := r.recountOccupancy(sc, booking.ActivityID)
		if err != nil {
			return err
		}
		occupancy = n
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("booking create transaction failed: %w", err)
	}
	return occupancy, nil
}

// DeleteAndRecount removes a booking and writes the recomputed occupancy onto
// the activity inside one transaction. Line items are embedded in the booking
// document, so they are removed with it.
func (r *MongoBookingRepo) DeleteAndRecount(ctx context.Context, bookingID, activityID string) (int, error) {
	var occupancy int
	err := r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		result, err := r.bookingColl.DeleteOne(sc, bson.M{"id": bookingID})
		if err != nil {
			return fmt.Errorf("delete booking failed: %w", err)
		}
		if result.DeletedCount == 0 {
			// Another cancel won the race between the caller's read and this
			// delete. Surface the same NotFound a plain double cancel gets.
			return errs.NewNotFoundError("booking", bookingID)
		}
		n, err := r.recountOccupancy(sc, activityID)
		if err != nil {
			return err
		}
		occupancy = n
		return nil
	})
	if err != nil {
		var notFound *errs.NotFoundError
		if errors.As(err, &notFound) {
			return 0, err
		}
		return 0, fmt.Errorf("booking delete transaction failed: %w", err)
	}
	return occupancy, nil
}

// recountOccupancy counts live bookings for the activity and stores the count
// on the activity document, within the caller's session.
func (r *MongoBookingRepo) recountOccupancy(sc mongo.SessionContext, activityID string) (int, error) {
	n, err := r.bookingColl.CountDocuments(sc, liveFilter(activityID))
	if err != nil {
		return 0, fmt.Errorf("count bookings failed: %w", err)
	}

	update := bson.M{"$set": bson.M{"occupancy": n, "updated_at": time.Now()}}
	result, err := r.activityColl.UpdateOne(sc, bson.M{"id": activityID}, update)
	if err != nil {
		return 0, fmt.Errorf("write occupancy failed: %w", err)
	}
	if result.MatchedCount == 0 {
		return 0, fmt.Errorf("activity with id %s not found", activityID)
	}
	return int(n), nil
}

func (r *MongoBookingRepo) withTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	client := r.bookingColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := fn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
}

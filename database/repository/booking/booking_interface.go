package bookingRepo

import (
	"context"

	"classhub/models"
)

// BookingRepository defines data access for bookings. Creation and deletion
// pair the booking write with a recount of the owning activity's occupancy in
// one transaction, so a booking can never exist without being reflected in
// the activity's cached count.
type BookingRepository interface {
	// GetByID retrieves a booking by its unique ID. Returns (nil, nil) when
	// absent.
	GetByID(id string) (*models.Booking, error)
	// GetByActivity retrieves all bookings referencing an activity, newest first.
	GetByActivity(activityID string) ([]models.Booking, error)
	// GetByPayer retrieves all bookings paid for by a user, newest first.
	GetByPayer(payerID string) ([]models.Booking, error)
	// ReplaceItems overwrites a booking's line items and total.
	ReplaceItems(booking *models.Booking) error
	// CountLive counts non-cancelled bookings referencing an activity.
	CountLive(ctx context.Context, activityID string) (int, error)
	// CreateAndRecount inserts a booking and recounts the activity's
	// occupancy in a single transaction. Returns the fresh count.
	CreateAndRecount(ctx context.Context, booking *models.Booking) (int, error)
	// DeleteAndRecount removes a booking (line items are embedded and go
	// with it) and recounts the activity's occupancy in a single
	// transaction. Returns the fresh count.
	DeleteAndRecount(ctx context.Context, bookingID, activityID string) (int, error)
}

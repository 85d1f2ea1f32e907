package booking

import (
	"context"

	"classhub/models"
)

// Event names published on the live channel by the booking service. All are
// published to the activity's room.
const (
	EventBookingCreated   = "booking:created"
	EventBookingCancelled = "booking:cancelled"
	EventOccupancyChanged = "activity:occupancy-changed"
)

// BookingService orchestrates the lifecycle of bookings: eligibility and
// pricing checks, the transactional write paired with the occupancy recount,
// and the post-commit fan-out to the live channel and push dispatcher.
type BookingService interface {
	// CreateBooking books a subject into an activity with the selected line
	// items. Duplicate calls create duplicate bookings; deduplication is the
	// caller's concern.
	CreateBooking(ctx context.Context, subjectID, payerID, activityID string, selections []models.LineItemSelection) (*models.Booking, error)
	// EditBooking replaces the booking's entire line-item list and reprices
	// it. Only the owner (payer) or an admin may edit, and only while the
	// activity start is at least 24 hours away.
	EditBooking(ctx context.Context, actor models.Actor, bookingID string, selections []models.LineItemSelection) (*models.Booking, error)
	// CancelBooking removes the booking and its line items. Same ownership
	// and cutoff rules as EditBooking. Cancelling an already-cancelled
	// booking fails with NotFound.
	CancelBooking(ctx context.Context, actor models.Actor, bookingID string) error
	// GetBooking retrieves one booking, visible to its owner, staff and admins.
	GetBooking(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error)
	// GetActivityBookings lists all bookings for an activity (staff/admin view).
	GetActivityBookings(ctx context.Context, activityID string) ([]models.Booking, error)
	// GetOwnBookings lists the bookings the actor has paid for.
	GetOwnBookings(ctx context.Context, actor models.Actor) ([]models.Booking, error)
}

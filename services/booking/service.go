package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	activityRepo "classhub/database/repository/activity"
	bookingRepo "classhub/database/repository/booking"
	catalogRepo "classhub/database/repository/catalog"
	userRepo "classhub/database/repository/user"
	"classhub/errs"
	"classhub/models"
	"classhub/realtime"
	"classhub/services/push"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EditCutoff is the minimum interval between now and the activity start for
// a booking to still be editable or cancellable. Activities whose start is
// already in the past are not gated.
const EditCutoff = 24 * time.Hour

// ReminderScheduler enqueues a delayed reminder push. Optional; a nil
// scheduler disables reminders.
type ReminderScheduler interface {
	ScheduleActivityReminder(payload models.ReminderPayload, fireAt time.Time) error
}

// DefaultBookingService is the production implementation of BookingService.
// The bus and push dispatcher are injected collaborators, never reached
// through package globals, and are invoked strictly after the transactional
// write commits; a failed booking never produces a notification.
type DefaultBookingService struct {
	Repo         bookingRepo.BookingRepository
	ActivityRepo activityRepo.ActivityRepository
	CatalogRepo  catalogRepo.CatalogRepository
	UserRepo     userRepo.UserRepository
	Bus          realtime.Bus
	Push         push.PushService
	Reminders    ReminderScheduler
	Logger       *zap.Logger
}

// CreateBooking validates the subject and activity, resolves pricing,
// persists the booking together with the occupancy recount in one
// transaction, and fans the result out.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, subjectID, payerID, activityID string, selections []models.LineItemSelection) (*models.Booking, error) {
	if subjectID == "" || payerID == "" || activityID == "" {
		return nil, errs.NewValidationError("subject, payer and activity ids are required")
	}

	subject, err := s.UserRepo.GetByID(subjectID)
	if err != nil {
		return nil, err
	}
	if subject == nil {
		return nil, errs.NewNotFoundError("subject", subjectID)
	}
	if subject.Role != models.RoleChild {
		return nil, errs.NewValidationError("subject %s is not a child account", subjectID)
	}

	activity, err := s.ActivityRepo.GetByID(activityID)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, errs.NewNotFoundError("activity", activityID)
	}

	items, total, err := ResolveLineItems(subject.AgeAt(time.Now()), selections, s.CatalogRepo)
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		ID:            uuid.New().String(),
		SubjectID:     subjectID,
		PayerID:       payerID,
		ActivityID:    activityID,
		Status:        models.BookingPending,
		PaymentStatus: models.PaymentPending,
		Total:         total,
		Items:         items,
	}

	occupancy, err := s.Repo.CreateAndRecount(ctx, booking)
	if err != nil {
		return nil, fmt.Errorf("failed to persist booking: %w", err)
	}
	s.Logger.Info("booking created",
		zap.String("bookingId", booking.ID),
		zap.String("activityId", activityID),
		zap.Int("occupancy", occupancy))

	room := realtime.ActivityRoom(activityID)
	s.Bus.Publish(room, EventBookingCreated, map[string]any{
		"bookingId":  booking.ID,
		"activityId": activityID,
	})
	s.Bus.Publish(room, EventOccupancyChanged, map[string]any{
		"activityId": activityID,
	})

	s.notifyPayer(ctx, booking, models.Notification{
		Type:  "booking_created",
		Title: "Booking confirmed",
		Body:  fmt.Sprintf("Your booking for %q has been registered.", activity.Title),
		Data: map[string]string{
			"bookingId":  booking.ID,
			"activityId": activityID,
		},
	})
	s.scheduleReminder(booking, activity)

	return booking, nil
}

// EditBooking replaces the line-item list wholesale and reprices the
// booking. Occupancy depends only on booking existence, so no occupancy
// event is emitted here.
func (s *DefaultBookingService) EditBooking(ctx context.Context, actor models.Actor, bookingID string, selections []models.LineItemSelection) (*models.Booking, error) {
	if bookingID == "" {
		return nil, errs.NewValidationError("booking id is required")
	}

	booking, err := s.Repo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, errs.NewNotFoundError("booking", bookingID)
	}
	if err := s.authorizeOwner(actor, booking); err != nil {
		return nil, err
	}

	activity, err := s.ActivityRepo.GetByID(booking.ActivityID)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, errs.NewNotFoundError("activity", booking.ActivityID)
	}
	if !mutationWindowOpen(activity.StartsAt, time.Now()) {
		return nil, &errs.EditWindowClosedError{BookingID: bookingID}
	}

	subject, err := s.UserRepo.GetByID(booking.SubjectID)
	if err != nil {
		return nil, err
	}
	if subject == nil {
		return nil, errs.NewNotFoundError("subject", booking.SubjectID)
	}

	items, total, err := ResolveLineItems(subject.AgeAt(time.Now()), selections, s.CatalogRepo)
	if err != nil {
		return nil, err
	}

	booking.Items = items
	booking.Total = total
	if err := s.Repo.ReplaceItems(booking); err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}
	s.Logger.Info("booking edited",
		zap.String("bookingId", booking.ID),
		zap.Float64("total", total))

	return booking, nil
}

// CancelBooking deletes the booking and recounts occupancy in one
// transaction, then fans the cancellation out.
func (s *DefaultBookingService) CancelBooking(ctx context.Context, actor models.Actor, bookingID string) error {
	if bookingID == "" {
		return errs.NewValidationError("booking id is required")
	}

	booking, err := s.Repo.GetByID(bookingID)
	if err != nil {
		return err
	}
	if booking == nil {
		return errs.NewNotFoundError("booking", bookingID)
	}
	if err := s.authorizeOwner(actor, booking); err != nil {
		return err
	}

	activity, err := s.ActivityRepo.GetByID(booking.ActivityID)
	if err != nil {
		return err
	}
	if activity == nil {
		return errs.NewNotFoundError("activity", booking.ActivityID)
	}
	if !mutationWindowOpen(activity.StartsAt, time.Now()) {
		return &errs.EditWindowClosedError{BookingID: bookingID}
	}

	occupancy, err := s.Repo.DeleteAndRecount(ctx, bookingID, booking.ActivityID)
	if err != nil {
		var notFound *errs.NotFoundError
		if errors.As(err, &notFound) {
			return err
		}
		return fmt.Errorf("failed to cancel booking: %w", err)
	}
	s.Logger.Info("booking cancelled",
		zap.String("bookingId", bookingID),
		zap.String("activityId", booking.ActivityID),
		zap.Int("occupancy", occupancy))

	room := realtime.ActivityRoom(booking.ActivityID)
	s.Bus.Publish(room, EventBookingCancelled, map[string]any{
		"activityId": booking.ActivityID,
	})
	s.Bus.Publish(room, EventOccupancyChanged, map[string]any{
		"activityId": booking.ActivityID,
	})

	s.notifyPayer(ctx, booking, models.Notification{
		Type:  "booking_cancelled",
		Title: "Booking cancelled",
		Body:  fmt.Sprintf("Your booking for %q has been cancelled.", activity.Title),
		Data: map[string]string{
			"activityId": booking.ActivityID,
		},
	})

	return nil
}

// GetBooking retrieves one booking for its owner, staff, or an admin.
func (s *DefaultBookingService) GetBooking(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error) {
	booking, err := s.Repo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, errs.NewNotFoundError("booking", bookingID)
	}
	if actor.ID != booking.PayerID && actor.Role != models.RoleStaff && !actor.IsAdmin() {
		return nil, errs.NewForbiddenError("caller may not view booking %s", bookingID)
	}
	return booking, nil
}

// GetActivityBookings lists all bookings for an activity.
func (s *DefaultBookingService) GetActivityBookings(ctx context.Context, activityID string) ([]models.Booking, error) {
	activity, err := s.ActivityRepo.GetByID(activityID)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, errs.NewNotFoundError("activity", activityID)
	}
	return s.Repo.GetByActivity(activityID)
}

// GetOwnBookings lists the bookings the actor has paid for.
func (s *DefaultBookingService) GetOwnBookings(ctx context.Context, actor models.Actor) ([]models.Booking, error) {
	return s.Repo.GetByPayer(actor.ID)
}

// authorizeOwner allows the booking's payer and admins.
func (s *DefaultBookingService) authorizeOwner(actor models.Actor, booking *models.Booking) error {
	if actor.ID == booking.PayerID || actor.IsAdmin() {
		return nil
	}
	return errs.NewForbiddenError("caller is neither the booking owner nor an admin")
}

// mutationWindowOpen reports whether a booking on an activity starting at
// startsAt may still be edited or cancelled. Starts already in the past are
// not gated.
func mutationWindowOpen(startsAt, now time.Time) bool {
	if !startsAt.After(now) {
		return true
	}
	return startsAt.Sub(now) >= EditCutoff
}

// notifyPayer dispatches a push to the booking's payer. Delivery problems
// degrade to "no notification sent"; they never fail the booking operation.
func (s *DefaultBookingService) notifyPayer(ctx context.Context, booking *models.Booking, n models.Notification) {
	if err := s.Push.Dispatch(ctx, booking.PayerID, n); err != nil {
		s.Logger.Warn("push dispatch failed",
			zap.String("userId", booking.PayerID),
			zap.String("type", n.Type),
			zap.Error(err))
	}
}

// scheduleReminder queues a reminder push for the payer ahead of the
// activity start. Skipped when no scheduler is wired or the start is too
// close for the reminder to be useful.
func (s *DefaultBookingService) scheduleReminder(booking *models.Booking, activity *models.Activity) {
	if s.Reminders == nil {
		return
	}
	fireAt := activity.StartsAt.Add(-EditCutoff)
	if !fireAt.After(time.Now()) {
		return
	}
	payload := models.ReminderPayload{
		UserID:     booking.PayerID,
		BookingID:  booking.ID,
		ActivityID: activity.ID,
		Title:      "Upcoming activity",
		Body:       fmt.Sprintf("%q starts %s.", activity.Title, activity.StartsAt.Format("Mon Jan 2 at 15:04")),
		FireDate:   fireAt.Format(time.RFC3339),
	}
	if err := s.Reminders.ScheduleActivityReminder(payload, fireAt); err != nil {
		s.Logger.Warn("failed to schedule reminder",
			zap.String("bookingId", booking.ID), zap.Error(err))
	}
}

// Package errs defines the typed domain errors shared by the booking and
// chat services. Handlers map these onto HTTP statuses; nothing in the
// services layer panics or returns bare strings for expected failures.
package errs

import (
	"fmt"
	"strings"
)

// ValidationError reports malformed or missing input. The message is surfaced
// to the caller verbatim.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func NewNotFoundError(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// IneligibleItemError rejects a booking whose subject is too young for one or
// more selected catalog items. It carries every offending item name so the
// caller can correct all of them at once.
type IneligibleItemError struct {
	ItemNames []string
}

func (e *IneligibleItemError) Error() string {
	return fmt.Sprintf("subject is not old enough for: %s", strings.Join(e.ItemNames, ", "))
}

// EditWindowClosedError reports a booking mutation attempted less than the
// cutoff interval before the activity starts.
type EditWindowClosedError struct {
	BookingID string
}

func (e *EditWindowClosedError) Error() string {
	return fmt.Sprintf("booking %s can no longer be changed: the activity starts in less than 24 hours", e.BookingID)
}

// ForbiddenError reports a caller who is neither the owner of the record nor
// an admin.
type ForbiddenError struct {
	Msg string
}

func (e *ForbiddenError) Error() string {
	return e.Msg
}

func NewForbiddenError(format string, args ...any) error {
	return &ForbiddenError{Msg: fmt.Sprintf(format, args...)}
}

// DeliveryError reports a push delivery failure for one endpoint. It is only
// ever logged; it never reaches the caller of a booking or chat operation.
type DeliveryError struct {
	Endpoint string
	Err      error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("push delivery to %s failed: %v", e.Endpoint, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

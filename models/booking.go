package models

import "time"

// Booking statuses.
const (
	BookingPending   = "pending"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
)

// Payment statuses.
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// BookingLineItem is one priced selection within a booking. UnitPrice is a
// snapshot taken at resolution time so later catalog edits do not change the
// booked total.
type BookingLineItem struct {
	CatalogItemID string  `bson:"catalog_item_id" json:"catalogItemId"`
	VariantID     string  `bson:"variant_id,omitempty" json:"variantId,omitempty"`
	Name          string  `bson:"name" json:"name"`
	UnitPrice     float64 `bson:"unit_price" json:"unitPrice"`
}

// Booking is one child's reservation for an activity. Line items are embedded
// and owned exclusively by the booking; they are replaced wholesale on edit
// and removed with the booking on cancel.
// Invariant: Total == sum of line item unit prices.
type Booking struct {
	ID            string            `bson:"id" json:"id"`
	SubjectID     string            `bson:"subject_id" json:"subjectId"` // the child attending
	PayerID       string            `bson:"payer_id" json:"payerId"`     // the parent paying
	ActivityID    string            `bson:"activity_id" json:"activityId"`
	Status        string            `bson:"status" json:"status"`
	PaymentStatus string            `bson:"payment_status" json:"paymentStatus"`
	Total         float64           `bson:"total" json:"total"`
	Items         []BookingLineItem `bson:"items" json:"items"`
	CreatedAt     time.Time         `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time         `bson:"updated_at" json:"updatedAt"`
}

// LineItemSelection is the caller-supplied shape of one requested line item,
// before pricing resolution.
type LineItemSelection struct {
	CatalogItemID string `json:"catalogItemId"`
	VariantID     string `json:"variantId,omitempty"`
}

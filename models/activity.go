package models

import "time"

// Activity statuses.
const (
	ActivityScheduled  = "scheduled"
	ActivityInProgress = "in-progress"
	ActivityCompleted  = "completed"
	ActivityCancelled  = "cancelled"
)

// ActivityContact holds the structured contact details for the person running
// an activity.
type ActivityContact struct {
	Executor string `bson:"executor" json:"executor"`
	Phone    string `bson:"phone" json:"phone"`
	Notes    string `bson:"notes" json:"notes"`
}

// Activity is a scheduled group workshop that children can book into.
// Occupancy is a cached derived value: it is always recomputed from a fresh
// count of live bookings, never incremented in place.
type Activity struct {
	ID        string          `bson:"id" json:"id"`
	Title     string          `bson:"title" json:"title"`
	ServiceID string          `bson:"service_id" json:"serviceId"` // catalog service reference
	StartsAt  time.Time       `bson:"starts_at" json:"startsAt"`
	Capacity  int             `bson:"capacity" json:"capacity"`
	Status    string          `bson:"status" json:"status"`
	Occupancy int             `bson:"occupancy" json:"occupancy"`
	Contact   ActivityContact `bson:"contact" json:"contact"`
	CreatedAt time.Time       `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time       `bson:"updated_at" json:"updatedAt"`
}

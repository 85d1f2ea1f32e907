package models

import "time"

// PushSubscription is one durable Web Push delivery endpoint belonging to a
// user. A user may hold several (one per device/browser). Unique per
// (owner, endpoint); re-subscribing the same endpoint overwrites the keys.
type PushSubscription struct {
	ID        string    `bson:"id" json:"id"`
	UserID    string    `bson:"user_id" json:"userId"`
	Endpoint  string    `bson:"endpoint" json:"endpoint"`
	P256dh    string    `bson:"p256dh" json:"p256dh"`
	Auth      string    `bson:"auth" json:"auth"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

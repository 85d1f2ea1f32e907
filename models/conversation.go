package models

import "time"

// Conversation is the message thread between one user and the school staff.
// It is keyed by the owning user; the other party is implicitly "staff".
type Conversation struct {
	ID        string    `bson:"id" json:"id"`
	OwnerID   string    `bson:"owner_id" json:"ownerId"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// ConversationMessage is one append-only message in a conversation. Messages
// are never edited or deleted.
type ConversationMessage struct {
	ID             string    `bson:"id" json:"id"`
	ConversationID string    `bson:"conversation_id" json:"conversationId"`
	SenderID       string    `bson:"sender_id" json:"senderId"`
	Body           string    `bson:"body" json:"body"`
	CreatedAt      time.Time `bson:"created_at" json:"createdAt"`
}

package chat

import (
	"context"

	"classhub/models"
)

// EventChatMessage is published to the conversation's room for every
// appended message.
const EventChatMessage = "chat:message"

// ChatService manages the append-only conversation log between a user and
// the school staff, reusing the same live-channel and push fan-out pipeline
// as the booking service.
type ChatService interface {
	// StartConversation returns the caller's conversation, creating it on
	// first use. Idempotent.
	StartConversation(ctx context.Context, ownerUserID string) (*models.Conversation, error)
	// AppendMessage appends one message, publishes it to the conversation
	// room and, when the message comes from the staff side, pushes it to
	// the conversation owner. Only the owner, staff, or an admin may write.
	AppendMessage(ctx context.Context, actor models.Actor, conversationID, body string) (*models.ConversationMessage, error)
	// GetMessages returns the conversation's history, oldest first, for the
	// owner, staff, or an admin.
	GetMessages(ctx context.Context, actor models.Actor, conversationID string) ([]models.ConversationMessage, error)
}

package conversationRepo

import "classhub/models"

// ConversationRepository defines data access for conversations and their
// append-only message logs.
type ConversationRepository interface {
	// GetByID retrieves a conversation by its unique ID. Returns (nil, nil)
	// when absent.
	GetByID(id string) (*models.Conversation, error)
	// GetByOwner retrieves the conversation owned by a user. Returns
	// (nil, nil) when the user has none yet.
	GetByOwner(ownerID string) (*models.Conversation, error)
	// Create inserts a new conversation record.
	Create(conversation *models.Conversation) error
	// AppendMessage appends one message to a conversation's log.
	AppendMessage(message *models.ConversationMessage) error
	// GetMessages retrieves a conversation's messages, oldest first.
	GetMessages(conversationID string) ([]models.ConversationMessage, error)
}

package chat

import (
	"context"
	"strings"

	conversationRepo "classhub/database/repository/conversation"
	"classhub/errs"
	"classhub/models"
	"classhub/realtime"
	"classhub/services/push"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultChatService is the production implementation of ChatService.
type DefaultChatService struct {
	Repo   conversationRepo.ConversationRepository
	Bus    realtime.Bus
	Push   push.PushService
	Logger *zap.Logger
}

// StartConversation returns the existing conversation for the owner or
// creates one.
func (s *DefaultChatService) StartConversation(ctx context.Context, ownerUserID string) (*models.Conversation, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return nil, errs.NewValidationError("owner user id is required")
	}

	existing, err := s.Repo.GetByOwner(ownerUserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	conversation := &models.Conversation{
		ID:      uuid.New().String(),
		OwnerID: ownerUserID,
	}
	if err := s.Repo.Create(conversation); err != nil {
		return nil, err
	}
	s.Logger.Info("conversation started",
		zap.String("conversationId", conversation.ID),
		zap.String("ownerId", ownerUserID))
	return conversation, nil
}

// AppendMessage persists the message, publishes it to the conversation's
// live room, and pushes it to the owner when the sender is on the staff
// side. Messages from the owner go to staff, who have no durable push
// target, so only the live channel carries those.
func (s *DefaultChatService) AppendMessage(ctx context.Context, actor models.Actor, conversationID, body string) (*models.ConversationMessage, error) {
	if strings.TrimSpace(body) == "" {
		return nil, errs.NewValidationError("message body must not be empty")
	}
	if conversationID == "" || actor.ID == "" {
		return nil, errs.NewValidationError("conversation and sender ids are required")
	}

	conversation, err := s.Repo.GetByID(conversationID)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, errs.NewNotFoundError("conversation", conversationID)
	}
	if actor.ID != conversation.OwnerID && actor.Role != models.RoleStaff && !actor.IsAdmin() {
		return nil, errs.NewForbiddenError("caller may not write to conversation %s", conversationID)
	}

	message := &models.ConversationMessage{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		SenderID:       actor.ID,
		Body:           body,
	}
	if err := s.Repo.AppendMessage(message); err != nil {
		return nil, err
	}

	s.Bus.Publish(realtime.ConversationRoom(conversationID), EventChatMessage, map[string]any{
		"conversationId": conversationID,
		"message":        message,
	})

	if actor.ID != conversation.OwnerID {
		n := models.Notification{
			Type:  "chat_message",
			Title: "New message",
			Body:  body,
			Data:  map[string]string{"conversationId": conversationID},
		}
		if err := s.Push.Dispatch(ctx, conversation.OwnerID, n); err != nil {
			s.Logger.Warn("push dispatch failed",
				zap.String("userId", conversation.OwnerID), zap.Error(err))
		}
	}

	return message, nil
}

// GetMessages returns the conversation's history for the owner, staff, or
// an admin.
func (s *DefaultChatService) GetMessages(ctx context.Context, actor models.Actor, conversationID string) ([]models.ConversationMessage, error) {
	conversation, err := s.Repo.GetByID(conversationID)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, errs.NewNotFoundError("conversation", conversationID)
	}
	if actor.ID != conversation.OwnerID && actor.Role != models.RoleStaff && !actor.IsAdmin() {
		return nil, errs.NewForbiddenError("caller may not view conversation %s", conversationID)
	}
	return s.Repo.GetMessages(conversationID)
}

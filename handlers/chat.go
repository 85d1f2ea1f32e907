package handlers

import (
	"net/http"

	"classhub/services/chat"

	"github.com/gin-gonic/gin"
)

// ChatHandler exposes the conversation log between a user and the staff.
type ChatHandler struct {
	svc chat.ChatService
}

func NewChatHandler(svc chat.ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

// StartConversation handles POST /api/conversations. Parents and children
// open their own thread; repeated calls return the same conversation.
func (h *ChatHandler) StartConversation(c *gin.Context) {
	actor := actorFrom(c)
	conversation, err := h.svc.StartConversation(c.Request.Context(), actor.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, conversation)
}

type sendMessageInput struct {
	Body string `json:"body"`
}

// SendMessage handles POST /api/conversations/:id/messages.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var input sendMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	message, err := h.svc.AppendMessage(c.Request.Context(), actorFrom(c), c.Param("id"), input.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

// GetMessages handles GET /api/conversations/:id/messages.
func (h *ChatHandler) GetMessages(c *gin.Context) {
	messages, err := h.svc.GetMessages(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

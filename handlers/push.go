package handlers

import (
	"net/http"

	"classhub/config"
	"classhub/services/push"

	"github.com/gin-gonic/gin"
)

// PushHandler manages the caller's durable push subscriptions.
type PushHandler struct {
	svc push.PushService
}

func NewPushHandler(svc push.PushService) *PushHandler {
	return &PushHandler{svc: svc}
}

type subscribeInput struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}

// Subscribe handles POST /api/push/subscriptions. The body mirrors the
// browser's PushSubscription JSON.
func (h *PushHandler) Subscribe(c *gin.Context) {
	var input subscribeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	actor := actorFrom(c)
	if err := h.svc.Subscribe(c.Request.Context(), actor.ID, input.Endpoint, input.Keys.P256dh, input.Keys.Auth); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type unsubscribeInput struct {
	Endpoint string `json:"endpoint"`
}

// Unsubscribe handles DELETE /api/push/subscriptions.
func (h *PushHandler) Unsubscribe(c *gin.Context) {
	var input unsubscribeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	actor := actorFrom(c)
	if err := h.svc.Unsubscribe(c.Request.Context(), actor.ID, input.Endpoint); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PublicKey handles GET /api/push/public-key. Clients need the VAPID public
// key to create a subscription.
func (h *PushHandler) PublicKey(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"publicKey": config.AppConfig.VAPIDPublicKey})
}

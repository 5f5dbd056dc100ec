package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"quickstay/services/user"
	"quickstay/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WebhookVerifier checks a signed webhook delivery against its headers.
type WebhookVerifier interface {
	Verify(payload []byte, headers http.Header) error
}

// ClerkWebhookHandler handles POST /api/clerk.
type ClerkWebhookHandler struct {
	Verifier WebhookVerifier
	Users    user.UserService
}

func NewClerkWebhookHandler(verifier WebhookVerifier, users user.UserService) *ClerkWebhookHandler {
	return &ClerkWebhookHandler{Verifier: verifier, Users: users}
}

// Handle mirrors Clerk user lifecycle events into the users collection.
func (h *ClerkWebhookHandler) Handle(c *gin.Context) {
	payload, ok := readWebhookBody(c)
	if !ok {
		return
	}
	if err := h.Verifier.Verify(payload, c.Request.Header); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Webhook Error", "invalid signature")
		return
	}

	var event user.ClerkEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Webhook Error", err.Error())
		return
	}

	err := h.Users.SyncClerkEvent(c.Request.Context(), event)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Webhook Received"})
	case errors.Is(err, user.ErrUnsupportedEvent):
		getLogger(c).Debug("ignoring clerk event", zap.String("type", event.Type))
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Event ignored"})
	default:
		respondError(c, err)
	}
}

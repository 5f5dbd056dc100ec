package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"quickstay/models"
	"quickstay/services/booking"
	"quickstay/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxWebhookBody bounds webhook payloads read into memory.
const maxWebhookBody = 1 << 16

// PaymentEventParser verifies and decodes a payment provider webhook.
type PaymentEventParser interface {
	ParseEvent(payload []byte, signature string) (*models.PaymentEvent, error)
}

// PaymentConfirmer settles a booking from a payment outcome.
type PaymentConfirmer interface {
	ConfirmFromWebhook(ctx context.Context, sessionID string, outcome models.PaymentOutcome) (*models.Booking, error)
}

// EventFilter drops redelivered webhook events whose outcome is final.
type EventFilter interface {
	Handled(ctx context.Context, eventID string) (bool, error)
	MarkHandled(ctx context.Context, eventID string) error
}

// StripeWebhookHandler handles POST /api/stripe.
type StripeWebhookHandler struct {
	Parser   PaymentEventParser
	Bookings PaymentConfirmer
	// Seen is optional; ConfirmFromWebhook is idempotent without it.
	Seen EventFilter
}

// readWebhookBody reads at most maxWebhookBody bytes. Larger payloads are
// rejected with 413 rather than truncated into a signature failure.
func readWebhookBody(c *gin.Context) ([]byte, bool) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.JSONError(c, http.StatusRequestEntityTooLarge, "Webhook payload too large", "")
			return nil, false
		}
		utils.JSONError(c, http.StatusBadRequest, "Webhook Error", err.Error())
		return nil, false
	}
	return payload, true
}

func NewStripeWebhookHandler(parser PaymentEventParser, bookings PaymentConfirmer, seen EventFilter) *StripeWebhookHandler {
	return &StripeWebhookHandler{Parser: parser, Bookings: bookings, Seen: seen}
}

// Handle verifies the event and drives the booking confirmation. Outcomes
// that cannot change on redelivery are acknowledged with 200; transient
// failures return 500 so Stripe retries.
func (h *StripeWebhookHandler) Handle(c *gin.Context) {
	logger := getLogger(c)
	ctx := c.Request.Context()

	payload, ok := readWebhookBody(c)
	if !ok {
		return
	}
	event, err := h.Parser.ParseEvent(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Webhook Error", err.Error())
		return
	}
	if event == nil {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if h.Seen != nil && event.EventID != "" {
		handled, err := h.Seen.Handled(ctx, event.EventID)
		if err != nil {
			logger.Warn("webhook replay filter unavailable", zap.Error(err))
		} else if handled {
			c.JSON(http.StatusOK, gin.H{"received": true, "duplicate": true})
			return
		}
	}

	log := logger.With(zap.String("eventId", event.EventID), zap.String("sessionId", event.SessionID), zap.String("outcome", string(event.Outcome)))
	b, err := h.Bookings.ConfirmFromWebhook(ctx, event.SessionID, event.Outcome)
	switch {
	case err == nil:
		log.Info("payment webhook applied", zap.String("bookingId", b.ID), zap.String("status", string(b.Status)))
	case errors.Is(err, booking.ErrNotFound):
		log.Warn("payment webhook for unknown session")
	case errors.Is(err, booking.ErrRoomUnavailable), errors.Is(err, booking.ErrInvalidState):
		log.Warn("payment webhook could not confirm booking", zap.Error(err))
	default:
		log.Error("payment webhook failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Webhook processing failed", "")
		return
	}
	// The outcome is final even if the client went away meanwhile.
	if h.Seen != nil && event.EventID != "" {
		if merr := h.Seen.MarkHandled(context.WithoutCancel(ctx), event.EventID); merr != nil {
			log.Warn("failed to record webhook event", zap.Error(merr))
		}
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

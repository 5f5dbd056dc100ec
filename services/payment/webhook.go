package payment

import (
	"encoding/json"
	"errors"
	"fmt"

	"quickstay/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

// ErrInvalidSignature is returned for payloads that fail Stripe signature verification.
var ErrInvalidSignature = errors.New("invalid stripe signature")

// Checkout session event types handled by ParseEvent.
const (
	eventSessionCompleted      = "checkout.session.completed"
	eventAsyncPaymentSucceeded = "checkout.session.async_payment_succeeded"
	eventAsyncPaymentFailed    = "checkout.session.async_payment_failed"
	eventSessionExpired        = "checkout.session.expired"
)

// ParseEvent verifies a webhook payload and maps it to a payment event.
// It returns nil, nil for event types that do not settle a booking.
func (g *StripeGateway) ParseEvent(payload []byte, signature string) (*models.PaymentEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	eventType := string(event.Type)
	switch eventType {
	case eventSessionCompleted, eventAsyncPaymentSucceeded, eventAsyncPaymentFailed, eventSessionExpired:
	default:
		g.logger.Debug("ignoring stripe event", zap.String("type", eventType), zap.String("eventId", event.ID))
		return nil, nil
	}

	var cs stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
		return nil, fmt.Errorf("stripe: failed to parse checkout session: %w", err)
	}

	outcome, ok := outcomeFor(eventType, cs.PaymentStatus)
	if !ok {
		g.logger.Info("checkout session not settled yet",
			zap.String("sessionId", cs.ID), zap.String("paymentStatus", string(cs.PaymentStatus)))
		return nil, nil
	}
	return &models.PaymentEvent{EventID: event.ID, SessionID: cs.ID, Outcome: outcome}, nil
}

// outcomeFor maps a checkout session event onto a payment outcome. A
// completed session paid by a delayed method is settled by a later
// async_payment_* event instead.
func outcomeFor(eventType string, status stripe.CheckoutSessionPaymentStatus) (models.PaymentOutcome, bool) {
	switch eventType {
	case eventSessionCompleted:
		if status == stripe.CheckoutSessionPaymentStatusPaid || status == stripe.CheckoutSessionPaymentStatusNoPaymentRequired {
			return models.PaymentSucceeded, true
		}
		return "", false
	case eventAsyncPaymentSucceeded:
		return models.PaymentSucceeded, true
	case eventAsyncPaymentFailed, eventSessionExpired:
		return models.PaymentFailed, true
	}
	return "", false
}

package payment

import (
	"context"
	"fmt"
	"math"
	"strings"

	"quickstay/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"go.uber.org/zap"
)

// StripeGateway creates Stripe Checkout sessions and parses Stripe webhooks.
type StripeGateway struct {
	sessions      *session.Client
	currency      string
	frontendURL   string
	webhookSecret string
	logger        *zap.Logger
}

// NewStripeGateway builds a gateway with its own API client rather than the
// package-level stripe.Key.
func NewStripeGateway(secretKey, webhookSecret, currency, frontendURL string, logger *zap.Logger) *StripeGateway {
	return &StripeGateway{
		sessions:      &session.Client{B: stripe.GetBackend(stripe.APIBackend), Key: secretKey},
		currency:      strings.ToLower(currency),
		frontendURL:   strings.TrimRight(frontendURL, "/"),
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

// CreateSession opens a one-line-item checkout session for the booking total.
func (g *StripeGateway) CreateSession(ctx context.Context, req models.PaymentRequest) (*models.PaymentSession, error) {
	params := g.sessionParams(req)
	params.Context = ctx

	s, err := g.sessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: failed to create checkout session: %w", err)
	}
	g.logger.Debug("stripe checkout session created", zap.String("sessionId", s.ID), zap.String("bookingId", req.BookingID))
	return &models.PaymentSession{ID: s.ID, URL: s.URL}, nil
}

func (g *StripeGateway) sessionParams(req models.PaymentRequest) *stripe.CheckoutSessionParams {
	currency := strings.ToLower(req.Currency)
	if currency == "" {
		currency = g.currency
	}
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(g.frontendURL + "/loader/my-bookings"),
		CancelURL:         stripe.String(g.frontendURL + "/my-bookings"),
		ClientReferenceID: stripe.String(req.BookingID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Description),
					},
					UnitAmount: stripe.Int64(minorUnits(req.Amount)),
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	if !req.ExpiresAt.IsZero() {
		params.ExpiresAt = stripe.Int64(req.ExpiresAt.Unix())
	}
	params.AddMetadata("bookingId", req.BookingID)
	params.AddMetadata("userId", req.UserID)
	return params
}

// minorUnits converts an amount to cents.
func minorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

package models

import "time"

// PaymentOutcome is the result reported by a payment webhook.
type PaymentOutcome string

const (
	PaymentSucceeded PaymentOutcome = "succeeded"
	PaymentFailed    PaymentOutcome = "failed"
)

// PaymentRequest asks the payment provider for a checkout session.
type PaymentRequest struct {
	BookingID   string
	UserID      string
	Amount      float64
	Currency    string
	Description string
	// ExpiresAt closes the checkout session. Zero leaves the provider default.
	ExpiresAt time.Time
}

// PaymentSession is the provider-owned checkout session linked to one booking.
type PaymentSession struct {
	ID  string `json:"sessionId"`
	URL string `json:"url"`
}

// PaymentEvent is a normalised provider notification.
type PaymentEvent struct {
	EventID   string
	SessionID string
	Outcome   PaymentOutcome
}

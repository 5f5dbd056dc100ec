package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quickstay/database/repository"
	"quickstay/models"

	"go.uber.org/zap"
)

// Stripe accepts checkout session lifetimes between 30 minutes and 24 hours.
const (
	minSessionLifetime = 30 * time.Minute
	maxSessionLifetime = 24 * time.Hour
)

// PaymentGateway creates provider-hosted checkout sessions.
type PaymentGateway interface {
	CreateSession(ctx context.Context, req models.PaymentRequest) (*models.PaymentSession, error)
}

// InitiatePayment opens a checkout session for a pending booking owned by
// actorID and links the session to the booking. A new session replaces any
// earlier one.
func (s *DefaultBookingService) InitiatePayment(ctx context.Context, bookingID, actorID string) (*models.PaymentSession, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, notFound(err, "booking", bookingID)
	}
	if b.UserID != actorID {
		return nil, ErrForbidden
	}
	if !isPending(b) {
		return nil, fmt.Errorf("%w: booking %s is %s", ErrInvalidState, b.ID, b.Status)
	}

	startedAt := s.now()
	req := models.PaymentRequest{
		BookingID:   b.ID,
		UserID:      b.UserID,
		Amount:      b.TotalPrice,
		Currency:    s.Currency,
		Description: s.describe(ctx, b),
		ExpiresAt:   startedAt.Add(s.sessionLifetime()),
	}
	session, err := s.Payments.CreateSession(ctx, req)
	if err != nil {
		s.logger().Error("payment session creation failed", zap.String("bookingId", b.ID), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrPaymentCollaborator, err)
	}

	if err := s.Bookings.SetPaymentSession(ctx, b.ID, session.ID, startedAt); err != nil {
		switch {
		case errors.Is(err, repository.ErrStatusConflict):
			return nil, fmt.Errorf("%w: booking %s changed status", ErrInvalidState, b.ID)
		case errors.Is(err, repository.ErrNotFound):
			return nil, notFound(err, "booking", b.ID)
		}
		return nil, fmt.Errorf("failed to record payment session: %w", err)
	}

	s.logger().Info("payment session created", zap.String("bookingId", b.ID), zap.String("sessionId", session.ID))
	return session, nil
}

func (s *DefaultBookingService) sessionLifetime() time.Duration {
	switch {
	case s.SessionLifetime < minSessionLifetime:
		return minSessionLifetime
	case s.SessionLifetime > maxSessionLifetime:
		return maxSessionLifetime
	}
	return s.SessionLifetime
}

func (s *DefaultBookingService) describe(ctx context.Context, b *models.Booking) string {
	nights := b.Nights()
	room, err := s.Rooms.GetByID(ctx, b.RoomID)
	if err != nil || room.RoomType == "" {
		return fmt.Sprintf("Hotel booking, %d night(s)", nights)
	}
	return fmt.Sprintf("%s, %d night(s)", room.RoomType, nights)
}

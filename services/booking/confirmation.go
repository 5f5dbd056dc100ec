package booking

import (
	"context"
	"errors"
	"fmt"

	"quickstay/database/repository"
	bookingRepo "quickstay/database/repository/booking"
	"quickstay/models"

	"go.uber.org/zap"
)

// ConfirmFromWebhook applies a payment outcome to the booking linked to
// sessionID. Replaying an outcome that was already applied returns the
// booking unchanged and no error.
func (s *DefaultBookingService) ConfirmFromWebhook(ctx context.Context, sessionID string, outcome models.PaymentOutcome) (*models.Booking, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: empty payment session id", ErrNotFound)
	}
	b, err := s.Bookings.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, notFound(err, "payment session", sessionID)
	}

	switch outcome {
	case models.PaymentSucceeded:
		return s.confirm(ctx, b)
	case models.PaymentFailed:
		return s.failPayment(ctx, b)
	default:
		return nil, fmt.Errorf("unknown payment outcome %q", outcome)
	}
}

func (s *DefaultBookingService) confirm(ctx context.Context, b *models.Booking) (*models.Booking, error) {
	switch b.Status {
	case models.BookingConfirmed:
		return b, nil
	case models.BookingCancelled:
		s.logger().Warn("payment succeeded for cancelled booking",
			zap.String("bookingId", b.ID), zap.String("reason", b.CancelReason))
		return b, fmt.Errorf("%w: booking %s is cancelled", ErrInvalidState, b.ID)
	}

	// Another booking may have been confirmed since this one was requested.
	available, err := s.checker().IsAvailableExcluding(ctx, b.RoomID, b.CheckIn, b.CheckOut, b.ID)
	if err != nil {
		return nil, err
	}
	if !available {
		return s.rejectUnavailable(ctx, b)
	}

	// The unique room-night claims serialize concurrent confirmations.
	if err := s.Bookings.ClaimNights(ctx, b.RoomID, b.ID, models.NightKeys(b.CheckIn, b.CheckOut)); err != nil {
		s.release(ctx, b.ID)
		if errors.Is(err, repository.ErrNightTaken) {
			return s.rejectUnavailable(ctx, b)
		}
		return nil, fmt.Errorf("failed to claim room nights: %w", err)
	}

	paid := true
	confirmed, err := s.Bookings.TransitionStatus(ctx, b.ID, models.BookingPending, models.BookingConfirmed, bookingRepo.StatusPatch{IsPaid: &paid})
	if err != nil {
		if !errors.Is(err, repository.ErrStatusConflict) {
			// Outcome unknown; keep the claims and let a webhook retry settle it.
			return nil, fmt.Errorf("failed to confirm booking %s: %w", b.ID, err)
		}
		current, gerr := s.Bookings.GetByID(ctx, b.ID)
		if gerr != nil {
			return nil, notFound(gerr, "booking", b.ID)
		}
		if current.Status == models.BookingConfirmed {
			return current, nil
		}
		s.release(ctx, b.ID)
		return current, fmt.Errorf("%w: booking %s is %s", ErrInvalidState, b.ID, current.Status)
	}

	s.logger().Info("booking confirmed", zap.String("bookingId", confirmed.ID), zap.String("roomId", confirmed.RoomID))
	s.publish(ctx, models.EventBookingConfirmed, confirmed)
	return confirmed, nil
}

// rejectUnavailable cancels a paid-for booking whose room was taken meanwhile.
func (s *DefaultBookingService) rejectUnavailable(ctx context.Context, b *models.Booking) (*models.Booking, error) {
	s.logger().Warn("room taken before payment confirmation",
		zap.String("bookingId", b.ID), zap.String("roomId", b.RoomID))

	cancelled, err := s.Bookings.TransitionStatus(ctx, b.ID, models.BookingPending, models.BookingCancelled,
		bookingRepo.StatusPatch{CancelReason: models.CancelReasonUnavailable})
	if err == nil {
		s.publish(ctx, models.EventBookingCancelled, cancelled)
		return cancelled, ErrRoomUnavailable
	}
	if !errors.Is(err, repository.ErrStatusConflict) {
		return nil, fmt.Errorf("failed to cancel booking %s: %w", b.ID, err)
	}
	return b, ErrRoomUnavailable
}

func (s *DefaultBookingService) failPayment(ctx context.Context, b *models.Booking) (*models.Booking, error) {
	switch b.Status {
	case models.BookingCancelled:
		return b, nil
	case models.BookingConfirmed:
		return b, fmt.Errorf("%w: booking %s is already confirmed", ErrInvalidState, b.ID)
	}

	cancelled, err := s.Bookings.TransitionStatus(ctx, b.ID, models.BookingPending, models.BookingCancelled,
		bookingRepo.StatusPatch{CancelReason: models.CancelReasonPayment})
	if err != nil {
		if !errors.Is(err, repository.ErrStatusConflict) {
			return nil, fmt.Errorf("failed to cancel booking %s: %w", b.ID, err)
		}
		current, gerr := s.Bookings.GetByID(ctx, b.ID)
		if gerr != nil {
			return nil, notFound(gerr, "booking", b.ID)
		}
		if current.Status == models.BookingCancelled {
			return current, nil
		}
		return current, fmt.Errorf("%w: booking %s is %s", ErrInvalidState, b.ID, current.Status)
	}

	s.release(ctx, b.ID)
	s.logger().Info("booking cancelled after failed payment", zap.String("bookingId", b.ID))
	s.publish(ctx, models.EventBookingCancelled, cancelled)
	return cancelled, nil
}

package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quickstay/database/repository"
	bookingRepo "quickstay/database/repository/booking"
	"quickstay/models"

	"go.uber.org/zap"
)

// Cancel cancels a pending booking on behalf of its guest or the owner of
// the booked hotel.
func (s *DefaultBookingService) Cancel(ctx context.Context, bookingID, actorID string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, notFound(err, "booking", bookingID)
	}
	if err := s.authorizeActor(ctx, b, actorID); err != nil {
		return nil, err
	}
	if !isPending(b) {
		return nil, fmt.Errorf("%w: booking %s is %s", ErrInvalidState, b.ID, b.Status)
	}

	cancelled, err := s.Bookings.TransitionStatus(ctx, b.ID, models.BookingPending, models.BookingCancelled,
		bookingRepo.StatusPatch{CancelReason: models.CancelReasonUser})
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, fmt.Errorf("%w: booking %s changed status", ErrInvalidState, b.ID)
		}
		return nil, fmt.Errorf("failed to cancel booking %s: %w", b.ID, err)
	}

	s.release(ctx, b.ID)
	s.logger().Info("booking cancelled", zap.String("bookingId", b.ID), zap.String("actor", actorID))
	s.publish(ctx, models.EventBookingCancelled, cancelled)
	return cancelled, nil
}

// authorizeActor allows the booking's guest and the owner of its hotel.
func (s *DefaultBookingService) authorizeActor(ctx context.Context, b *models.Booking, actorID string) error {
	if actorID == "" {
		return ErrForbidden
	}
	if b.UserID == actorID {
		return nil
	}
	hotel, err := s.Hotels.GetByID(ctx, b.HotelID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrForbidden
		}
		return fmt.Errorf("failed to load hotel %s: %w", b.HotelID, err)
	}
	if hotel.OwnerID != actorID {
		return ErrForbidden
	}
	return nil
}

// sessionGrace leaves time for the webhook of a payment made just before the
// checkout session closed.
const sessionGrace = 5 * time.Minute

// ExpireStale cancels pending bookings created more than olderThan ago and
// returns how many it cancelled. A booking with a checkout session is kept
// until that session has closed. Bookings that move on concurrently are skipped.
func (s *DefaultBookingService) ExpireStale(ctx context.Context, olderThan time.Duration) (int, error) {
	now := s.now()
	cutoff := now.Add(-olderThan)
	sessionCutoff := now.Add(-max(olderThan, s.sessionLifetime()) - sessionGrace)
	stale, err := s.Bookings.ListPendingBefore(ctx, cutoff, sessionCutoff)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range stale {
		b := &stale[i]
		cancelled, err := s.Bookings.TransitionStatus(ctx, b.ID, models.BookingPending, models.BookingCancelled,
			bookingRepo.StatusPatch{CancelReason: models.CancelReasonTimeout})
		if err != nil {
			if errors.Is(err, repository.ErrStatusConflict) || errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return expired, fmt.Errorf("failed to expire booking %s: %w", b.ID, err)
		}
		s.release(ctx, b.ID)
		s.publish(ctx, models.EventBookingCancelled, cancelled)
		expired++
	}

	if expired > 0 {
		s.logger().Info("expired stale pending bookings", zap.Int("count", expired), zap.Time("cutoff", cutoff))
	}
	return expired, nil
}

// release drops any room-night claims held by a booking that will not be confirmed.
func (s *DefaultBookingService) release(ctx context.Context, bookingID string) {
	if err := s.Bookings.ReleaseNights(ctx, bookingID); err != nil {
		s.logger().Error("failed to release room nights", zap.String("bookingId", bookingID), zap.Error(err))
	}
}

func (s *DefaultBookingService) publish(ctx context.Context, eventType string, b *models.Booking) {
	if s.Events == nil {
		return
	}
	event := models.BookingEvent{
		Type:       eventType,
		BookingID:  b.ID,
		UserID:     b.UserID,
		RoomID:     b.RoomID,
		HotelID:    b.HotelID,
		Status:     b.Status,
		Reason:     b.CancelReason,
		OccurredAt: s.now(),
	}
	if err := s.Events.Publish(ctx, event); err != nil {
		s.logger().Warn("failed to publish booking event", zap.String("type", eventType), zap.String("bookingId", b.ID), zap.Error(err))
	}
}

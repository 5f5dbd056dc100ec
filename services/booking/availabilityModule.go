package booking

import (
	"context"
	"fmt"
	"time"

	bookingRepo "quickstay/database/repository/booking"
	"quickstay/models"
)

// AvailabilityChecker answers whether a room is free over a date range.
// Only confirmed bookings block a room; ranges are half-open, so a check-out
// on day D never conflicts with a check-in on day D.
type AvailabilityChecker struct {
	Bookings bookingRepo.BookingRepository
}

func (a *AvailabilityChecker) IsAvailable(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error) {
	return a.IsAvailableExcluding(ctx, roomID, checkIn, checkOut, "")
}

// IsAvailableExcluding ignores bookingID when looking for conflicts.
func (a *AvailabilityChecker) IsAvailableExcluding(ctx context.Context, roomID string, checkIn, checkOut time.Time, bookingID string) (bool, error) {
	from, to, err := normalizeRange(checkIn, checkOut)
	if err != nil {
		return false, err
	}
	overlapping, err := a.Bookings.FindOverlapping(ctx, roomID, from, to, models.BookingConfirmed, bookingID)
	if err != nil {
		return false, fmt.Errorf("availability check failed: %w", err)
	}
	return len(overlapping) == 0, nil
}

// normalizeRange truncates both ends to UTC dates and validates ordering.
func normalizeRange(checkIn, checkOut time.Time) (time.Time, time.Time, error) {
	if checkIn.IsZero() || checkOut.IsZero() {
		return time.Time{}, time.Time{}, ErrInvalidRange
	}
	from := models.TruncateDay(checkIn)
	to := models.TruncateDay(checkOut)
	if !from.Before(to) {
		return time.Time{}, time.Time{}, ErrInvalidRange
	}
	return from, to, nil
}

// CheckAvailability is the read-only availability query exposed to clients.
func (s *DefaultBookingService) CheckAvailability(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error) {
	return s.checker().IsAvailable(ctx, roomID, checkIn, checkOut)
}

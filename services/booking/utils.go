package booking

import (
	"errors"
	"fmt"

	"quickstay/database/repository"
	"quickstay/models"
)

func validateRequest(req BookingRequest) error {
	if req.UserID == "" {
		return fmt.Errorf("%w: userId is required", ErrForbidden)
	}
	if req.RoomID == "" {
		return fmt.Errorf("%w: roomId is required", ErrNotFound)
	}
	if req.Guests <= 0 {
		return ErrInvalidGuests
	}
	return nil
}

// notFound maps repository misses onto the workflow error.
func notFound(err error, what, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s %s", ErrNotFound, what, id)
	}
	return fmt.Errorf("failed to load %s %s: %w", what, id, err)
}

func isPending(b *models.Booking) bool {
	return b.Status == models.BookingPending
}

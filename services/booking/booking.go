package booking

import (
	"context"
	"fmt"

	"quickstay/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestBooking validates the request against the room, checks availability
// and stores a pending booking priced at nights × rate.
func (s *DefaultBookingService) RequestBooking(ctx context.Context, req BookingRequest) (*models.Booking, error) {
	checkIn, checkOut, err := normalizeRange(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	room, err := s.Rooms.GetByID(ctx, req.RoomID)
	if err != nil {
		return nil, notFound(err, "room", req.RoomID)
	}
	if !room.IsAvailable {
		return nil, fmt.Errorf("%w: room %s is disabled", ErrRoomUnavailable, room.ID)
	}
	if req.Guests > room.MaxGuests() {
		return nil, fmt.Errorf("%w: %d guests, capacity %d", ErrInvalidGuests, req.Guests, room.MaxGuests())
	}

	available, err := s.checker().IsAvailable(ctx, room.ID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, ErrRoomUnavailable
	}

	now := s.now()
	nights := models.NightsBetween(checkIn, checkOut)
	booking := &models.Booking{
		ID:         uuid.New().String(),
		UserID:     req.UserID,
		RoomID:     room.ID,
		HotelID:    room.HotelID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     req.Guests,
		TotalPrice: TotalPrice(room.PricePerNight, nights),
		Status:     models.BookingPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Bookings.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.logger().Info("booking requested",
		zap.String("bookingId", booking.ID),
		zap.String("roomId", booking.RoomID),
		zap.Int("nights", nights),
		zap.Float64("total", booking.TotalPrice),
	)
	s.publish(ctx, models.EventBookingRequested, booking)
	return booking, nil
}

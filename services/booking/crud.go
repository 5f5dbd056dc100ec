package booking

import (
	"context"
	"fmt"

	"quickstay/models"
)

// GetBooking returns a booking visible to its guest or the owner of its hotel.
func (s *DefaultBookingService) GetBooking(ctx context.Context, bookingID, actorID string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, notFound(err, "booking", bookingID)
	}
	if err := s.authorizeActor(ctx, b, actorID); err != nil {
		return nil, err
	}
	return b, nil
}

// ListUserBookings returns the caller's bookings with room and hotel details, newest first.
func (s *DefaultBookingService) ListUserBookings(ctx context.Context, userID string) ([]models.BookingWithDetails, error) {
	bookings, err := s.Bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// HotelDashboard lists the bookings of the hotel owned by ownerID. Revenue
// counts confirmed bookings only.
func (s *DefaultBookingService) HotelDashboard(ctx context.Context, ownerID string) (*models.HotelDashboard, error) {
	hotel, err := s.Hotels.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, notFound(err, "hotel for owner", ownerID)
	}
	bookings, err := s.Bookings.ListByHotel(ctx, hotel.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list hotel bookings: %w", err)
	}

	dash := &models.HotelDashboard{Bookings: bookings, TotalBookings: len(bookings)}
	for _, b := range bookings {
		if b.Status == models.BookingConfirmed {
			dash.TotalRevenue += b.TotalPrice
		}
	}
	return dash, nil
}

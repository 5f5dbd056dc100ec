package booking

import (
	"context"
	"time"

	bookingRepo "quickstay/database/repository/booking"
	hotelRepo "quickstay/database/repository/hotel"
	roomRepo "quickstay/database/repository/room"
	"quickstay/models"

	"go.uber.org/zap"
)

// BookingService is the booking workflow consumed by the HTTP handlers,
// the payment webhook and the pending-booking sweeper.
type BookingService interface {
	CheckAvailability(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error)
	RequestBooking(ctx context.Context, req BookingRequest) (*models.Booking, error)
	InitiatePayment(ctx context.Context, bookingID, actorID string) (*models.PaymentSession, error)
	ConfirmFromWebhook(ctx context.Context, sessionID string, outcome models.PaymentOutcome) (*models.Booking, error)
	Cancel(ctx context.Context, bookingID, actorID string) (*models.Booking, error)
	ExpireStale(ctx context.Context, olderThan time.Duration) (int, error)
	GetBooking(ctx context.Context, bookingID, actorID string) (*models.Booking, error)
	ListUserBookings(ctx context.Context, userID string) ([]models.BookingWithDetails, error)
	HotelDashboard(ctx context.Context, ownerID string) (*models.HotelDashboard, error)
}

// BookingRequest is the input of RequestBooking.
type BookingRequest struct {
	UserID   string
	RoomID   string
	CheckIn  time.Time
	CheckOut time.Time
	Guests   int
}

// EventPublisher receives booking lifecycle events. Delivery is best effort.
type EventPublisher interface {
	Publish(ctx context.Context, event models.BookingEvent) error
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Bookings bookingRepo.BookingRepository
	Rooms    roomRepo.RoomRepository
	Hotels   hotelRepo.HotelRepository
	Payments PaymentGateway
	Events   EventPublisher
	Logger   *zap.Logger
	Currency string
	// SessionLifetime is how long a checkout session stays payable; see
	// sessionLifetime for the accepted range.
	SessionLifetime time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *DefaultBookingService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *DefaultBookingService) checker() *AvailabilityChecker {
	return &AvailabilityChecker{Bookings: s.Bookings}
}

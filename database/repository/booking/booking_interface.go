package bookingRepo

import (
	"context"
	"time"

	"quickstay/models"
)

// StatusPatch carries the fields written together with a status transition.
type StatusPatch struct {
	IsPaid       *bool
	CancelReason string
}

// BookingRepository defines the data access used by the booking workflow.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	GetBySessionID(ctx context.Context, sessionID string) (*models.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]models.BookingWithDetails, error)
	ListByHotel(ctx context.Context, hotelID string) ([]models.BookingWithDetails, error)
	// FindOverlapping returns bookings on roomID with the given status whose
	// [checkIn, checkOut) intersects [from, to). excludeID may be empty.
	FindOverlapping(ctx context.Context, roomID string, from, to time.Time, status models.BookingStatus, excludeID string) ([]models.Booking, error)
	// SetPaymentSession records the session id and its start time while the
	// booking is pending.
	SetPaymentSession(ctx context.Context, id, sessionID string, startedAt time.Time) error
	// TransitionStatus moves a booking from one status to another atomically.
	// It returns repository.ErrStatusConflict if the stored status is not from.
	TransitionStatus(ctx context.Context, id string, from, to models.BookingStatus, patch StatusPatch) (*models.Booking, error)
	// ClaimNights reserves every night for bookingID. Claims already held by
	// bookingID are kept; a night held by another booking yields repository.ErrNightTaken.
	ClaimNights(ctx context.Context, roomID, bookingID string, nights []string) error
	ReleaseNights(ctx context.Context, bookingID string) error
	// ListPendingBefore returns pending bookings created before createdBefore
	// whose payment, if any, started before paymentStartedBefore.
	ListPendingBefore(ctx context.Context, createdBefore, paymentStartedBefore time.Time) ([]models.Booking, error)
}

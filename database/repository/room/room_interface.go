package roomRepo

import (
	"context"

	"quickstay/models"
)

// RoomRepository defines methods for room data access.
type RoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	GetByID(ctx context.Context, id string) (*models.Room, error)
	// ListAvailable returns enabled rooms joined with their hotel, newest first.
	ListAvailable(ctx context.Context) ([]models.RoomWithHotel, error)
	ListByHotel(ctx context.Context, hotelID string) ([]models.Room, error)
	Update(ctx context.Context, room *models.Room) error
	// SetAvailability is the soft enable/disable switch; rooms are never deleted.
	SetAvailability(ctx context.Context, id string, available bool) (*models.Room, error)
}

package hotelRepo

import (
	"context"

	"quickstay/models"
)

// HotelRepository defines methods for hotel data access.
type HotelRepository interface {
	// Create returns repository.ErrDuplicate when the owner already has a hotel.
	Create(ctx context.Context, hotel *models.Hotel) error
	GetByID(ctx context.Context, id string) (*models.Hotel, error)
	// GetByOwner returns the hotel registered by ownerID, or repository.ErrNotFound.
	GetByOwner(ctx context.Context, ownerID string) (*models.Hotel, error)
}

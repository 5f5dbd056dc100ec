package userRepo

import (
	"context"

	"quickstay/models"
)

// UserRepository defines methods for user data access.
type UserRepository interface {
	// Upsert creates or refreshes the profile mirrored from the identity provider.
	// Role and recent searches are only initialised on insert.
	Upsert(ctx context.Context, user *models.User) error
	// GetByID retrieves a user by their identity provider ID.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// Delete removes a user record by its ID.
	Delete(ctx context.Context, id string) error
	SetRole(ctx context.Context, id, role string) error
	// PushRecentCity records city as the most recent search, keeping at most
	// models.MaxRecentCities distinct entries.
	PushRecentCity(ctx context.Context, id, city string) error
}

package user

import (
	"context"

	userRepo "quickstay/database/repository/user"
	"quickstay/models"

	"go.uber.org/zap"
)

type UserService interface {
	// Identity provider sync
	SyncClerkEvent(ctx context.Context, event ClerkEvent) error

	// Profile
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	StoreRecentSearch(ctx context.Context, userID, city string) error
	PromoteToHotelOwner(ctx context.Context, userID string) error
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo   userRepo.UserRepository
	Logger *zap.Logger
}

func (s *DefaultUserService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

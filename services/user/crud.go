package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"quickstay/database/repository"
	"quickstay/models"
)

// GetUserByID returns the local profile of a user.
func (s *DefaultUserService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	usr, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
		}
		return nil, err
	}
	return usr, nil
}

// StoreRecentSearch records city as the user's most recent search.
func (s *DefaultUserService) StoreRecentSearch(ctx context.Context, userID, city string) error {
	city = strings.TrimSpace(city)
	if city == "" {
		return fmt.Errorf("%w: city is required", ErrInvalidInput)
	}
	if err := s.Repo.PushRecentCity(ctx, userID, city); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrUserNotFound, userID)
		}
		return fmt.Errorf("failed to store recent search: %w", err)
	}
	return nil
}

// PromoteToHotelOwner grants the hotelOwner role.
func (s *DefaultUserService) PromoteToHotelOwner(ctx context.Context, userID string) error {
	if err := s.Repo.SetRole(ctx, userID, models.RoleHotelOwner); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrUserNotFound, userID)
		}
		return fmt.Errorf("failed to update role: %w", err)
	}
	return nil
}

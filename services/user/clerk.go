package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"quickstay/database/repository"
	"quickstay/models"

	"go.uber.org/zap"
)

// Clerk user webhook event types.
const (
	ClerkUserCreated = "user.created"
	ClerkUserUpdated = "user.updated"
	ClerkUserDeleted = "user.deleted"
)

// ClerkEvent is the envelope of a Clerk webhook delivery.
type ClerkEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// clerkUser is the subset of the Clerk user object mirrored locally.
type clerkUser struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Username       string `json:"username"`
	ImageURL       string `json:"image_url"`
	PrimaryEmailID string `json:"primary_email_address_id"`
	EmailAddresses []struct {
		ID           string `json:"id"`
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
}

func (u clerkUser) email() string {
	for _, e := range u.EmailAddresses {
		if e.ID == u.PrimaryEmailID {
			return e.EmailAddress
		}
	}
	if len(u.EmailAddresses) > 0 {
		return u.EmailAddresses[0].EmailAddress
	}
	return ""
}

func (u clerkUser) displayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// SyncClerkEvent mirrors a Clerk user lifecycle event into the users collection.
// Other event types return ErrUnsupportedEvent.
func (s *DefaultUserService) SyncClerkEvent(ctx context.Context, event ClerkEvent) error {
	var data clerkUser
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return fmt.Errorf("%w: malformed user payload: %v", ErrInvalidInput, err)
	}
	if data.ID == "" {
		return fmt.Errorf("%w: user id missing", ErrInvalidInput)
	}

	switch event.Type {
	case ClerkUserCreated, ClerkUserUpdated:
		usr := &models.User{
			ID:       data.ID,
			Username: data.displayName(),
			Email:    data.email(),
			Image:    data.ImageURL,
		}
		if err := s.Repo.Upsert(ctx, usr); err != nil {
			return fmt.Errorf("failed to upsert user %s: %w", data.ID, err)
		}
		s.logger().Info("user synced", zap.String("userId", data.ID), zap.String("event", event.Type))
	case ClerkUserDeleted:
		if err := s.Repo.Delete(ctx, data.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("failed to delete user %s: %w", data.ID, err)
		}
		s.logger().Info("user deleted", zap.String("userId", data.ID))
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedEvent, event.Type)
	}
	return nil
}

package hotel

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"quickstay/database/repository"
	hotelRepo "quickstay/database/repository/hotel"
	"quickstay/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrAlreadyRegistered = errors.New("hotel already registered")
	ErrInvalidInput      = errors.New("invalid hotel input")
	ErrNotFound          = errors.New("hotel not found")
)

// RolePromoter grants the hotel owner role once a hotel is registered.
type RolePromoter interface {
	PromoteToHotelOwner(ctx context.Context, userID string) error
}

type HotelService interface {
	Register(ctx context.Context, ownerID string, input HotelInput) (*models.Hotel, error)
	GetByOwner(ctx context.Context, ownerID string) (*models.Hotel, error)
}

// HotelInput is the registration form.
type HotelInput struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address" binding:"required"`
	Contact string `json:"contact" binding:"required"`
	City    string `json:"city" binding:"required"`
}

type DefaultHotelService struct {
	Hotels hotelRepo.HotelRepository
	Users  RolePromoter
	Logger *zap.Logger
}

// Register promotes the caller to hotelOwner and creates their hotel. An
// owner may register one hotel. Promotion runs first and is idempotent, so
// a failed attempt can simply be retried.
func (s *DefaultHotelService) Register(ctx context.Context, ownerID string, input HotelInput) (*models.Hotel, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	if err := s.Users.PromoteToHotelOwner(ctx, ownerID); err != nil {
		return nil, err
	}

	existing, err := s.Hotels.GetByOwner(ctx, ownerID)
	if err == nil && existing != nil {
		return nil, ErrAlreadyRegistered
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up hotel: %w", err)
	}

	now := time.Now().UTC()
	h := &models.Hotel{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(input.Name),
		Address:   strings.TrimSpace(input.Address),
		Contact:   strings.TrimSpace(input.Contact),
		City:      strings.TrimSpace(input.City),
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Hotels.Create(ctx, h); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("failed to create hotel: %w", err)
	}

	if s.Logger != nil {
		s.Logger.Info("hotel registered", zap.String("hotelId", h.ID), zap.String("ownerId", ownerID))
	}
	return h, nil
}

// GetByOwner returns the hotel registered by ownerID.
func (s *DefaultHotelService) GetByOwner(ctx context.Context, ownerID string) (*models.Hotel, error) {
	h, err := s.Hotels.GetByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return h, nil
}

func (in HotelInput) validate() error {
	for field, v := range map[string]string{"name": in.Name, "address": in.Address, "contact": in.Contact, "city": in.City} {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
		}
	}
	return nil
}

package room

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"quickstay/database/repository"
	hotelRepo "quickstay/database/repository/hotel"
	roomRepo "quickstay/database/repository/room"
	"quickstay/models"
	"quickstay/services/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidInput = errors.New("invalid room input")
	ErrNoHotel      = errors.New("no hotel registered for owner")
	ErrNotFound     = errors.New("room not found")
	ErrForbidden    = errors.New("room belongs to another hotel")
)

// MaxImages bounds the number of images accepted per room.
const MaxImages = 4

type RoomService interface {
	CreateRoom(ctx context.Context, ownerID string, input RoomInput, images []Image) (*models.Room, error)
	ListAvailable(ctx context.Context) ([]models.RoomWithHotel, error)
	ListOwnerRooms(ctx context.Context, ownerID string) ([]models.Room, error)
	ToggleAvailability(ctx context.Context, ownerID, roomID string) (*models.Room, error)
}

// RoomInput carries the non-file fields of the room form.
type RoomInput struct {
	RoomType      string
	PricePerNight float64
	Capacity      int
	Amenities     []string
}

// Image is one uploaded file.
type Image struct {
	Filename string
	Open     func() (io.ReadCloser, error)
}

type DefaultRoomService struct {
	Rooms   roomRepo.RoomRepository
	Hotels  hotelRepo.HotelRepository
	Storage storage.StorageService
	Logger  *zap.Logger
}

// CreateRoom uploads the images concurrently and stores the room under the
// owner's hotel.
func (s *DefaultRoomService) CreateRoom(ctx context.Context, ownerID string, input RoomInput, images []Image) (*models.Room, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	if len(images) > MaxImages {
		return nil, fmt.Errorf("%w: at most %d images", ErrInvalidInput, MaxImages)
	}
	h, err := s.ownerHotel(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	urls, err := s.upload(ctx, images)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	r := &models.Room{
		ID:            uuid.New().String(),
		HotelID:       h.ID,
		RoomType:      strings.TrimSpace(input.RoomType),
		PricePerNight: input.PricePerNight,
		Capacity:      input.Capacity,
		Amenities:     dedupe(input.Amenities),
		Images:        urls,
		IsAvailable:   true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if r.Capacity <= 0 {
		r.Capacity = models.DefaultRoomCapacity
	}
	if err := s.Rooms.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}
	if s.Logger != nil {
		s.Logger.Info("room created", zap.String("roomId", r.ID), zap.String("hotelId", h.ID), zap.Int("images", len(urls)))
	}
	return r, nil
}

func (s *DefaultRoomService) upload(ctx context.Context, images []Image) ([]string, error) {
	urls := make([]string, len(images))
	g, gctx := errgroup.WithContext(ctx)
	for i, img := range images {
		g.Go(func() error {
			f, err := img.Open()
			if err != nil {
				return fmt.Errorf("failed to read image %s: %w", img.Filename, err)
			}
			defer f.Close()

			url, err := s.Storage.UploadImage(gctx, f, img.Filename)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}

// ListAvailable returns the enabled rooms with their hotels.
func (s *DefaultRoomService) ListAvailable(ctx context.Context) ([]models.RoomWithHotel, error) {
	return s.Rooms.ListAvailable(ctx)
}

// ListOwnerRooms returns every room of the owner's hotel, enabled or not.
func (s *DefaultRoomService) ListOwnerRooms(ctx context.Context, ownerID string) ([]models.Room, error) {
	h, err := s.ownerHotel(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.Rooms.ListByHotel(ctx, h.ID)
}

// ToggleAvailability flips the soft enable flag of a room owned by ownerID.
func (s *DefaultRoomService) ToggleAvailability(ctx context.Context, ownerID, roomID string) (*models.Room, error) {
	h, err := s.ownerHotel(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	r, err := s.Rooms.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if r.HotelID != h.ID {
		return nil, ErrForbidden
	}
	return s.Rooms.SetAvailability(ctx, r.ID, !r.IsAvailable)
}

func (s *DefaultRoomService) ownerHotel(ctx context.Context, ownerID string) (*models.Hotel, error) {
	h, err := s.Hotels.GetByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoHotel
		}
		return nil, fmt.Errorf("failed to load hotel: %w", err)
	}
	return h, nil
}

func (in RoomInput) validate() error {
	if strings.TrimSpace(in.RoomType) == "" {
		return fmt.Errorf("%w: roomType is required", ErrInvalidInput)
	}
	if in.PricePerNight <= 0 {
		return fmt.Errorf("%w: pricePerNight must be positive", ErrInvalidInput)
	}
	if in.Capacity < 0 {
		return fmt.Errorf("%w: capacity must not be negative", ErrInvalidInput)
	}
	return nil
}

func dedupe(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

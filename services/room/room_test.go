package room

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"quickstay/database/repository"
	"quickstay/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeRooms struct {
	mu    sync.Mutex
	rooms map[string]models.Room
}

func (f *fakeRooms) Create(_ context.Context, r *models.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rooms[r.ID] = *r
	return nil
}

func (f *fakeRooms) GetByID(_ context.Context, id string) (*models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rooms[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (f *fakeRooms) ListAvailable(context.Context) ([]models.RoomWithHotel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.RoomWithHotel
	for _, r := range f.rooms {
		if r.IsAvailable {
			out = append(out, models.RoomWithHotel{Room: r})
		}
	}
	return out, nil
}

func (f *fakeRooms) ListByHotel(_ context.Context, hotelID string) ([]models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Room
	for _, r := range f.rooms {
		if r.HotelID == hotelID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRooms) Update(_ context.Context, r *models.Room) error {
	return f.Create(context.Background(), r)
}

func (f *fakeRooms) SetAvailability(_ context.Context, id string, available bool) (*models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rooms[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	r.IsAvailable = available
	f.rooms[id] = r
	return &r, nil
}

type fakeHotels map[string]models.Hotel

func (f fakeHotels) Create(context.Context, *models.Hotel) error { return nil }

func (f fakeHotels) GetByID(_ context.Context, id string) (*models.Hotel, error) {
	for _, h := range f {
		if h.ID == id {
			return &h, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f fakeHotels) GetByOwner(_ context.Context, ownerID string) (*models.Hotel, error) {
	if h, ok := f[ownerID]; ok {
		return &h, nil
	}
	return nil, repository.ErrNotFound
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) UploadImage(ctx context.Context, file io.Reader, filename string) (string, error) {
	args := m.Called(ctx, file, filename)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) DeleteImage(ctx context.Context, publicID string) error {
	return m.Called(ctx, publicID).Error(0)
}

func image(name string) Image {
	return Image{Filename: name, Open: func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader("jpeg-bytes")), nil
	}}
}

func setup() (*DefaultRoomService, *fakeRooms, *MockStorage) {
	rooms := &fakeRooms{rooms: map[string]models.Room{}}
	store := new(MockStorage)
	svc := &DefaultRoomService{
		Rooms:   rooms,
		Hotels:  fakeHotels{"owner-1": {ID: "hotel-1", OwnerID: "owner-1"}, "owner-2": {ID: "hotel-2", OwnerID: "owner-2"}},
		Storage: store,
	}
	return svc, rooms, store
}

func TestCreateRoom(t *testing.T) {
	svc, rooms, store := setup()
	ctx := context.Background()

	store.On("UploadImage", mock.Anything, mock.Anything, "a.jpg").Return("https://cdn/a.jpg", nil).Once()
	store.On("UploadImage", mock.Anything, mock.Anything, "b.jpg").Return("https://cdn/b.jpg", nil).Once()

	r, err := svc.CreateRoom(ctx, "owner-1", RoomInput{
		RoomType:      "Luxury Room",
		PricePerNight: 299,
		Amenities:     []string{"Free WiFi", "Pool Access", "Free WiFi", " "},
	}, []Image{image("a.jpg"), image("b.jpg")})
	require.NoError(t, err)

	assert.Equal(t, "hotel-1", r.HotelID)
	assert.Equal(t, []string{"https://cdn/a.jpg", "https://cdn/b.jpg"}, r.Images)
	assert.Equal(t, []string{"Free WiFi", "Pool Access"}, r.Amenities)
	assert.Equal(t, models.DefaultRoomCapacity, r.Capacity)
	assert.True(t, r.IsAvailable)
	assert.Contains(t, rooms.rooms, r.ID)
	store.AssertExpectations(t)
}

func TestCreateRoom_Errors(t *testing.T) {
	svc, rooms, store := setup()
	ctx := context.Background()
	valid := RoomInput{RoomType: "Single Bed", PricePerNight: 80}

	_, err := svc.CreateRoom(ctx, "owner-1", RoomInput{RoomType: "Single Bed"}, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateRoom(ctx, "guest", valid, nil)
	assert.ErrorIs(t, err, ErrNoHotel)

	_, err = svc.CreateRoom(ctx, "owner-1", valid, []Image{image("1"), image("2"), image("3"), image("4"), image("5")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	boom := errors.New("cloudinary down")
	store.On("UploadImage", mock.Anything, mock.Anything, "x.jpg").Return("", boom)
	_, err = svc.CreateRoom(ctx, "owner-1", valid, []Image{image("x.jpg")})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, rooms.rooms)
}

func TestToggleAvailability(t *testing.T) {
	svc, rooms, _ := setup()
	ctx := context.Background()
	rooms.rooms["r1"] = models.Room{ID: "r1", HotelID: "hotel-1", IsAvailable: true}

	r, err := svc.ToggleAvailability(ctx, "owner-1", "r1")
	require.NoError(t, err)
	assert.False(t, r.IsAvailable)

	listed, err := svc.ListAvailable(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)

	owned, err := svc.ListOwnerRooms(ctx, "owner-1")
	require.NoError(t, err)
	assert.Len(t, owned, 1)

	r, err = svc.ToggleAvailability(ctx, "owner-1", "r1")
	require.NoError(t, err)
	assert.True(t, r.IsAvailable)

	_, err = svc.ToggleAvailability(ctx, "owner-2", "r1")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.ToggleAvailability(ctx, "owner-1", "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

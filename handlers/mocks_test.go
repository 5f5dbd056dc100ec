package handlers

import (
	"context"
	"net/http"
	"time"

	"quickstay/middleware"
	"quickstay/models"
	"quickstay/services/booking"
	"quickstay/services/hotel"
	"quickstay/services/room"
	"quickstay/services/user"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// asUser stands in for ClerkAuthMiddleware.
func asUser(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, id)
		c.Next()
	}
}

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) CheckAvailability(ctx context.Context, roomID string, in, out time.Time) (bool, error) {
	args := m.Called(ctx, roomID, in, out)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingService) RequestBooking(ctx context.Context, req booking.BookingRequest) (*models.Booking, error) {
	args := m.Called(ctx, req)
	b, _ := args.Get(0).(*models.Booking)
	return b, args.Error(1)
}

func (m *MockBookingService) InitiatePayment(ctx context.Context, bookingID, actorID string) (*models.PaymentSession, error) {
	args := m.Called(ctx, bookingID, actorID)
	s, _ := args.Get(0).(*models.PaymentSession)
	return s, args.Error(1)
}

func (m *MockBookingService) ConfirmFromWebhook(ctx context.Context, sessionID string, outcome models.PaymentOutcome) (*models.Booking, error) {
	args := m.Called(ctx, sessionID, outcome)
	b, _ := args.Get(0).(*models.Booking)
	return b, args.Error(1)
}

func (m *MockBookingService) Cancel(ctx context.Context, bookingID, actorID string) (*models.Booking, error) {
	args := m.Called(ctx, bookingID, actorID)
	b, _ := args.Get(0).(*models.Booking)
	return b, args.Error(1)
}

func (m *MockBookingService) ExpireStale(ctx context.Context, olderThan time.Duration) (int, error) {
	args := m.Called(ctx, olderThan)
	return args.Int(0), args.Error(1)
}

func (m *MockBookingService) GetBooking(ctx context.Context, bookingID, actorID string) (*models.Booking, error) {
	args := m.Called(ctx, bookingID, actorID)
	b, _ := args.Get(0).(*models.Booking)
	return b, args.Error(1)
}

func (m *MockBookingService) ListUserBookings(ctx context.Context, userID string) ([]models.BookingWithDetails, error) {
	args := m.Called(ctx, userID)
	b, _ := args.Get(0).([]models.BookingWithDetails)
	return b, args.Error(1)
}

func (m *MockBookingService) HotelDashboard(ctx context.Context, ownerID string) (*models.HotelDashboard, error) {
	args := m.Called(ctx, ownerID)
	d, _ := args.Get(0).(*models.HotelDashboard)
	return d, args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) SyncClerkEvent(ctx context.Context, event user.ClerkEvent) error {
	return m.Called(ctx, event.Type).Error(0)
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockUserService) StoreRecentSearch(ctx context.Context, userID, city string) error {
	return m.Called(ctx, userID, city).Error(0)
}

func (m *MockUserService) PromoteToHotelOwner(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type MockHotelService struct {
	mock.Mock
}

func (m *MockHotelService) Register(ctx context.Context, ownerID string, input hotel.HotelInput) (*models.Hotel, error) {
	args := m.Called(ctx, ownerID, input)
	h, _ := args.Get(0).(*models.Hotel)
	return h, args.Error(1)
}

func (m *MockHotelService) GetByOwner(ctx context.Context, ownerID string) (*models.Hotel, error) {
	args := m.Called(ctx, ownerID)
	h, _ := args.Get(0).(*models.Hotel)
	return h, args.Error(1)
}

type MockRoomService struct {
	mock.Mock
}

func (m *MockRoomService) CreateRoom(ctx context.Context, ownerID string, input room.RoomInput, images []room.Image) (*models.Room, error) {
	args := m.Called(ctx, ownerID, input, len(images))
	r, _ := args.Get(0).(*models.Room)
	return r, args.Error(1)
}

func (m *MockRoomService) ListAvailable(ctx context.Context) ([]models.RoomWithHotel, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).([]models.RoomWithHotel)
	return r, args.Error(1)
}

func (m *MockRoomService) ListOwnerRooms(ctx context.Context, ownerID string) ([]models.Room, error) {
	args := m.Called(ctx, ownerID)
	r, _ := args.Get(0).([]models.Room)
	return r, args.Error(1)
}

func (m *MockRoomService) ToggleAvailability(ctx context.Context, ownerID, roomID string) (*models.Room, error) {
	args := m.Called(ctx, ownerID, roomID)
	r, _ := args.Get(0).(*models.Room)
	return r, args.Error(1)
}

type stubParser struct {
	event *models.PaymentEvent
	err   error
}

func (p stubParser) ParseEvent([]byte, string) (*models.PaymentEvent, error) {
	return p.event, p.err
}

// memoryFilter behaves like the Redis filter, including failing on a done ctx.
type memoryFilter struct {
	seen   map[string]bool
	marked []string
}

func (f *memoryFilter) Handled(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return f.seen[id], nil
}

func (f *memoryFilter) MarkHandled(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.seen[id] = true
	f.marked = append(f.marked, id)
	return nil
}

type stubVerifier struct {
	err error
}

func (v stubVerifier) Verify([]byte, http.Header) error { return v.err }

package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"quickstay/database/repository"
	bookingRepo "quickstay/database/repository/booking"
	"quickstay/models"

	"github.com/stretchr/testify/mock"
)

// memoryStore is an in-memory booking/room/hotel store with the same
// conditional-update semantics as the Mongo repositories.
type memoryStore struct {
	mu       sync.Mutex
	bookings map[string]models.Booking
	rooms    map[string]models.Room
	hotels   map[string]models.Hotel
	nights   map[string]string // roomId|night -> bookingId
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		bookings: map[string]models.Booking{},
		rooms:    map[string]models.Room{},
		hotels:   map[string]models.Hotel{},
		nights:   map[string]string{},
	}
}

// --- BookingRepository ---

func (m *memoryStore) Create(ctx context.Context, b *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[b.ID] = *b
	return nil
}

func (m *memoryStore) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &b, nil
}

func (m *memoryStore) GetBySessionID(ctx context.Context, sessionID string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.PaymentSessionID == sessionID {
			return &b, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryStore) list(match func(models.Booking) bool) []models.BookingWithDetails {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.BookingWithDetails{}
	for _, b := range m.bookings {
		if !match(b) {
			continue
		}
		d := models.BookingWithDetails{Booking: b}
		if r, ok := m.rooms[b.RoomID]; ok {
			d.Room = &r
		}
		if h, ok := m.hotels[b.HotelID]; ok {
			d.Hotel = &h
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memoryStore) ListByUser(ctx context.Context, userID string) ([]models.BookingWithDetails, error) {
	return m.list(func(b models.Booking) bool { return b.UserID == userID }), nil
}

func (m *memoryStore) ListByHotel(ctx context.Context, hotelID string) ([]models.BookingWithDetails, error) {
	return m.list(func(b models.Booking) bool { return b.HotelID == hotelID }), nil
}

func (m *memoryStore) FindOverlapping(ctx context.Context, roomID string, from, to time.Time, status models.BookingStatus, excludeID string) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Booking
	for _, b := range m.bookings {
		if b.RoomID == roomID && b.Status == status && b.ID != excludeID &&
			b.CheckIn.Before(to) && b.CheckOut.After(from) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memoryStore) SetPaymentSession(ctx context.Context, id, sessionID string, startedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	if b.Status != models.BookingPending {
		return repository.ErrStatusConflict
	}
	b.PaymentSessionID = sessionID
	b.PaymentStartedAt = &startedAt
	m.bookings[id] = b
	return nil
}

func (m *memoryStore) TransitionStatus(ctx context.Context, id string, from, to models.BookingStatus, patch bookingRepo.StatusPatch) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if b.Status != from {
		return nil, repository.ErrStatusConflict
	}
	b.Status = to
	if patch.IsPaid != nil {
		b.IsPaid = *patch.IsPaid
	}
	if patch.CancelReason != "" {
		b.CancelReason = patch.CancelReason
	}
	m.bookings[id] = b
	return &b, nil
}

func (m *memoryStore) ClaimNights(ctx context.Context, roomID, bookingID string, nights []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range nights {
		key := roomID + "|" + n
		if holder, ok := m.nights[key]; ok && holder != bookingID {
			return repository.ErrNightTaken
		}
		m.nights[key] = bookingID
	}
	return nil
}

func (m *memoryStore) ReleaseNights(ctx context.Context, bookingID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, holder := range m.nights {
		if holder == bookingID {
			delete(m.nights, k)
		}
	}
	return nil
}

func (m *memoryStore) ListPendingBefore(ctx context.Context, createdBefore, paymentStartedBefore time.Time) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Booking
	for _, b := range m.bookings {
		if b.Status != models.BookingPending || !b.CreatedAt.Before(createdBefore) {
			continue
		}
		if b.PaymentStartedAt == nil || b.PaymentStartedAt.Before(paymentStartedBefore) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memoryStore) claimsOf(bookingID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, holder := range m.nights {
		if holder == bookingID {
			n++
		}
	}
	return n
}

// memoryRooms and memoryHotels adapt the same store to the room and hotel repositories.
type memoryRooms struct{ *memoryStore }

func (r memoryRooms) Create(ctx context.Context, room *models.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms[room.ID] = *room
	return nil
}

func (r memoryRooms) GetByID(ctx context.Context, id string) (*models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &room, nil
}

func (r memoryRooms) ListAvailable(ctx context.Context) ([]models.RoomWithHotel, error) {
	return nil, nil
}

func (r memoryRooms) ListByHotel(ctx context.Context, hotelID string) ([]models.Room, error) {
	return nil, nil
}

func (r memoryRooms) Update(ctx context.Context, room *models.Room) error {
	return r.Create(ctx, room)
}

func (r memoryRooms) SetAvailability(ctx context.Context, id string, available bool) (*models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	room.IsAvailable = available
	r.rooms[id] = room
	return &room, nil
}

type memoryHotels struct{ *memoryStore }

func (h memoryHotels) Create(ctx context.Context, hotel *models.Hotel) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hotels[hotel.ID] = *hotel
	return nil
}

func (h memoryHotels) GetByID(ctx context.Context, id string) (*models.Hotel, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	hotel, ok := h.hotels[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &hotel, nil
}

func (h memoryHotels) GetByOwner(ctx context.Context, ownerID string) (*models.Hotel, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, hotel := range h.hotels {
		if hotel.OwnerID == ownerID {
			return &hotel, nil
		}
	}
	return nil, repository.ErrNotFound
}

// MockPaymentGateway is a testify mock of PaymentGateway.
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) CreateSession(ctx context.Context, req models.PaymentRequest) (*models.PaymentSession, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentSession), args.Error(1)
}

// recordingPublisher collects published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []models.BookingEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, e models.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

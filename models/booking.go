package models

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// Cancel reasons recorded on the booking.
const (
	CancelReasonUser        = "cancelled_by_user"
	CancelReasonPayment     = "payment_failed"
	CancelReasonTimeout     = "payment_timeout"
	CancelReasonUnavailable = "room_unavailable"
)

// Booking is a reservation of one room over the half-open interval [CheckIn, CheckOut).
type Booking struct {
	ID               string        `bson:"id" json:"id"`
	UserID           string        `bson:"userId" json:"userId"`
	RoomID           string        `bson:"roomId" json:"roomId"`
	HotelID          string        `bson:"hotelId" json:"hotelId"`
	CheckIn          time.Time     `bson:"checkIn" json:"checkInDate"`
	CheckOut         time.Time     `bson:"checkOut" json:"checkOutDate"`
	Guests           int           `bson:"guests" json:"guests"`
	TotalPrice       float64       `bson:"totalPrice" json:"totalPrice"`
	Status           BookingStatus `bson:"status" json:"status"`
	IsPaid           bool          `bson:"isPaid" json:"isPaid"`
	PaymentSessionID string        `bson:"paymentSessionId,omitempty" json:"paymentSessionId,omitempty"`
	PaymentStartedAt *time.Time    `bson:"paymentStartedAt,omitempty" json:"paymentStartedAt,omitempty"`
	CancelReason     string        `bson:"cancelReason,omitempty" json:"cancelReason,omitempty"`
	CreatedAt        time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// Nights returns the number of nights covered by the booking.
func (b Booking) Nights() int {
	return NightsBetween(b.CheckIn, b.CheckOut)
}

// NightsBetween counts calendar nights between two dates, ignoring time of day.
func NightsBetween(checkIn, checkOut time.Time) int {
	in := TruncateDay(checkIn)
	out := TruncateDay(checkOut)
	return int(out.Sub(in).Hours() / 24)
}

// TruncateDay returns midnight UTC of t's calendar date.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NightKeys lists the "2006-01-02" dates of every night in [checkIn, checkOut).
func NightKeys(checkIn, checkOut time.Time) []string {
	var keys []string
	end := TruncateDay(checkOut)
	for d := TruncateDay(checkIn); d.Before(end); d = d.AddDate(0, 0, 1) {
		keys = append(keys, d.Format("2006-01-02"))
	}
	return keys
}

// BookingWithDetails joins a booking with its room and hotel for listings.
type BookingWithDetails struct {
	Booking `bson:",inline"`
	Room    *Room  `bson:"room,omitempty" json:"room,omitempty"`
	Hotel   *Hotel `bson:"hotel,omitempty" json:"hotel,omitempty"`
}

// HotelDashboard summarises bookings for a hotel owner.
type HotelDashboard struct {
	Bookings      []BookingWithDetails `json:"bookings"`
	TotalBookings int                  `json:"totalBookings"`
	TotalRevenue  float64              `json:"totalRevenue"`
}

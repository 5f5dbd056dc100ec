package models

import "time"

// Booking lifecycle event types published to the message broker.
const (
	EventBookingRequested = "booking.requested"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
)

type BookingEvent struct {
	Type       string        `json:"type"`
	BookingID  string        `json:"bookingId"`
	UserID     string        `json:"userId"`
	RoomID     string        `json:"roomId"`
	HotelID    string        `json:"hotelId"`
	Status     BookingStatus `json:"status"`
	Reason     string        `json:"reason,omitempty"`
	OccurredAt time.Time     `json:"occurredAt"`
}

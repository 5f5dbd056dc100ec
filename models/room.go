package models

import "time"

// DefaultRoomCapacity applies to rooms created without an explicit capacity.
const DefaultRoomCapacity = 2

// Room belongs to one hotel. Rooms are never deleted; IsAvailable=false disables them.
type Room struct {
	ID            string    `bson:"id" json:"id"`
	HotelID       string    `bson:"hotelId" json:"hotelId"`
	RoomType      string    `bson:"roomType" json:"roomType"`
	PricePerNight float64   `bson:"pricePerNight" json:"pricePerNight"`
	Capacity      int       `bson:"capacity" json:"capacity"`
	Amenities     []string  `bson:"amenities" json:"amenities"`
	Images        []string  `bson:"images" json:"images"`
	IsAvailable   bool      `bson:"isAvailable" json:"isAvailable"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}

// MaxGuests returns the room capacity, falling back to DefaultRoomCapacity.
func (r Room) MaxGuests() int {
	if r.Capacity <= 0 {
		return DefaultRoomCapacity
	}
	return r.Capacity
}

// RoomWithHotel is the listing shape returned to the front end.
type RoomWithHotel struct {
	Room  `bson:",inline"`
	Hotel *Hotel `bson:"hotel,omitempty" json:"hotel,omitempty"`
}

package models

import "time"

const (
	RoleUser       = "user"
	RoleHotelOwner = "hotelOwner"
)

// MaxRecentCities bounds User.RecentSearchedCities.
const MaxRecentCities = 3

// User is the local profile mirrored from the identity provider.
type User struct {
	ID                   string    `bson:"id" json:"id"`
	Username             string    `bson:"username" json:"username"`
	Email                string    `bson:"email" json:"email"`
	Image                string    `bson:"image" json:"image"`
	Role                 string    `bson:"role" json:"role"`
	RecentSearchedCities []string  `bson:"recentSearchedCities" json:"recentSearchedCities"`
	CreatedAt            time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time `bson:"updatedAt" json:"updatedAt"`
}

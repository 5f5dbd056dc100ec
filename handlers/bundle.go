package handlers

import (
	userRepoPkg "quickstay/database/repository/user"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the endpoint handlers and the auth middleware the
// routes need.
type HandlerBundle struct {
	UserRepo userRepoPkg.UserRepository
	Auth     gin.HandlerFunc

	Bookings      *BookingHandler
	Rooms         *RoomHandler
	Hotels        *HotelHandler
	Users         *UserHandler
	StripeWebhook *StripeWebhookHandler
	ClerkWebhook  *ClerkWebhookHandler
}

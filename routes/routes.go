package routes

import (
	"time"

	"quickstay/handlers"
	"quickstay/middleware"
	"quickstay/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterWebhookRoutes registers the signed provider callbacks. They read
// the raw body, carry no session token and arrive from shared provider IPs,
// so they are not rate limited.
func RegisterWebhookRoutes(r gin.IRouter, hb *handlers.HandlerBundle) {
	r.POST("/api/stripe", hb.StripeWebhook.Handle)
	r.POST("/api/clerk", hb.ClerkWebhook.Handle)
}

// RegisterUserRoutes registers user endpoints.
func RegisterUserRoutes(r gin.IRouter, hb *handlers.HandlerBundle) {
	api := r.Group("/api/user")
	{
		api.Use(hb.Auth)
		api.GET("", hb.Users.GetUserData)
		api.POST("/store-recent-search", hb.Users.StoreRecentSearch)
	}
}

// RegisterHotelRoutes registers hotel endpoints.
func RegisterHotelRoutes(r gin.IRouter, hb *handlers.HandlerBundle) {
	api := r.Group("/api/hotels")
	{
		api.Use(hb.Auth)
		api.POST("", hb.Hotels.RegisterHotel)
		api.GET("/mine", middleware.RequireRole(hb.UserRepo, models.RoleHotelOwner), hb.Hotels.GetMyHotel)
	}
}

// RegisterRoomRoutes registers room listing and owner management endpoints.
func RegisterRoomRoutes(r gin.IRouter, hb *handlers.HandlerBundle) {
	api := r.Group("/api/rooms")
	{
		api.GET("", hb.Rooms.GetRooms)

		owner := api.Group("")
		owner.Use(hb.Auth, middleware.RequireRole(hb.UserRepo, models.RoleHotelOwner))
		owner.POST("", hb.Rooms.CreateRoom)
		owner.GET("/owner", hb.Rooms.GetOwnerRooms)
		owner.POST("/toggle-availability", hb.Rooms.ToggleAvailability)
	}
}

// RegisterBookingRoutes sets up the endpoints for the booking workflow.
func RegisterBookingRoutes(r gin.IRouter, hb *handlers.HandlerBundle) {
	bookingGroup := r.Group("/api/bookings")
	{
		bookingGroup.POST("/check-availability", hb.Bookings.CheckAvailability)

		protected := bookingGroup.Group("")
		protected.Use(hb.Auth)
		protected.POST("/book", hb.Bookings.CreateBooking)
		protected.GET("/user", hb.Bookings.GetUserBookings)
		protected.GET("/hotel", middleware.RequireRole(hb.UserRepo, models.RoleHotelOwner), hb.Bookings.GetHotelBookings)
		protected.POST("/stripe-payment", hb.Bookings.StripePayment)
		protected.GET("/:id", hb.Bookings.GetBooking)
		protected.POST("/:id/cancel", hb.Bookings.CancelBooking)
	}
}

// RegisterHealthRoute registers the health-check endpoints.
func RegisterHealthRoute(r gin.IRouter) {
	r.GET("/", handlers.Root)
	r.GET("/health", handlers.Health)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
// limiter may be nil.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, allowedOrigins []string, limiter gin.HandlerFunc) {
	corsCfg := cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) == 0 {
		corsCfg.AllowOrigins = nil
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	}
	r.Use(cors.New(corsCfg))

	RegisterWebhookRoutes(r, hb)

	limited := r.Group("")
	if limiter != nil {
		limited.Use(limiter)
	}
	RegisterHealthRoute(limited)
	RegisterUserRoutes(limited, hb)
	RegisterHotelRoutes(limited, hb)
	RegisterRoomRoutes(limited, hb)
	RegisterBookingRoutes(limited, hb)
}

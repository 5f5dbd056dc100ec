package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"quickstay/middleware"
	"quickstay/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler serves the /api/bookings endpoints.
type BookingHandler struct {
	Svc booking.BookingService
}

// NewBookingHandler creates a new BookingHandler instance.
func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{Svc: svc}
}

type availabilityRequest struct {
	RoomID       string `json:"room" binding:"required"`
	CheckInDate  string `json:"checkInDate" binding:"required"`
	CheckOutDate string `json:"checkOutDate" binding:"required"`
}

type bookRequest struct {
	availabilityRequest
	Guests int `json:"guests" binding:"required"`
}

// dateLayouts are the accepted check-in/check-out formats.
var dateLayouts = []string{"2006-01-02", time.RFC3339, time.RFC3339Nano}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

func (r availabilityRequest) dates() (time.Time, time.Time, error) {
	in, err := parseDate(r.CheckInDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	out, err := parseDate(r.CheckOutDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return in, out, nil
}

// CheckAvailability handles POST /api/bookings/check-availability.
func (h *BookingHandler) CheckAvailability(c *gin.Context) {
	var req availabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	in, out, err := req.dates()
	if err != nil {
		badRequest(c, err)
		return
	}

	ok, err := h.Svc.CheckAvailability(c.Request.Context(), req.RoomID, in, out)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "isAvailable": ok})
}

// CreateBooking handles POST /api/bookings/book.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	in, out, err := req.dates()
	if err != nil {
		badRequest(c, err)
		return
	}

	b, err := h.Svc.RequestBooking(c.Request.Context(), booking.BookingRequest{
		UserID:   middleware.UserID(c),
		RoomID:   req.RoomID,
		CheckIn:  in,
		CheckOut: out,
		Guests:   req.Guests,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Booking created successfully", "booking": b})
}

// GetUserBookings handles GET /api/bookings/user.
func (h *BookingHandler) GetUserBookings(c *gin.Context) {
	bookings, err := h.Svc.ListUserBookings(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bookings": bookings})
}

// GetHotelBookings handles GET /api/bookings/hotel.
func (h *BookingHandler) GetHotelBookings(c *gin.Context) {
	dash, err := h.Svc.HotelDashboard(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "dashboardData": dash})
}

// GetBooking handles GET /api/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	b, err := h.Svc.GetBooking(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "booking": b})
}

// StripePayment handles POST /api/bookings/stripe-payment and returns the
// checkout redirect URL.
func (h *BookingHandler) StripePayment(c *gin.Context) {
	var req struct {
		BookingID string `json:"bookingId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	session, err := h.Svc.InitiatePayment(c.Request.Context(), req.BookingID, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	getLogger(c).Info("checkout session issued", zap.String("bookingId", req.BookingID), zap.String("sessionId", session.ID))
	c.JSON(http.StatusOK, gin.H{"success": true, "url": session.URL, "sessionId": session.ID})
}

// CancelBooking handles POST /api/bookings/:id/cancel.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	b, err := h.Svc.Cancel(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Booking cancelled", "booking": b})
}

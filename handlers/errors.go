package handlers

import (
	"errors"
	"net/http"

	"quickstay/services/booking"
	"quickstay/services/hotel"
	"quickstay/services/room"
	"quickstay/services/user"
	"quickstay/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, booking.ErrInvalidRange),
		errors.Is(err, booking.ErrInvalidGuests),
		errors.Is(err, hotel.ErrInvalidInput),
		errors.Is(err, room.ErrInvalidInput),
		errors.Is(err, user.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, booking.ErrForbidden),
		errors.Is(err, room.ErrForbidden),
		errors.Is(err, room.ErrNoHotel):
		return http.StatusForbidden
	case errors.Is(err, booking.ErrNotFound),
		errors.Is(err, hotel.ErrNotFound),
		errors.Is(err, room.ErrNotFound),
		errors.Is(err, user.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, booking.ErrRoomUnavailable),
		errors.Is(err, booking.ErrInvalidState),
		errors.Is(err, hotel.ErrAlreadyRegistered):
		return http.StatusConflict
	case errors.Is(err, booking.ErrPaymentCollaborator):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// respondError writes err with the status from statusFor. Internal errors
// are not echoed to the client.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		getLogger(c).Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		utils.JSONError(c, status, "Internal Server Error", "")
		return
	}
	utils.JSONError(c, status, err.Error(), "")
}

// badRequest reports a malformed request body.
func badRequest(c *gin.Context, err error) {
	utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
}

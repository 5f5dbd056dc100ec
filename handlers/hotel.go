package handlers

import (
	"net/http"

	"quickstay/middleware"
	"quickstay/services/hotel"

	"github.com/gin-gonic/gin"
)

type HotelHandler struct {
	Svc hotel.HotelService
}

func NewHotelHandler(svc hotel.HotelService) *HotelHandler {
	return &HotelHandler{Svc: svc}
}

// RegisterHotel handles POST /api/hotels.
func (h *HotelHandler) RegisterHotel(c *gin.Context) {
	var input hotel.HotelInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	created, err := h.Svc.Register(c.Request.Context(), middleware.UserID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Hotel Registered Successfully", "hotel": created})
}

// GetMyHotel handles GET /api/hotels/mine.
func (h *HotelHandler) GetMyHotel(c *gin.Context) {
	found, err := h.Svc.GetByOwner(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "hotel": found})
}

package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"quickstay/middleware"
	"quickstay/services/room"

	"github.com/gin-gonic/gin"
)

// maxImageSize bounds each uploaded room image.
const maxImageSize = 5 << 20

type RoomHandler struct {
	Svc room.RoomService
}

func NewRoomHandler(svc room.RoomService) *RoomHandler {
	return &RoomHandler{Svc: svc}
}

// CreateRoom handles the multipart POST /api/rooms form: roomType,
// pricePerNight, capacity, amenities (JSON array or comma list) and images.
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		badRequest(c, err)
		return
	}
	input, err := roomInputFromForm(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	images, err := imagesFromForm(form.File["images"])
	if err != nil {
		badRequest(c, err)
		return
	}

	created, err := h.Svc.CreateRoom(c.Request.Context(), middleware.UserID(c), input, images)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Room created successfully", "room": created})
}

func roomInputFromForm(c *gin.Context) (room.RoomInput, error) {
	input := room.RoomInput{RoomType: c.PostForm("roomType")}

	price, err := strconv.ParseFloat(c.PostForm("pricePerNight"), 64)
	if err != nil {
		return input, fmt.Errorf("invalid pricePerNight: %w", err)
	}
	input.PricePerNight = price

	if raw := c.PostForm("capacity"); raw != "" {
		capacity, err := strconv.Atoi(raw)
		if err != nil {
			return input, fmt.Errorf("invalid capacity: %w", err)
		}
		input.Capacity = capacity
	}

	amenities, err := parseAmenities(c.PostForm("amenities"))
	if err != nil {
		return input, err
	}
	input.Amenities = amenities
	return input, nil
}

// parseAmenities accepts either a JSON array or a comma separated list.
func parseAmenities(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if strings.HasPrefix(raw, "[") {
		var out []string
		if err := json.Unmarshal([]byte(raw), &out); err != nil {
			return nil, fmt.Errorf("invalid amenities: %w", err)
		}
		return out, nil
	}
	return strings.Split(raw, ","), nil
}

func imagesFromForm(files []*multipart.FileHeader) ([]room.Image, error) {
	images := make([]room.Image, 0, len(files))
	for _, fh := range files {
		if fh.Size > maxImageSize {
			return nil, fmt.Errorf("image %s exceeds %d bytes", fh.Filename, maxImageSize)
		}
		images = append(images, room.Image{
			Filename: fh.Filename,
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}
	return images, nil
}

// GetRooms handles GET /api/rooms.
func (h *RoomHandler) GetRooms(c *gin.Context) {
	rooms, err := h.Svc.ListAvailable(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "rooms": rooms})
}

// GetOwnerRooms handles GET /api/rooms/owner.
func (h *RoomHandler) GetOwnerRooms(c *gin.Context) {
	rooms, err := h.Svc.ListOwnerRooms(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "rooms": rooms})
}

// ToggleAvailability handles POST /api/rooms/toggle-availability.
func (h *RoomHandler) ToggleAvailability(c *gin.Context) {
	var req struct {
		RoomID string `json:"roomId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	updated, err := h.Svc.ToggleAvailability(c.Request.Context(), middleware.UserID(c), req.RoomID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Room availability Updated", "room": updated})
}

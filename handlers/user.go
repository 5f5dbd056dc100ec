package handlers

import (
	"net/http"

	"quickstay/middleware"
	"quickstay/services/user"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	Svc user.UserService
}

func NewUserHandler(svc user.UserService) *UserHandler {
	return &UserHandler{Svc: svc}
}

// GetUserData handles GET /api/user.
func (h *UserHandler) GetUserData(c *gin.Context) {
	usr, err := h.Svc.GetUserByID(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	cities := usr.RecentSearchedCities
	if cities == nil {
		cities = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "role": usr.Role, "recentSearchedCities": cities})
}

// StoreRecentSearch handles POST /api/user/store-recent-search.
func (h *UserHandler) StoreRecentSearch(c *gin.Context) {
	var req struct {
		City string `json:"recentSearchedCity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.Svc.StoreRecentSearch(c.Request.Context(), middleware.UserID(c), req.City); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "City added"})
}

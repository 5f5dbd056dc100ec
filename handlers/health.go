package handlers

import (
	"net/http"

	"quickstay/utils"

	"github.com/gin-gonic/gin"
)

// Root handles GET /.
func Root(c *gin.Context) {
	c.String(http.StatusOK, "API is working")
}

// Health handles GET /health from the last background check.
func Health(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"success": code == http.StatusOK, "status": status})
}

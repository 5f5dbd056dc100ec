package routes

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"quickstay/handlers"
	"quickstay/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type rejectVerifier struct{}

func (rejectVerifier) Verify([]byte, http.Header) error { return errors.New("bad signature") }

func testEngine(origins []string) *gin.Engine {
	return testEngineWithLimit(origins, nil)
}

func testEngineWithLimit(origins []string, limiter gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	hb := &handlers.HandlerBundle{
		Auth:          func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) },
		Bookings:      handlers.NewBookingHandler(nil),
		Rooms:         handlers.NewRoomHandler(nil),
		Hotels:        handlers.NewHotelHandler(nil),
		Users:         handlers.NewUserHandler(nil),
		StripeWebhook: handlers.NewStripeWebhookHandler(nil, nil, nil),
		ClerkWebhook:  handlers.NewClerkWebhookHandler(rejectVerifier{}, nil),
	}
	RegisterRoutes(r, hb, origins, limiter)
	return r
}

func TestRegisterRoutes(t *testing.T) {
	r := testEngine([]string{"http://localhost:5173"})

	registered := map[string]bool{}
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}
	for _, want := range []string{
		"GET /",
		"GET /health",
		"POST /api/stripe",
		"POST /api/clerk",
		"GET /api/user",
		"POST /api/user/store-recent-search",
		"POST /api/hotels",
		"GET /api/hotels/mine",
		"GET /api/rooms",
		"POST /api/rooms",
		"GET /api/rooms/owner",
		"POST /api/rooms/toggle-availability",
		"POST /api/bookings/check-availability",
		"POST /api/bookings/book",
		"GET /api/bookings/user",
		"GET /api/bookings/hotel",
		"POST /api/bookings/stripe-payment",
		"GET /api/bookings/:id",
		"POST /api/bookings/:id/cancel",
	} {
		assert.True(t, registered[want], "missing route %s", want)
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	r := testEngine(nil)

	for _, path := range []string{"/api/user", "/api/bookings/user", "/api/rooms/owner"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestWebhooksBypassRateLimit(t *testing.T) {
	r := testEngineWithLimit(nil, middleware.RateLimitMiddleware(1))

	call := func(method, path string) int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(method, path, strings.NewReader(`{}`)))
		return w.Code
	}

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusBadRequest, call(http.MethodPost, "/api/clerk"))
	}
	assert.Equal(t, http.StatusUnauthorized, call(http.MethodGet, "/api/bookings/user"))
	assert.Equal(t, http.StatusTooManyRequests, call(http.MethodGet, "/api/bookings/user"))
}

func TestCORSPreflight(t *testing.T) {
	r := testEngine([]string{"http://localhost:5173"})

	req := httptest.NewRequest(http.MethodOptions, "/api/bookings/book", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

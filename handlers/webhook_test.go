package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"quickstay/models"
	"quickstay/services/booking"
	"quickstay/services/payment"
	"quickstay/services/user"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func stripeRouter(parser PaymentEventParser, svc PaymentConfirmer, seen EventFilter) *gin.Engine {
	r := gin.New()
	r.POST("/api/stripe", NewStripeWebhookHandler(parser, svc, seen).Handle)
	return r
}

var paidEvent = &models.PaymentEvent{EventID: "evt_1", SessionID: "cs_1", Outcome: models.PaymentSucceeded}

func TestStripeWebhook_Confirms(t *testing.T) {
	svc := new(MockBookingService)
	seen := &memoryFilter{seen: map[string]bool{}}
	r := stripeRouter(stubParser{event: paidEvent}, svc, seen)

	svc.On("ConfirmFromWebhook", mock.Anything, "cs_1", models.PaymentSucceeded).
		Return(&models.Booking{ID: "b-1", Status: models.BookingConfirmed}, nil).Once()

	w := do(r, http.MethodPost, "/api/stripe", `{}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"received":true}`, w.Body.String())

	// the redelivery is dropped before reaching the workflow
	w = do(r, http.MethodPost, "/api/stripe", `{}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"received":true,"duplicate":true}`, w.Body.String())
	svc.AssertExpectations(t)
}

func TestStripeWebhook_Outcomes(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   int
		marked bool
	}{
		{"unknown session", booking.ErrNotFound, http.StatusOK, true},
		{"room taken", booking.ErrRoomUnavailable, http.StatusOK, true},
		{"conflicting outcome", booking.ErrInvalidState, http.StatusOK, true},
		{"transient", errors.New("mongo: timeout"), http.StatusInternalServerError, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockBookingService)
			seen := &memoryFilter{seen: map[string]bool{}}
			r := stripeRouter(stubParser{event: paidEvent}, svc, seen)
			svc.On("ConfirmFromWebhook", mock.Anything, "cs_1", models.PaymentSucceeded).Return(nil, tt.err).Once()

			w := do(r, http.MethodPost, "/api/stripe", `{}`)
			assert.Equal(t, tt.code, w.Code)
			if tt.marked {
				assert.Equal(t, []string{"evt_1"}, seen.marked)
			} else {
				assert.Empty(t, seen.marked)
				assert.False(t, seen.seen["evt_1"])
			}
		})
	}
}

func TestStripeWebhook_RetryAfterFailure(t *testing.T) {
	svc := new(MockBookingService)
	seen := &memoryFilter{seen: map[string]bool{}}
	r := stripeRouter(stubParser{event: paidEvent}, svc, seen)

	// first delivery fails while the client disconnects
	ctx, cancel := context.WithCancel(context.Background())
	svc.On("ConfirmFromWebhook", mock.Anything, "cs_1", models.PaymentSucceeded).
		Run(func(mock.Arguments) { cancel() }).
		Return(nil, errors.New("mongo: timeout")).Once()
	req := httptest.NewRequest(http.MethodPost, "/api/stripe", strings.NewReader(`{}`)).WithContext(ctx)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, seen.marked)

	// the redelivery reaches the workflow and confirms the booking
	svc.On("ConfirmFromWebhook", mock.Anything, "cs_1", models.PaymentSucceeded).
		Return(&models.Booking{ID: "b-1", Status: models.BookingConfirmed}, nil).Once()
	w = do(r, http.MethodPost, "/api/stripe", `{}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"received":true}`, w.Body.String())
	svc.AssertNumberOfCalls(t, "ConfirmFromWebhook", 2)
}

func TestStripeWebhook_MarksDespiteCancelledRequest(t *testing.T) {
	svc := new(MockBookingService)
	seen := &memoryFilter{seen: map[string]bool{}}
	r := stripeRouter(stubParser{event: paidEvent}, svc, seen)

	ctx, cancel := context.WithCancel(context.Background())
	svc.On("ConfirmFromWebhook", mock.Anything, "cs_1", models.PaymentSucceeded).
		Run(func(mock.Arguments) { cancel() }).
		Return(&models.Booking{ID: "b-1", Status: models.BookingConfirmed}, nil).Once()
	req := httptest.NewRequest(http.MethodPost, "/api/stripe", strings.NewReader(`{}`)).WithContext(ctx)
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, []string{"evt_1"}, seen.marked)
}

func TestStripeWebhook_PayloadTooLarge(t *testing.T) {
	svc := new(MockBookingService)
	r := stripeRouter(stubParser{event: paidEvent}, svc, nil)

	w := do(r, http.MethodPost, "/api/stripe", strings.Repeat("x", maxWebhookBody+1))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	svc.AssertNotCalled(t, "ConfirmFromWebhook", mock.Anything, mock.Anything, mock.Anything)
}

func TestStripeWebhook_Rejects(t *testing.T) {
	svc := new(MockBookingService)

	r := stripeRouter(stubParser{err: payment.ErrInvalidSignature}, svc, nil)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/stripe", `{}`).Code)

	// ignored event types are acknowledged without touching bookings
	r = stripeRouter(stubParser{}, svc, nil)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/stripe", `{}`).Code)

	svc.AssertNotCalled(t, "ConfirmFromWebhook", mock.Anything, mock.Anything, mock.Anything)
}

func TestClerkWebhook(t *testing.T) {
	users := new(MockUserService)
	users.On("SyncClerkEvent", mock.Anything, user.ClerkUserCreated).Return(nil).Once()
	users.On("SyncClerkEvent", mock.Anything, "email.created").Return(user.ErrUnsupportedEvent).Once()
	users.On("SyncClerkEvent", mock.Anything, user.ClerkUserUpdated).Return(user.ErrInvalidInput).Once()

	r := gin.New()
	r.POST("/api/clerk", NewClerkWebhookHandler(stubVerifier{}, users).Handle)

	w := do(r, http.MethodPost, "/api/clerk", `{"type":"user.created","data":{"id":"user_1"}}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Webhook Received"}`, w.Body.String())

	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/clerk", `{"type":"email.created","data":{}}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/clerk", `{"type":"user.updated","data":{}}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/clerk", `not json`).Code)
	assert.Equal(t, http.StatusRequestEntityTooLarge, do(r, http.MethodPost, "/api/clerk", strings.Repeat("x", maxWebhookBody+1)).Code)

	bad := gin.New()
	bad.POST("/api/clerk", NewClerkWebhookHandler(stubVerifier{err: errors.New("no match")}, users).Handle)
	assert.Equal(t, http.StatusBadRequest, do(bad, http.MethodPost, "/api/clerk", `{"type":"user.created"}`).Code)

	users.AssertExpectations(t)
}

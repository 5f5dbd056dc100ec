package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func init() {
	gin.SetMode(gin.TestMode)
	Logger = zap.NewNop()
}

func TestErrorHandler_RecoversPanic(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Internal Server Error","details":"An unexpected error occurred. Please try again later."}`, w.Body.String())
}

func TestJSONError(t *testing.T) {
	r := gin.New()
	r.GET("/x", func(c *gin.Context) { JSONError(c, http.StatusConflict, "Room is not available", "") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Room is not available"}`, w.Body.String())
}

func TestHealthStatus_Healthy(t *testing.T) {
	assert.True(t, HealthStatus{Mongo: true, Redis: []bool{true}}.Healthy())
	assert.False(t, HealthStatus{Mongo: true, Redis: []bool{true, false}}.Healthy())
	assert.False(t, HealthStatus{Mongo: false}.Healthy())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn", zapcore.InfoLevel))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("", zapcore.InfoLevel))
	assert.Equal(t, zapcore.DebugLevel, parseLevel("loud", zapcore.DebugLevel))
}

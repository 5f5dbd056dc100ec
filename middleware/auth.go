package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"quickstay/utils"

	"github.com/MicahParks/keyfunc"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

// ContextUserID is the gin context key holding the authenticated Clerk user id.
const ContextUserID = "userID"

// NewClerkKeyfunc fetches Clerk's JWKS and keeps it refreshed in the background.
func NewClerkKeyfunc(jwksURL string, logger *zap.Logger) (*keyfunc.JWKS, error) {
	if jwksURL == "" {
		return nil, errors.New("CLERK_JWKS_URL is not set")
	}
	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			logger.Warn("failed to refresh Clerk JWKS", zap.Error(err))
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load Clerk JWKS: %w", err)
	}
	return jwks, nil
}

// ClerkAuthMiddleware verifies the Clerk session token in the Authorization
// header and stores its subject under ContextUserID.
func ClerkAuthMiddleware(keys jwt.Keyfunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.JSONError(c, http.StatusUnauthorized, "Not authorized", "missing or invalid Authorization header")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		userID, err := subjectOf(tokenString, keys)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "Not authorized", err.Error())
			return
		}

		c.Set(ContextUserID, userID)
		c.Next()
	}
}

func subjectOf(tokenString string, keys jwt.Keyfunc) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, keys, jwt.WithValidMethods([]string{"RS256"}))
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", errors.New("invalid token: missing subject")
	}
	return claims.Subject, nil
}

// UserID returns the authenticated user id, or "" outside ClerkAuthMiddleware.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

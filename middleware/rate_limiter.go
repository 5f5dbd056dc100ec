package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long an IP's limiter is kept after its last request.
const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiterStore holds a map of IP addresses to their rate limiters.
type rateLimiterStore struct {
	perMinute int
	idleTTL   time.Duration
	now       func() time.Time
	limiters  map[string]*clientLimiter
	lastSweep time.Time
	mu        sync.Mutex
}

func newRateLimiterStore(perMinute int, idleTTL time.Duration, now func() time.Time) *rateLimiterStore {
	return &rateLimiterStore{
		perMinute: perMinute,
		idleTTL:   idleTTL,
		now:       now,
		limiters:  make(map[string]*clientLimiter),
		lastSweep: now(),
	}
}

// getLimiter returns the rate limiter for a given IP, creating one if it doesn't exist.
// Idle limiters are dropped at most once per idleTTL.
func (s *rateLimiterStore) getLimiter(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= s.idleTTL {
		for key, cl := range s.limiters {
			if now.Sub(cl.lastSeen) >= s.idleTTL {
				delete(s.limiters, key)
			}
		}
		s.lastSweep = now
	}

	cl, exists := s.limiters[ip]
	if !exists {
		cl = &clientLimiter{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.perMinute)), s.perMinute)}
		s.limiters[ip] = cl
	}
	cl.lastSeen = now
	return cl.limiter
}

// RateLimitMiddleware allows perMinute requests per client IP, bursting up to the same amount.
// The client IP comes from gin's ClientIP, so forwarded headers only count
// when the engine trusts the proxy that set them.
func RateLimitMiddleware(perMinute int) gin.HandlerFunc {
	if perMinute <= 0 {
		perMinute = 200
	}
	store := newRateLimiterStore(perMinute, limiterIdleTTL, time.Now)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !store.getLimiter(ip).Allow() {
			zap.L().Warn("Rate limit exceeded", zap.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"success": false, "message": "Rate limit exceeded. Try again later."})
			return
		}
		c.Next()
	}
}

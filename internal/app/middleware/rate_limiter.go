package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arasfeld/rent-app/internal/error/code"
	"github.com/arasfeld/rent-app/internal/error/response"
)

// TokenBucket is a simple token bucket limiter
type TokenBucket struct {
	rate       float64 // tokens added per second
	capacity   int
	tokens     float64
	lastRefill time.Time
	lastSeen   time.Time
	mu         sync.Mutex
}

func NewTokenBucket(rate float64, capacity int) *TokenBucket {
	now := time.Now()
	return &TokenBucket{
		rate:       rate,
		capacity:   capacity,
		tokens:     float64(capacity),
		lastRefill: now,
		lastSeen:   now,
	}
}

// Allow takes one token if available
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill).Seconds()
	tb.lastRefill = now
	tb.lastSeen = now

	tb.tokens += elapsed * tb.rate
	if tb.tokens > float64(tb.capacity) {
		tb.tokens = float64(tb.capacity)
	}

	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}
	return false
}

func (tb *TokenBucket) idleSince(t time.Time) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.lastSeen.Before(t)
}

// RateLimiterConfig configures RateLimiter
type RateLimiterConfig struct {
	Rate       float64                   // requests per second
	Burst      int                       // bucket capacity
	ExpiryTime time.Duration             // idle buckets older than this are dropped
	KeyFunc    func(*gin.Context) string // defaults to the client IP
}

// DefaultRateLimiterConfig allows 10 rps with bursts of 20 per client IP
var DefaultRateLimiterConfig = RateLimiterConfig{
	Rate:       10,
	Burst:      20,
	ExpiryTime: time.Hour,
}

// limiterStore holds one bucket per key for a single middleware instance
type limiterStore struct {
	cfg      RateLimiterConfig
	mu       sync.Mutex
	limiters map[string]*TokenBucket
	lastScan time.Time
}

func (s *limiterStore) get(key string) *TokenBucket {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if s.cfg.ExpiryTime > 0 && now.Sub(s.lastScan) > s.cfg.ExpiryTime {
		cutoff := now.Add(-s.cfg.ExpiryTime)
		for k, l := range s.limiters {
			if l.idleSince(cutoff) {
				delete(s.limiters, k)
			}
		}
		s.lastScan = now
	}

	limiter, ok := s.limiters[key]
	if !ok {
		limiter = NewTokenBucket(s.cfg.Rate, s.cfg.Burst)
		s.limiters[key] = limiter
	}
	return limiter
}

// RateLimiter rejects requests over the configured rate with 429
func RateLimiter(config ...RateLimiterConfig) gin.HandlerFunc {
	cfg := DefaultRateLimiterConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Rate <= 0 {
		cfg.Rate = DefaultRateLimiterConfig.Rate
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultRateLimiterConfig.Burst
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}

	store := &limiterStore{
		cfg:      cfg,
		limiters: make(map[string]*TokenBucket),
		lastScan: time.Now(),
	}

	return func(c *gin.Context) {
		if !store.get(cfg.KeyFunc(c)).Allow() {
			response.Fail(c, code.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}

// IPRateLimiter limits per client IP
func IPRateLimiter(rate float64, burst int) gin.HandlerFunc {
	return RateLimiter(RateLimiterConfig{
		Rate:       rate,
		Burst:      burst,
		ExpiryTime: DefaultRateLimiterConfig.ExpiryTime,
	})
}

// UserRateLimiter limits per authenticated user, falling back to the client IP
func UserRateLimiter(rate float64, burst int) gin.HandlerFunc {
	return RateLimiter(RateLimiterConfig{
		Rate:       rate,
		Burst:      burst,
		ExpiryTime: DefaultRateLimiterConfig.ExpiryTime,
		KeyFunc: func(c *gin.Context) string {
			if id := UserID(c); id != "" {
				return "user:" + id
			}
			return c.ClientIP()
		},
	})
}

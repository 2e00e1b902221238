package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// RateLimitStatus is the quota left for one client in the current window
type RateLimitStatus struct {
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	ResetAt   int64 `json:"resetAt"`
}

// RateLimiter counts requests per client in fixed windows stored in Redis
type RateLimiter struct {
	redis  redis.Cmdable
	config RateLimitConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewRateLimiter creates a new rate limiter instance
func NewRateLimiter(redisClient redis.Cmdable, config RateLimitConfig, logger *zap.Logger) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateLimiter{
		redis:  redisClient,
		config: config,
		logger: logger,
		now:    time.Now,
	}
}

// NewGenerationRateLimiter limits recipe generations per user or client IP
func NewGenerationRateLimiter(redisClient redis.Cmdable, limit int, window time.Duration, logger *zap.Logger) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    window,
		Limit:     limit,
		KeyPrefix: "rate_limit:recipe_generation",
	}, logger)
}

// ClientKey identifies the caller: the signed-in username, else the client IP
func ClientKey(c *gin.Context) string {
	if username := c.GetString(ContextUsernameKey); username != "" {
		return "user:" + username
	}
	return "ip:" + c.ClientIP()
}

// RateLimitMiddleware returns a Gin middleware that enforces rate limiting. Redis
// failures let the request through.
func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		client := ClientKey(c)
		allowed, remaining, resetTime, err := rl.IsAllowed(c.Request.Context(), client)
		if err != nil {
			rl.logger.Warn("rate limit check failed", zap.String("client", client), zap.Error(err))
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}

		// Set rate limit headers
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			retryAfter := int(resetTime.Sub(rl.now()).Seconds())
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"message":     fmt.Sprintf("You have exceeded the rate limit of %d requests per %v", rl.config.Limit, rl.config.Window),
				"retry_after": retryAfter,
			})
			return
		}

		c.Next()
	}
}

// StatusHandler reports the caller's remaining quota without consuming it
func (rl *RateLimiter) StatusHandler(c *gin.Context) {
	status, err := rl.Status(c.Request.Context(), ClientKey(c))
	if err != nil {
		rl.logger.Error("failed to read rate limit status", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read rate limit status"})
		return
	}
	c.JSON(http.StatusOK, status)
}

// IsAllowed counts a request from the given client
// Returns: allowed, remaining requests, reset time, error
func (rl *RateLimiter) IsAllowed(ctx context.Context, client string) (bool, int, time.Time, error) {
	key, resetTime := rl.windowKey(client)

	// Use Redis pipeline for atomic operations
	pipe := rl.redis.TxPipeline()
	incrCmd := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, rl.config.Window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(incrCmd.Val())
	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= rl.config.Limit, remaining, resetTime, nil
}

// Status returns the quota left for client without incrementing the counter
func (rl *RateLimiter) Status(ctx context.Context, client string) (*RateLimitStatus, error) {
	key, resetTime := rl.windowKey(client)

	count, err := rl.redis.Get(ctx, key).Int()
	if errors.Is(err, redis.Nil) {
		// No requests yet in this window
		count = 0
	} else if err != nil {
		return nil, err
	}

	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}
	return &RateLimitStatus{
		Limit:     rl.config.Limit,
		Remaining: remaining,
		ResetAt:   resetTime.Unix(),
	}, nil
}

func (rl *RateLimiter) windowKey(client string) (string, time.Time) {
	windowStart := rl.now().Truncate(rl.config.Window)
	key := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, client, windowStart.Unix())
	return key, windowStart.Add(rl.config.Window)
}

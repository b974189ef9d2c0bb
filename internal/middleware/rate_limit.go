package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	ginlimiter "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/leavehub/hr-platform-api/internal/config"
	"github.com/leavehub/hr-platform-api/internal/database"
	"github.com/leavehub/hr-platform-api/pkg/utils"
)

// RateLimitWrapper wraps the rate limiting functionality
type RateLimitWrapper struct {
	cfg   *config.Config
	redis database.RedisClient
}

// NewRateLimitMiddleware creates a new rate limit middleware wrapper. redis
// may be nil, in which case an in-memory store is used and limits are
// per-process.
func NewRateLimitMiddleware(cfg *config.Config, redis database.RedisClient) *RateLimitWrapper {
	return &RateLimitWrapper{cfg: cfg, redis: redis}
}

// RateLimit returns the rate limiting middleware
func (rlw *RateLimitWrapper) RateLimit() gin.HandlerFunc {
	if !rlw.cfg.RateLimit.Enabled {
		return gin.HandlerFunc(func(c *gin.Context) {
			c.Next()
		})
	}

	rate := limiter.Rate{
		Period: 1 * time.Minute,
		Limit:  int64(rlw.cfg.RateLimit.RequestsPerMinute),
	}

	store := rlw.store()
	rateLimiter := limiter.New(store, rate, limiter.WithClientIPHeader("X-Forwarded-For"))

	return ginlimiter.NewMiddleware(rateLimiter, ginlimiter.WithKeyGetter(getClientKey))
}

func (rlw *RateLimitWrapper) store() limiter.Store {
	if rlw.redis != nil {
		store, err := sredis.NewStoreWithOptions(rlw.redis.Raw(), limiter.StoreOptions{
			Prefix: "ratelimit",
		})
		if err == nil {
			return store
		}
		utils.GetLogger().Warn("redis rate limit store unavailable, falling back to memory", utils.LogFields{
			"reason": err.Error(),
		})
	}
	return memory.NewStore()
}

// getClientKey determines the key to use for rate limiting
func getClientKey(c *gin.Context) string {
	if userID, exists := c.Get("user_id"); exists {
		return fmt.Sprintf("user:%v", userID)
	}
	return fmt.Sprintf("ip:%s", c.ClientIP())
}

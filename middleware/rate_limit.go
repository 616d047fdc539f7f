package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	ginlimiter "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimitMiddleware caps requests per client IP. Used on the auth routes
// to slow down credential guessing.
func RateLimitMiddleware(period time.Duration, limit int64) gin.HandlerFunc {
	rate := limiter.Rate{
		Period: period,
		Limit:  limit,
	}

	// In-memory store for rate limiting (consider external store for production)
	store := memory.NewStore()

	instance := limiter.New(store, rate)

	return ginlimiter.NewMiddleware(instance)
}

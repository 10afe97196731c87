package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"lucerna/internal/infrastructure/ratelimit"
	"lucerna/internal/shared/logger"
	"lucerna/internal/shared/utils"
)

// MagicLinkRateLimit bounds magic-link requests per client IP. A limiter
// backend failure lets the request through; losing rate limiting briefly
// beats failing logins while redis is down.
func MagicLinkRateLimit(limiter ratelimit.RateLimiter, config ratelimit.Config, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("magic-link:%s", utils.ClientIP(c))

		allowed, err := limiter.Allow(c.Request.Context(), key, config)
		if err != nil {
			log.Errorw("rate limiter unavailable", "error", err)
			c.Next()
			return
		}
		if !allowed {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "too many requests, try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}

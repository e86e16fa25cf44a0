package middlewares

import (
	"net/http"
	"time"

	ttlworker "github.com/FloatTech/ttl"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/moyoez/http-file-store/tool"
	"github.com/moyoez/http-file-store/types"
)

// clientTTL drops the limiter of a client that stayed idle this long.
const clientTTL = 10 * time.Minute

// RateLimit creates a per-IP rate limiting middleware. Limiters live in a
// TTL cache so idle clients are forgotten.
func RateLimit(cfg types.RateLimitConfig) gin.HandlerFunc {
	burst := cfg.Burst
	if burst <= 0 {
		burst = max(1, int(cfg.RequestsPerSecond))
	}
	clients := ttlworker.NewCache[string, *rate.Limiter](clientTTL)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		limiter := clients.Get(ip)
		if limiter == nil {
			limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
		}
		// refresh the entry so active clients keep their limiter
		clients.Set(ip, limiter)

		if !limiter.Allow() {
			tool.DefaultLogger.Debugf("[Server] rate limit exceeded for %s", ip)
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				tool.FastReturnErrorWithMessage("rate limit exceeded", "Too many requests, retry later."))
			return
		}
		c.Next()
	}
}

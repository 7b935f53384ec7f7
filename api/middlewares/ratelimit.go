package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/FloatTech/ttl"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/moyoez/uploadkit/tool"
)

// limiterIdle is how long an idle client keeps its bucket.
const limiterIdle = 10 * time.Minute

// RateLimit allows every client IP perSecond requests with the given burst.
// A non-positive rate disables the limit.
func RateLimit(perSecond float64, burst int) gin.HandlerFunc {
	if perSecond <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst < 1 {
		burst = 1
	}
	var mu sync.Mutex
	limiters := ttl.NewCache[string, *rate.Limiter](limiterIdle)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		mu.Lock()
		limiter := limiters.Get(ip)
		if limiter == nil {
			limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		}
		// refresh the idle deadline
		limiters.Set(ip, limiter)
		mu.Unlock()

		if !limiter.Allow() {
			tool.DefaultLogger.Warnf("[RateLimit] Too many requests from %s", ip)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, tool.FastReturnError("Too many requests"))
			return
		}
		c.Next()
	}
}

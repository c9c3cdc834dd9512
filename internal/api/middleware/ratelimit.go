package middleware

import (
	"fmt"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pitchwheel/pitch-api/internal/metrics"
	"github.com/pitchwheel/pitch-api/internal/ratelimit"
)

// RateLimit gates a route behind per-client-IP sliding-window
// admission control. It runs before any binding or validation: a
// rejected request never reaches the rest of the pipeline. Rejections
// are recorded as metric events only.
func RateLimit(limiter *ratelimit.SlidingWindow, cloudwatch *metrics.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()

		if !limiter.Allow(key) {
			// Round up so the advertised wait is never shorter
			// than the real one.
			retryAfter := limiter.RetryAfter(key)
			if secs := int(math.Ceil(retryAfter.Seconds())); secs > 0 {
				c.Header("Retry-After", fmt.Sprintf("%d", secs))
			}

			sentryMetrics.RecordRateLimited(key, c.Request.URL.Path)
			if cloudwatch != nil {
				cloudwatch.RecordRateLimited(c.Request.URL.Path)
			}

			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Try again later.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"giftforms/internal/rate_limiter"

	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware rejects clients that exceed the limiter's window
// quota. Guards the public submission endpoint, which is reachable
// without authentication.
func RateLimitMiddleware(rl *rate_limiter.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.GetHeader("X-Forwarded-For")
		if clientIP == "" {
			clientIP = c.ClientIP()
		}
		if strings.Contains(clientIP, ",") {
			clientIP = strings.Split(clientIP, ",")[0]
		}

		if !rl.IsAllowed(clientIP) {
			remaining := rl.GetRemainingRequests(clientIP)
			c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many submissions. Try again later.",
			})
			return
		}

		c.Next()
	}
}

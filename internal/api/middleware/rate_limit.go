package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"od-portal/backend/pkg/redis"
	"od-portal/backend/pkg/response"
)

// RateLimit sliding-window limit per caller and route, backed by Redis.
// The caller is the authenticated user when known, else the client IP.
// With rdb nil or failing the request passes, like the JWTAuth blacklist.
func RateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || limit <= 0 {
			c.Next()
			return
		}

		subject := c.ClientIP()
		if uid, ok := c.Get("user_id"); ok {
			if s, _ := uid.(string); s != "" {
				subject = "user:" + s
			}
		}

		key := fmt.Sprintf("rate_limit:%s:%s", subject, c.FullPath())
		allowed, err := rdb.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			c.Next()
			return
		}

		if !allowed {
			response.Error(c, http.StatusTooManyRequests, 10004, "too many report requests, try again shortly")
			c.Abort()
			return
		}

		c.Next()
	}
}

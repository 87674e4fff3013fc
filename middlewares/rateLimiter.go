package middlewares

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimiter caps how often one citizen may hit an endpoint within the
// window, backed by a per-user Redis counter with a TTL. A nil client
// disables limiting.
func RateLimiter(client *redis.Client, prefix string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || limit <= 0 {
			c.Next()
			return
		}

		identity, ok := IdentityFrom(c)
		if !ok || identity.Citizen == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			c.Abort()
			return
		}

		enforceLimit(c, client, prefix+":"+identity.Citizen.ID.Hex(), limit, window)
	}
}

// IPRateLimiter is the variant for unauthenticated endpoints such as OTP
// requests, keyed on the client address instead of an account.
func IPRateLimiter(client *redis.Client, prefix string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || limit <= 0 {
			c.Next()
			return
		}
		enforceLimit(c, client, prefix+":"+c.ClientIP(), limit, window)
	}
}

func enforceLimit(c *gin.Context, client *redis.Client, key string, limit int, window time.Duration) {
	ctx := c.Request.Context()

	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "redis error incrementing count"})
		c.Abort()
		return
	}

	// TTL starts with the first hit in the window.
	if count == 1 {
		if err := client.Expire(ctx, key, window).Err(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "redis error setting TTL"})
			c.Abort()
			return
		}
	}

	if count > int64(limit) {
		retryAfter, _ := client.TTL(ctx, key).Result()
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":       "rate limit exceeded",
			"retry_after": retryAfter.Seconds(),
		})
		c.Abort()
		return
	}

	c.Next()
}

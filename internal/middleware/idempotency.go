package middleware

import (
	"fmt"
	"net/http"
	"time"

	"anoa.com/ideaboard/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const IdempotencyHeader = "Idempotency-Key"

// Idempotency refuses a repeated Idempotency-Key from the same user on the same
// route while the first request is running or after it succeeded. A failed first
// attempt, including one that panics, releases the key so the client can retry.
func Idempotency(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if rdb == nil || key == "" {
			c.Next()
			return
		}

		redisKey := fmt.Sprintf("idempotency:%s:%s:%s:%s", c.GetString(response.ContextUserID), c.Request.Method, c.Request.URL.Path, key)
		ctx := c.Request.Context()

		claimed, err := rdb.SetNX(ctx, redisKey, "pending", ttl).Result()
		if err != nil {
			logger.Warn("idempotency store unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !claimed {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"message": "a request with this idempotency key was already processed"})
			return
		}

		release := func() {
			if err := rdb.Del(ctx, redisKey).Err(); err != nil {
				logger.Warn("failed to release idempotency key", zap.String("key", redisKey), zap.Error(err))
			}
		}

		// A panicking handler never returns here, so the key is released on the way out.
		completed := false
		defer func() {
			if !completed {
				release()
			}
		}()

		c.Next()
		completed = true

		if c.Writer.Status() >= http.StatusBadRequest {
			release()
			return
		}
		if err := rdb.Set(ctx, redisKey, "done", ttl).Err(); err != nil {
			logger.Warn("failed to mark idempotency key done", zap.String("key", redisKey), zap.Error(err))
		}
	}
}

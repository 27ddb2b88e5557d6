package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimit - лимит запросов по ip, фиксированное окно на счётчике в redis.
// INCR и EXPIRE через pipeline. Если redis лежит - пропускаем запрос,
// доступность важнее лимита
func RateLimit(client *redis.Client, log *slog.Logger, maxRequests int, window time.Duration) gin.HandlerFunc {
	if client == nil {
		panic("redis client is required for RateLimit")
	}
	return func(c *gin.Context) {
		const op = "gates.server.rateLimit"
		key := "ratelimit:" + c.ClientIP()

		pipe := client.Pipeline()
		incr := pipe.Incr(c.Request.Context(), key)
		pipe.Expire(c.Request.Context(), key, window)
		if _, err := pipe.Exec(c.Request.Context()); err != nil {
			log.Error(op, "err", err)
			c.Next()
			return
		}

		if incr.Val() > int64(maxRequests) {
			c.JSON(http.StatusTooManyRequests, errorResponse{Error: "Too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}

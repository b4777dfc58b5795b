package middlewares

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RateLimit is a fixed-window per-IP limiter backed by redis so the count is
// shared across replicas. It fails open: when redis is unreachable, requests
// pass and the outage is logged instead of taking the API down with it.
func RateLimit(rdb *redis.Client, capacity int, window time.Duration, log zerolog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		windowStart := time.Now().Unix() / int64(window.Seconds())
		key := fmt.Sprintf("ratelimit:%s:%d", ctx.ClientIP(), windowStart)

		pipe := rdb.TxPipeline()
		count := pipe.Incr(ctx.Request.Context(), key)
		pipe.Expire(ctx.Request.Context(), key, window)
		if _, err := pipe.Exec(ctx.Request.Context()); err != nil {
			log.Warn().Err(err).Msg("rate limiter unavailable, letting request through")
			ctx.Next()
			return
		}

		if count.Val() > int64(capacity) {
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status": "error", "message": "too many requests, slow down",
			})
			return
		}
		ctx.Next()
	}
}

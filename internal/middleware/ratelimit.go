package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/bookline/booking-api/internal/httperr"
	"github.com/bookline/booking-api/internal/verification"
)

// RateLimit guards one route group with a per-client budget. The client
// network identifier is the key; limiter errors fail open so a redis hiccup
// does not take bookings down with it.
func RateLimit(
	limiter verification.RateLimiter,
	name string,
	limit int,
	window time.Duration,
	log zerolog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := name + ":" + c.ClientIP()

		allowed, err := limiter.Allow(c.Request.Context(), key, limit, window)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("rate limiter error, failing open")
			c.Next()
			return
		}

		if !allowed {
			httperr.Write(c, 429, "rate_limited", "Too many requests, slow down.")
			c.Abort()
			return
		}

		c.Next()
	}
}

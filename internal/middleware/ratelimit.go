package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"BarScope/internal/service/ratelimit"
)

// RateLimit rejects requests above the per-client budget with 429. Clients
// are keyed by real IP.
func RateLimit(limiter *ratelimit.Limiter, capacity, refillPerSec float64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !limiter.Allow(c.RealIP(), capacity, refillPerSec) {
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"message": "rate limit exceeded",
				})
			}
			return next(c)
		}
	}
}

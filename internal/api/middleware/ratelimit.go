package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/quizplatform/quiz-api/internal/api/metrics"
	"github.com/quizplatform/quiz-api/internal/core/ports"
)

// RateLimit applies a per-IP fixed window to a route. Requests are let
// through when the limiter backend is unreachable.
func RateLimit(limiter ports.RateLimiter, route string, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := route + ":" + c.RealIP()

			ok, err := limiter.Allow(c.Request().Context(), key)
			if err != nil {
				log.Warn().Err(err).Str("route", route).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}
			if !ok {
				metrics.RateLimitedTotal.WithLabelValues(route).Inc()
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many attempts, please try again later")
			}
			return next(c)
		}
	}
}

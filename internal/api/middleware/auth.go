package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/quizplatform/quiz-api/internal/api/metrics"
	"github.com/quizplatform/quiz-api/internal/core/domain"
)

const principalKey = "principal"

// TokenVerifier checks an access token and returns the principal its
// claims describe.
type TokenVerifier interface {
	VerifyAccess(token string) (*domain.Principal, error)
}

// Auth validates the bearer token and injects the principal into the
// request context. Each failure cause is counted under its own metric
// reason but the response is always the same generic 401.
func Auth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				metrics.TokenRejectedTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			principal, err := verifier.VerifyAccess(token)
			if err != nil {
				metrics.TokenRejectedTotal.WithLabelValues(rejectReason(err)).Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			c.Set(principalKey, *principal)
			return next(c)
		}
	}
}

// OptionalAuth runs the same verification but never rejects: on any
// failure the request proceeds anonymously, letting handlers serve both
// authenticated and anonymous variants.
func OptionalAuth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token := bearerToken(c); token != "" {
				if principal, err := verifier.VerifyAccess(token); err == nil {
					c.Set(principalKey, *principal)
				}
			}
			return next(c)
		}
	}
}

// PrincipalFrom returns the principal attached by Auth or OptionalAuth.
func PrincipalFrom(c echo.Context) (domain.Principal, bool) {
	principal, ok := c.Get(principalKey).(domain.Principal)
	return principal, ok
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenMalformed):
		return "malformed"
	default:
		return "signature"
	}
}
